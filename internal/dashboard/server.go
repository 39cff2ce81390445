// Package dashboard serves the operator-facing HTTP surface: today's
// picks, rolling performance and manual triggers.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/service"
)

// Server exposes the dashboard endpoints
type Server struct {
	analysis *service.AnalysisService
	port     int
	bankroll float64
	server   *http.Server
	logger   *logrus.Logger
}

// NewServer creates the dashboard server
func NewServer(analysis *service.AnalysisService, port int, bankroll float64, logger *logrus.Logger) *Server {
	return &Server{
		analysis: analysis,
		port:     port,
		bankroll: bankroll,
		logger:   logger,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/picks", s.handlePicks)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/runs", s.handleTriggerRun)
	mux.HandleFunc("POST /api/picks/{matchID}/outcome", s.handleOutcome)
	return mux
}

// Start starts the dashboard server in the background
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("Dashboard server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Dashboard server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the dashboard server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Dashboard server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

type pickView struct {
	MatchID       string    `json:"match_id"`
	League        string    `json:"league"`
	Fixture       string    `json:"fixture"`
	KickoffTime   time.Time `json:"kickoff_time"`
	DrawOdds      float64   `json:"draw_odds"`
	Probability   float64   `json:"probability"`
	ExpectedValue float64   `json:"expected_value"`
	KellyStake    float64   `json:"kelly_stake"`
	StakeAmount   float64   `json:"stake_amount"`
	Reasons       string    `json:"reasons"`
	Outcome       string    `json:"outcome"`
}

type picksResponse struct {
	RunDate     *time.Time `json:"run_date"`
	CompletedAt *time.Time `json:"completed_at"`
	Evaluated   int        `json:"evaluated"`
	Picks       []pickView `json:"picks"`
	Message     string     `json:"message,omitempty"`
}

// handlePicks returns the latest run's qualifying picks. "No run yet"
// and "run finished with nothing qualifying" are distinct responses.
func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	result := s.analysis.LatestResult()
	if result == nil {
		writeJSON(w, http.StatusOK, picksResponse{
			Picks:   []pickView{},
			Message: "analysis has not run yet",
		})
		return
	}

	picks := make([]pickView, 0, len(result.Picks))
	for _, p := range result.Picks {
		picks = append(picks, pickView{
			MatchID:       p.MatchID,
			League:        p.League,
			Fixture:       fmt.Sprintf("%s v %s", p.HomeTeam, p.AwayTeam),
			KickoffTime:   p.KickoffTime,
			DrawOdds:      p.DrawOdds,
			Probability:   p.Probability,
			ExpectedValue: p.ExpectedValue,
			KellyStake:    p.KellyStake,
			StakeAmount:   p.StakeAmount(s.bankroll),
			Reasons:       p.Reasons,
			Outcome:       string(p.Outcome),
		})
	}

	resp := picksResponse{
		RunDate:     &result.RunDate,
		CompletedAt: &result.CompletedAt,
		Evaluated:   result.Evaluated,
		Picks:       picks,
	}
	if len(picks) == 0 {
		resp.Message = "no picks qualified"
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStats returns rolling performance over the backtest window
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analysis.RollingStats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute rolling stats")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to compute stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleTriggerRun kicks off a manual analysis run without waiting for
// it to finish
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := s.analysis.Run(ctx, service.TriggerManual); err != nil {
			s.logger.WithError(err).Error("Manual analysis run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "run started"})
}

type outcomeRequest struct {
	Result string `json:"result"`
}

// handleOutcome records a result for a predicted match
func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	if matchID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "match id is required"})
		return
	}

	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result := models.Outcome(strings.ToLower(strings.TrimSpace(req.Result)))
	if !result.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "result must be win or loss"})
		return
	}

	err := s.analysis.RecordOutcome(r.Context(), matchID, result)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"match_id": matchID, "outcome": string(result)})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no prediction for match"})
	case errors.Is(err, models.ErrOutcomeConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "a different outcome is already recorded"})
	default:
		s.logger.WithError(err).WithField("match_id", matchID).Error("Failed to record outcome")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to record outcome"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
