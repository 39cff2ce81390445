package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/metrics"
	"github.com/yourusername/draw-edge/internal/models"
)

const (
	sourceName     = "api_football"
	matchWinnerBet = "Match Winner"
	drawSelection  = "Draw"
	statusFullTime = "FT"
	dateFormat     = "2006-01-02"
)

// APIFootballSource fetches fixtures and odds from API-Football.
// Odds responses are cached per fixture: odds rarely move enough within
// one run window to justify a second quota hit.
type APIFootballSource struct {
	cfg       *config.FixturesConfig
	client    *RateLimitedHTTPClient
	oddsCache *cache.Cache
	logger    *logrus.Logger
}

// NewAPIFootballSource creates an API-Football fixture source
func NewAPIFootballSource(cfg *config.FixturesConfig, client *RateLimitedHTTPClient, logger *logrus.Logger) *APIFootballSource {
	ttl := time.Duration(cfg.OddsCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &APIFootballSource{
		cfg:       cfg,
		client:    client,
		oddsCache: cache.New(ttl, 2*ttl),
		logger:    logger,
	}
}

// Name returns the source name
func (s *APIFootballSource) Name() string {
	return sourceName
}

// fixturesEnvelope mirrors the provider's fixture list response
type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// oddsEnvelope mirrors the provider's odds response
type oddsEnvelope struct {
	Response []struct {
		Bookmakers []struct {
			Bets []struct {
				Name   string `json:"name"`
				Values []struct {
					Value string `json:"value"`
					Odd   string `json:"odd"`
				} `json:"values"`
			} `json:"bets"`
		} `json:"bookmakers"`
	} `json:"response"`
}

// FetchCandidates retrieves the day's fixtures for the configured league
// set, batching leagues to keep URLs short, then resolves draw odds per
// fixture. A failed batch is logged and skipped; the remaining batches
// still contribute candidates.
func (s *APIFootballSource) FetchCandidates(ctx context.Context, date time.Time) ([]*models.MatchCandidate, error) {
	start := time.Now()
	defer func() {
		metrics.FixtureFetchDuration.Observe(time.Since(start).Seconds())
	}()

	var candidates []*models.MatchCandidate
	batchSize := s.cfg.LeagueBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	for i := 0; i < len(s.cfg.LeagueIDs); i += batchSize {
		end := i + batchSize
		if end > len(s.cfg.LeagueIDs) {
			end = len(s.cfg.LeagueIDs)
		}
		batch := s.cfg.LeagueIDs[i:end]

		fixtures, err := s.fetchFixtures(ctx, date, batch)
		if err != nil {
			metrics.FixtureFetchErrorsTotal.Inc()
			s.logger.WithError(err).WithField("leagues", batch).Warn("Fixture batch failed, skipping")
			continue
		}

		for _, f := range fixtures {
			candidate, err := s.toCandidate(ctx, f)
			if err != nil {
				s.logger.WithError(err).WithField("fixture_id", f.Fixture.ID).Debug("Skipping fixture")
				continue
			}
			candidates = append(candidates, candidate)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date":       date.Format(dateFormat),
		"candidates": len(candidates),
	}).Info("Fixtures fetched")

	return candidates, nil
}

// FetchFinishedDraws retrieves matches that finished level in the range
func (s *APIFootballSource) FetchFinishedDraws(ctx context.Context, start, end time.Time) ([]FinishedMatch, error) {
	var draws []FinishedMatch

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		fixtures, err := s.fetchFixtures(ctx, day, s.cfg.LeagueIDs)
		if err != nil {
			metrics.FixtureFetchErrorsTotal.Inc()
			s.logger.WithError(err).WithField("date", day.Format(dateFormat)).Debug("Result day failed, skipping")
			continue
		}

		for _, f := range fixtures {
			if f.Fixture.Status.Short != statusFullTime {
				continue
			}
			if f.Goals.Home == nil || f.Goals.Away == nil || *f.Goals.Home != *f.Goals.Away {
				continue
			}
			kickoff, err := time.Parse(time.RFC3339, f.Fixture.Date)
			if err != nil {
				s.logger.WithError(err).WithField("fixture_id", f.Fixture.ID).Debug("Skipping fixture")
				continue
			}
			draws = append(draws, FinishedMatch{
				MatchID:   strconv.FormatInt(f.Fixture.ID, 10),
				LeagueID:  f.League.ID,
				League:    f.League.Name,
				HomeTeam:  f.Teams.Home.Name,
				AwayTeam:  f.Teams.Away.Name,
				HomeGoals: *f.Goals.Home,
				AwayGoals: *f.Goals.Away,
				Kickoff:   kickoff,
			})
		}
	}

	return draws, nil
}

func (s *APIFootballSource) fetchFixtures(ctx context.Context, date time.Time, leagueIDs []int) ([]fixtureItem, error) {
	ids := make([]string, len(leagueIDs))
	for i, id := range leagueIDs {
		ids[i] = strconv.Itoa(id)
	}

	url := fmt.Sprintf("%s/fixtures?date=%s&league=%s", s.cfg.APIURL, date.Format(dateFormat), strings.Join(ids, ","))

	var envelope fixturesEnvelope
	if err := s.getJSON(ctx, url, &envelope); err != nil {
		return nil, err
	}
	return envelope.Response, nil
}

// toCandidate converts a fixture into a scoring candidate, resolving
// draw odds from the odds feed with a per-league fallback estimate.
func (s *APIFootballSource) toCandidate(ctx context.Context, f fixtureItem) (*models.MatchCandidate, error) {
	kickoff, err := time.Parse(time.RFC3339, f.Fixture.Date)
	if err != nil {
		return nil, NewSourceError(sourceName, ErrCodeInvalidData, "unparseable kickoff time", err)
	}

	matchID := strconv.FormatInt(f.Fixture.ID, 10)
	drawOdds := s.fetchDrawOdds(ctx, f.Fixture.ID, f.League.Name)

	return &models.MatchCandidate{
		MatchID:     matchID,
		LeagueID:    f.League.ID,
		League:      f.League.Name,
		KickoffTime: kickoff,
		HomeTeam:    f.Teams.Home.Name,
		AwayTeam:    f.Teams.Away.Name,
		DrawOdds:    drawOdds,
		Liquidity:   models.EstimatedLiquidity(f.League.Name),
	}, nil
}

// fetchDrawOdds looks up the quoted draw price for a fixture, falling
// back to the league's typical draw odds when no quote is available.
func (s *APIFootballSource) fetchDrawOdds(ctx context.Context, fixtureID int64, league string) float64 {
	key := strconv.FormatInt(fixtureID, 10)
	if cached, found := s.oddsCache.Get(key); found {
		if odds, ok := cached.(float64); ok {
			return odds
		}
	}

	url := fmt.Sprintf("%s/odds?fixture=%d", s.cfg.APIURL, fixtureID)

	var envelope oddsEnvelope
	if err := s.getJSON(ctx, url, &envelope); err != nil {
		s.logger.WithError(err).WithField("fixture_id", fixtureID).Debug("Odds lookup failed, estimating")
		return models.EstimatedDrawOdds(league)
	}

	for _, entry := range envelope.Response {
		for _, bookmaker := range entry.Bookmakers {
			for _, bet := range bookmaker.Bets {
				if bet.Name != matchWinnerBet {
					continue
				}
				for _, value := range bet.Values {
					if value.Value != drawSelection {
						continue
					}
					odd, err := decimal.NewFromString(value.Odd)
					if err != nil {
						continue
					}
					odds, _ := odd.Round(2).Float64()
					s.oddsCache.Set(key, odds, cache.DefaultExpiration)
					return odds
				}
			}
		}
	}

	return models.EstimatedDrawOdds(league)
}

func (s *APIFootballSource) getJSON(ctx context.Context, url string, out interface{}) error {
	headers := map[string]string{
		"x-rapidapi-key": s.cfg.APIKey,
	}

	resp, err := s.client.Get(ctx, url, headers)
	if err != nil {
		return NewSourceError(sourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewSourceError(sourceName, ErrCodeRateLimitExceeded, "provider quota exhausted", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusForbidden:
		return NewSourceError(sourceName, ErrCodeAuthFailed, "API key rejected", ErrAuthFailed)
	case resp.StatusCode >= 400:
		return NewSourceError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewSourceError(sourceName, ErrCodeNetworkError, "failed to read response body", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewSourceError(sourceName, ErrCodeInvalidData, "failed to decode response", err)
	}

	return nil
}
