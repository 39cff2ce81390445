package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/database"
	"github.com/yourusername/draw-edge/internal/datasource"
	"github.com/yourusername/draw-edge/internal/logger"
	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/repository"
	"github.com/yourusername/draw-edge/internal/service"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	analysis   *service.AnalysisService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(outcomeCmd)
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-off draw analysis",
	Long:  `Fetches today's fixtures, scores them and prints the qualifying picks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis()
	},
}

var outcomeCmd = &cobra.Command{
	Use:   "outcome <match-id> <win|loss>",
	Short: "Record the result of a predicted match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordOutcome(args[0], models.Outcome(args[1]))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.New("warn", cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:      cfg.FixtureTimeout(),
		MaxRetries:   3,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    cfg.Fixtures.RateLimit,
	}, appLog)
	source := datasource.NewAPIFootballSource(&cfg.Fixtures, httpClient, appLog)

	analyzer := service.NewPatternAnalyzer(source, repos.Prediction, repos.Pattern, cfg.Scheduler.PatternLookbackDays, appLog)
	analysis = service.NewAnalysisService(cfg, source, analyzer, repos, appLog)

	return nil
}

func runAnalysis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := analysis.Run(ctx, service.TriggerManual)
	if err != nil {
		return fmt.Errorf("analysis run failed: %w", err)
	}

	fmt.Printf("\nRun %s: %d candidates evaluated, %d invalid, %d fallbacks\n\n",
		result.RunDate.Format("2006-01-02"), result.Evaluated, result.Invalid, result.Fallbacks)

	if len(result.Picks) == 0 {
		fmt.Println("No picks qualified.")
		return nil
	}

	fmt.Printf("%-28s %-24s %-18s %6s %7s %7s %7s\n",
		"FIXTURE", "LEAGUE", "KICKOFF", "ODDS", "P(X)", "EV", "STAKE")
	for _, p := range result.Picks {
		fmt.Printf("%-28s %-24s %-18s %6.2f %6.1f%% %+7.3f %6.2f%%\n",
			truncate(p.HomeTeam+" v "+p.AwayTeam, 28),
			truncate(p.League, 24),
			p.KickoffTime.Format("15:04 Mon 02 Jan"),
			p.DrawOdds,
			p.Probability*100,
			p.ExpectedValue,
			p.KellyStake*100,
		)
	}

	fmt.Printf("\nStakes assume a %.0f reference bankroll with a %.0f%% Kelly cap.\n",
		cfg.Engine.ReferenceBankroll, cfg.Engine.KellyCap*100)
	return nil
}

func recordOutcome(matchID string, result models.Outcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := analysis.RecordOutcome(ctx, matchID, result)
	switch {
	case err == nil:
		fmt.Printf("Recorded %s for match %s\n", result, matchID)
		return nil
	case errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("no prediction found for match %s", matchID)
	case errors.Is(err, models.ErrOutcomeConflict):
		return fmt.Errorf("match %s already has a different outcome recorded", matchID)
	default:
		return err
	}
}

// truncate shortens s to max characters, counting runes so accented
// team names are never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
