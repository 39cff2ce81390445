package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/draw-edge/internal/backtest"
	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/database"
	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/repository"
)

var (
	configFile string
	windowDays int
	asJSON     bool
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVarP(&windowDays, "window", "w", 0, "Rolling window in days (default: configured backtest window)")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Emit stats as JSON")
}

var rootCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rolling prediction performance",
	Long:  `Computes hit rate and average expected value over the trailing window of settled predictions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupDependencies()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayStats()
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func displayStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	days := windowDays
	if days <= 0 {
		days = cfg.Engine.BacktestWindowDays
	}

	now := time.Now().UTC()
	predictions, err := repos.Prediction.GetByDateRange(ctx, now.AddDate(0, 0, -days), now)
	if err != nil {
		return fmt.Errorf("failed to load predictions: %w", err)
	}

	stats := backtest.Compute(predictions, days, now)

	if asJSON {
		fmt.Println(stats.ToJSON())
		return nil
	}

	fmt.Printf("\nRolling performance, last %d days (%s to %s)\n\n",
		stats.WindowDays, stats.From.Format("2006-01-02"), stats.To.Format("2006-01-02"))
	fmt.Printf("  Settled picks: %d\n", stats.Count)
	fmt.Printf("  Wins:          %d\n", stats.Wins)
	fmt.Printf("  Losses:        %d\n", stats.Losses)

	if stats.HitRate == nil {
		fmt.Println("  Hit rate:      n/a (no settled picks in window)")
		fmt.Println("  Avg EV:        n/a")
	} else {
		fmt.Printf("  Hit rate:      %.1f%%\n", *stats.HitRate*100)
		fmt.Printf("  Avg EV:        %+.3f\n", *stats.AvgEV)
	}

	pending := 0
	for _, p := range predictions {
		if p.Outcome == models.OutcomePending {
			pending++
		}
	}
	fmt.Printf("  Pending:       %d\n\n", pending)

	return nil
}
