package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/draw-edge/internal/config"
	"github.com/yourusername/draw-edge/internal/datasource"
	"github.com/yourusername/draw-edge/internal/models"
	"github.com/yourusername/draw-edge/internal/repository"
)

// MockFixtureSource is a mock implementation of datasource.FixtureSource
type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) FetchCandidates(ctx context.Context, date time.Time) ([]*models.MatchCandidate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchCandidate), args.Error(1)
}

func (m *MockFixtureSource) FetchFinishedDraws(ctx context.Context, start, end time.Time) ([]datasource.FinishedMatch, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datasource.FinishedMatch), args.Error(1)
}

func (m *MockFixtureSource) Name() string {
	return "mock"
}

// MockPredictionRepository is a mock implementation of repository.PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Upsert(ctx context.Context, prediction *models.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) UpsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Prediction, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) UpdateOutcome(ctx context.Context, matchID string, result models.Outcome) error {
	args := m.Called(ctx, matchID, result)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Prediction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetByRunDate(ctx context.Context, runDate time.Time) ([]*models.Prediction, error) {
	args := m.Called(ctx, runDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

// MockPatternRepository is a mock implementation of repository.PatternRepository
type MockPatternRepository struct {
	mock.Mock
}

func (m *MockPatternRepository) ReplaceForDate(ctx context.Context, analysisDate time.Time, patterns []models.DrawPattern) error {
	args := m.Called(ctx, analysisDate, patterns)
	return args.Error(0)
}

func (m *MockPatternRepository) GetLatest(ctx context.Context) ([]models.DrawPattern, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DrawPattern), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.MinEVThreshold = 0.05
	cfg.Engine.TopK = 15
	cfg.Engine.KellyFraction = 0.25
	cfg.Engine.KellyCap = 0.05
	cfg.Engine.DefaultDrawRate = 0.27
	cfg.Engine.BacktestWindowDays = 30
	cfg.Engine.ReferenceBankroll = 1000
	cfg.Scheduler.PatternLookbackDays = 14
	return cfg
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(source *MockFixtureSource, predRepo *MockPredictionRepository, patternRepo *MockPatternRepository) *AnalysisService {
	logger := quietLogger()
	repos := &repository.Repositories{Prediction: predRepo, Pattern: patternRepo}
	analyzer := NewPatternAnalyzer(source, predRepo, patternRepo, 14, logger)
	return NewAnalysisService(testConfig(), source, analyzer, repos, logger)
}

func qualifyingCandidate() *models.MatchCandidate {
	return &models.MatchCandidate{
		MatchID:     "1001",
		LeagueID:    40,
		League:      "Championship",
		KickoffTime: time.Now().UTC().Add(6 * time.Hour),
		HomeTeam:    "Hull",
		AwayTeam:    "Stoke",
		DrawOdds:    3.50,
		Liquidity:   1_500_000,
	}
}

func TestRunPersistsQualifyingPicks(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)

	source.On("FetchFinishedDraws", mock.Anything, mock.Anything, mock.Anything).
		Return([]datasource.FinishedMatch{}, nil)
	source.On("FetchCandidates", mock.Anything, mock.Anything).
		Return([]*models.MatchCandidate{qualifyingCandidate()}, nil)
	predRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Prediction{}, nil)
	predRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
	patternRepo.On("ReplaceForDate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(source, predRepo, patternRepo)

	require.Nil(t, svc.LatestResult(), "no result before the first run")

	result, err := svc.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Picks, 1)

	pick := result.Picks[0]
	assert.Equal(t, "1001", pick.MatchID)
	assert.Equal(t, models.OutcomePending, pick.Outcome)
	assert.Greater(t, pick.ExpectedValue, 0.05)
	assert.Greater(t, pick.KellyStake, 0.0)
	assert.LessOrEqual(t, pick.KellyStake, 0.05)

	assert.Same(t, result, svc.LatestResult())
	predRepo.AssertCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestRunWithNoQualifyingPicks(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)

	// Premier League at long odds and thin liquidity scores below threshold
	candidate := &models.MatchCandidate{
		MatchID:     "2001",
		LeagueID:    39,
		League:      "Premier League",
		KickoffTime: time.Now().UTC().Add(6 * time.Hour),
		DrawOdds:    3.90,
		Liquidity:   100_000,
	}

	source.On("FetchFinishedDraws", mock.Anything, mock.Anything, mock.Anything).
		Return([]datasource.FinishedMatch{}, nil)
	source.On("FetchCandidates", mock.Anything, mock.Anything).
		Return([]*models.MatchCandidate{candidate}, nil)
	predRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Prediction{}, nil)
	patternRepo.On("ReplaceForDate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(source, predRepo, patternRepo)

	result, err := svc.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.NotNil(t, result, "ran-but-nothing-qualified must still return a result")
	assert.NotNil(t, result.Picks)
	assert.Empty(t, result.Picks)
	assert.Equal(t, 1, result.Evaluated)

	predRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	assert.NotNil(t, svc.LatestResult())
}

func TestRunContinuesWhenPatternAnalysisFails(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)

	source.On("FetchFinishedDraws", mock.Anything, mock.Anything, mock.Anything).
		Return([]datasource.FinishedMatch{}, nil)
	source.On("FetchCandidates", mock.Anything, mock.Anything).
		Return([]*models.MatchCandidate{qualifyingCandidate()}, nil)
	predRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Prediction{}, nil)
	predRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
	patternRepo.On("ReplaceForDate", mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	svc := newTestService(source, predRepo, patternRepo)

	result, err := svc.Run(context.Background(), TriggerManual)
	require.NoError(t, err, "pattern persistence failure must not abort the run")
	require.NotNil(t, result)
	assert.Len(t, result.Picks, 1)
}

func TestRunFailsWhenFixturesUnavailable(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)

	source.On("FetchFinishedDraws", mock.Anything, mock.Anything, mock.Anything).
		Return([]datasource.FinishedMatch{}, nil)
	source.On("FetchCandidates", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	predRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Prediction{}, nil)
	patternRepo.On("ReplaceForDate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(source, predRepo, patternRepo)

	result, err := svc.Run(context.Background(), TriggerManual)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, svc.LatestResult(), "failed run must not become the latest result")
}

func TestRecordOutcome(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)
	svc := newTestService(source, predRepo, patternRepo)

	predRepo.On("UpdateOutcome", mock.Anything, "1001", models.OutcomeWin).Return(nil)

	err := svc.RecordOutcome(context.Background(), "1001", models.OutcomeWin)
	assert.NoError(t, err)
	predRepo.AssertExpectations(t)
}

func TestRecordOutcomeConflict(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)
	svc := newTestService(source, predRepo, patternRepo)

	predRepo.On("UpdateOutcome", mock.Anything, "1001", models.OutcomeLoss).
		Return(models.ErrOutcomeConflict)

	err := svc.RecordOutcome(context.Background(), "1001", models.OutcomeLoss)
	assert.ErrorIs(t, err, models.ErrOutcomeConflict)
}

func TestRecordOutcomeRejectsInvalidResult(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)
	svc := newTestService(source, predRepo, patternRepo)

	err := svc.RecordOutcome(context.Background(), "1001", models.Outcome("void"))
	assert.ErrorIs(t, err, models.ErrInvalidOutcome)
	predRepo.AssertNotCalled(t, "UpdateOutcome", mock.Anything, mock.Anything, mock.Anything)
}

func TestRollingStats(t *testing.T) {
	source := new(MockFixtureSource)
	predRepo := new(MockPredictionRepository)
	patternRepo := new(MockPatternRepository)
	svc := newTestService(source, predRepo, patternRepo)

	recent := time.Now().UTC().AddDate(0, 0, -5)
	predRepo.On("GetByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Prediction{
			{MatchID: "a", KickoffTime: recent, ExpectedValue: 0.10, Outcome: models.OutcomeWin},
			{MatchID: "b", KickoffTime: recent, ExpectedValue: 0.08, Outcome: models.OutcomeLoss},
			{MatchID: "c", KickoffTime: recent, ExpectedValue: 0.12, Outcome: models.OutcomePending},
		}, nil)

	stats, err := svc.RollingStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.HitRate)
	assert.InDelta(t, 0.5, *stats.HitRate, 1e-9)
	require.NotNil(t, stats.AvgEV)
	assert.InDelta(t, 0.09, *stats.AvgEV, 1e-9)
}
