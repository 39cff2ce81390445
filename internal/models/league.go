package models

import "strings"

// League holds per-league context used by the probability estimator and
// the odds fallback tables. DrawRate is the historical share of matches
// ending level; leagues without a measured rate use the configured
// global default.
type League struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	DrawRate  float64 `json:"draw_rate" validate:"gte=0,lte=1"`
	DrawProne bool    `json:"draw_prone"`
}

// DefaultLeagues is the curated league set the engine analyzes. Rates
// come from multi-season full-time results for each competition.
var DefaultLeagues = []League{
	{ID: 39, Name: "Premier League", DrawRate: 0.23},
	{ID: 40, Name: "Championship", DrawRate: 0.29, DrawProne: true},
	{ID: 41, Name: "League One", DrawRate: 0.28, DrawProne: true},
	{ID: 42, Name: "League Two", DrawRate: 0.28, DrawProne: true},
	{ID: 140, Name: "La Liga", DrawRate: 0.25},
	{ID: 135, Name: "Serie A", DrawRate: 0.26},
	{ID: 78, Name: "Bundesliga", DrawRate: 0.24},
	{ID: 179, Name: "Scottish Premiership", DrawRate: 0.27, DrawProne: true},
	{ID: 144, Name: "Belgian First Division A", DrawRate: 0.26, DrawProne: true},
	{ID: 94, Name: "Primeira Liga", DrawRate: 0.27, DrawProne: true},
	{ID: 88, Name: "Eredivisie", DrawRate: 0.26, DrawProne: true},
	{ID: 203, Name: "Turkish Super Lig", DrawRate: 0.26},
	{ID: 103, Name: "Eliteserien", DrawRate: 0.25},
	{ID: 87, Name: "Allsvenskan", DrawRate: 0.25},
	{ID: 98, Name: "Danish Superliga", DrawRate: 0.25},
	{ID: 61, Name: "Ligue 1", DrawRate: 0.26},
	{ID: 72, Name: "Serie B Brazil", DrawRate: 0.30, DrawProne: true},
	{ID: 253, Name: "MLS", DrawRate: 0.24},
}

// LeagueIndex provides draw-rate lookup by league ID
type LeagueIndex map[int]League

// NewLeagueIndex builds an index over the given leagues
func NewLeagueIndex(leagues []League) LeagueIndex {
	idx := make(LeagueIndex, len(leagues))
	for _, l := range leagues {
		idx[l.ID] = l
	}
	return idx
}

// DrawRate returns the historical draw rate for a league and whether the
// league is known. Callers fall back to the configured default when the
// league is absent.
func (idx LeagueIndex) DrawRate(leagueID int) (float64, bool) {
	l, ok := idx[leagueID]
	if !ok {
		return 0, false
	}
	return l.DrawRate, true
}

// IsDrawProne reports whether the league is on the draw-prone list
func (idx LeagueIndex) IsDrawProne(leagueID int) bool {
	l, ok := idx[leagueID]
	return ok && l.DrawProne
}

// EstimatedDrawOdds returns a league-typical draw price used when the
// odds feed has no quote for a fixture.
func EstimatedDrawOdds(league string) float64 {
	estimates := map[string]float64{
		"championship":             3.60,
		"league one":               3.50,
		"league two":               3.45,
		"scottish":                 3.55,
		"primeira liga":            3.65,
		"eredivisie":               3.70,
		"belgian first division a": 3.75,
	}
	lower := strings.ToLower(league)
	for key, odds := range estimates {
		if strings.Contains(lower, key) {
			return odds
		}
	}
	return 3.80
}

// EstimatedLiquidity buckets a league into a market-liquidity tier.
// Figures approximate typical matched volume on the draw market.
func EstimatedLiquidity(league string) float64 {
	lower := strings.ToLower(league)
	tier1 := []string{"premier league", "la liga", "serie a", "bundesliga", "ligue 1"}
	tier2 := []string{"championship", "eredivisie", "primeira liga", "belgian"}
	tier3 := []string{"league one", "scottish", "league two"}

	for _, t := range tier1 {
		if strings.Contains(lower, t) {
			return 5_000_000
		}
	}
	for _, t := range tier2 {
		if strings.Contains(lower, t) {
			return 1_500_000
		}
	}
	for _, t := range tier3 {
		if strings.Contains(lower, t) {
			return 500_000
		}
	}
	return 300_000
}
