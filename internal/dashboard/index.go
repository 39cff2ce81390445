package dashboard

import (
	"html/template"
	"net/http"
	"time"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Draw Edge</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #444; padding: 4px 10px; text-align: left; }
th { background: #222; }
.positive { color: #7c7; }
.muted { color: #888; }
h1 { font-size: 1.2em; }
</style>
</head>
<body>
<h1>Draw Edge &mdash; today's picks</h1>
{{if .HasRun}}
<p class="muted">Run {{.RunDate}} completed {{.CompletedAt}} &middot; {{.Evaluated}} candidates evaluated</p>
{{if .Picks}}
<table>
<tr><th>Fixture</th><th>League</th><th>Kickoff</th><th>Odds</th><th>P(draw)</th><th>EV</th><th>Stake</th><th>Outcome</th></tr>
{{range .Picks}}
<tr>
<td>{{.Fixture}}</td>
<td>{{.League}}</td>
<td>{{.Kickoff}}</td>
<td>{{printf "%.2f" .DrawOdds}}</td>
<td>{{printf "%.1f%%" .ProbabilityPct}}</td>
<td class="positive">{{printf "%+.3f" .ExpectedValue}}</td>
<td>{{printf "%.2f%%" .StakePct}}</td>
<td>{{.Outcome}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No picks qualified in the last run.</p>
{{end}}
{{else}}
<p class="muted">Analysis has not run yet.</p>
{{end}}
</body>
</html>
`))

type indexPick struct {
	Fixture        string
	League         string
	Kickoff        string
	DrawOdds       float64
	ProbabilityPct float64
	ExpectedValue  float64
	StakePct       float64
	Outcome        string
}

type indexData struct {
	HasRun      bool
	RunDate     string
	CompletedAt string
	Evaluated   int
	Picks       []indexPick
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{}

	if result := s.analysis.LatestResult(); result != nil {
		data.HasRun = true
		data.RunDate = result.RunDate.Format("2006-01-02")
		data.CompletedAt = result.CompletedAt.Format(time.RFC3339)
		data.Evaluated = result.Evaluated
		for _, p := range result.Picks {
			data.Picks = append(data.Picks, indexPick{
				Fixture:        p.HomeTeam + " v " + p.AwayTeam,
				League:         p.League,
				Kickoff:        p.KickoffTime.Format("15:04 Mon 02 Jan"),
				DrawOdds:       p.DrawOdds,
				ProbabilityPct: p.Probability * 100,
				ExpectedValue:  p.ExpectedValue,
				StakePct:       p.KellyStake * 100,
				Outcome:        string(p.Outcome),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("Failed to render dashboard")
	}
}
