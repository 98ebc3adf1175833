package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/herolab/roster/internal/httputil"
)

// RosterStats summarises the roster. Age percentiles are nil when no
// hero has a known age.
type RosterStats struct {
	HeroCount int      `json:"hero_count"`
	TeamCount int      `json:"team_count"`
	AgedCount int      `json:"aged_count"`
	AgeP50    *float64 `json:"age_p50"`
	AgeP85    *float64 `json:"age_p85"`
	AgeP98    *float64 `json:"age_p98"`
}

// handleStats reports roster counts and age percentiles.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	heroCount, err := s.db.CountHeroes()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to count heroes: %v", err))
		return
	}
	teamCount, err := s.db.CountTeams()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to count teams: %v", err))
		return
	}

	// HeroAges returns ascending order, as stat.Quantile requires.
	ages, err := s.db.HeroAges()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load hero ages: %v", err))
		return
	}

	stats := RosterStats{
		HeroCount: heroCount,
		TeamCount: teamCount,
		AgedCount: len(ages),
	}
	if len(ages) > 0 {
		p50 := stat.Quantile(0.50, stat.Empirical, ages, nil)
		p85 := stat.Quantile(0.85, stat.Empirical, ages, nil)
		p98 := stat.Quantile(0.98, stat.Empirical, ages, nil)
		stats.AgeP50 = &p50
		stats.AgeP85 = &p85
		stats.AgeP98 = &p98
	}

	httputil.WriteJSONOK(w, stats)
}

// handleTeamChart renders a bar chart (HTML) of hero counts per team
// using go-echarts. Debugging/reporting endpoint, no auth.
func (s *Server) handleTeamChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	counts, err := s.db.HeroCountsByTeam()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load hero counts: %v", err))
		return
	}

	names := make([]string, 0, len(counts))
	data := make([]opts.BarData, 0, len(counts))
	total := 0
	for _, c := range counts {
		name := c.TeamName
		if name == "" {
			name = "(unassigned)"
		}
		names = append(names, name)
		data = append(data, opts.BarData{Value: c.Count})
		total += c.Count
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Roster"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Heroes per team",
			Subtitle: fmt.Sprintf("%d heroes across %d buckets", total, len(counts)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).AddSeries("heroes", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
