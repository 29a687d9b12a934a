// Package report renders a run summary as an HTML page of charts.
package report

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/qepting91/reddit-leanback/internal/playlist"
)

// Render writes the summary charts to w: videos per playlist, then
// additions per subreddit.
func Render(w io.Writer, s playlist.Summary) error {
	// 1. Playlist growth
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Playlist Growth", Subtitle: "run " + s.RunID}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	var names []string
	var existing, added []opts.BarData
	for _, p := range s.Playlists {
		names = append(names, p.Name)
		existing = append(existing, opts.BarData{Value: p.Existing})
		added = append(added, opts.BarData{Value: p.Added})
	}
	bar.SetXAxis(names).
		AddSeries("Existing", existing).
		AddSeries("Added", added)

	// 2. Source share
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Additions by Subreddit"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	subCounts := make(map[string]int)
	for _, a := range s.Added {
		subCounts[a.Subreddit]++
	}
	subs := make([]string, 0, len(subCounts))
	for k := range subCounts {
		subs = append(subs, k)
	}
	slices.Sort(subs)

	var pieItems []opts.PieData
	for _, k := range subs {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: subCounts[k]})
	}
	pie.AddSeries("Videos", pieItems)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render playlist chart: %w", err)
	}
	if err := pie.Render(w); err != nil {
		return fmt.Errorf("render subreddit chart: %w", err)
	}
	return nil
}

// WriteFile renders the summary into the HTML file at path.
func WriteFile(path string, s playlist.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Render(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
