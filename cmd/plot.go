package cmd

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/goaclib/goac/telemetry"
)

// PlotCommand returns the command which plots the scalar series in a
// saved data file, one line per worker, grouped by tag prefix.
func PlotCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot recorded training data",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := telemetry.LoadData(saveFile)
			if len(data.Scalars) == 0 {
				return fmt.Errorf("plot: no scalar data in %v", saveFile)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("plot: could not create output "+
					"directory: %v", err)
			}

			for prefix, tags := range groupTags(data) {
				p := plot.New()
				p.Title.Text = prefix
				p.X.Label.Text = "Episode"
				p.Y.Label.Text = "Value"

				for i, tag := range tags {
					series := data.Scalars[tag]
					points := make(plotter.XYs, len(series))
					for j, pt := range series {
						points[j] = plotter.XY{
							X: float64(pt.Step),
							Y: pt.Value,
						}
					}
					line, err := plotter.NewLine(points)
					if err != nil {
						continue
					}
					line.Color = plotutil.Color(i)
					p.Add(line)
					p.Legend.Add(tag, line)
				}

				out := path.Join(outDir, sanitize(prefix)+".png")
				if err := p.Save(8*vg.Inch, 8*vg.Inch, out); err != nil {
					return fmt.Errorf("plot: could not save %v: %v", out, err)
				}
				fmt.Println("wrote", out)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&outDir, "out", "o", "plots",
		"Directory to write plots to")
	return cmd
}

// groupTags groups scalar tags by everything before their trailing
// per-worker index, so that all workers of one statistic share a plot.
func groupTags(data telemetry.Data) map[string][]string {
	groups := make(map[string][]string)
	for tag := range data.Scalars {
		prefix := tag
		if i := strings.LastIndex(tag, "_"); i >= 0 {
			prefix = tag[:i]
		}
		groups[prefix] = append(groups[prefix], tag)
	}
	for _, tags := range groups {
		sort.Strings(tags)
	}
	return groups
}

func sanitize(tag string) string {
	return strings.ReplaceAll(tag, "/", "_")
}
