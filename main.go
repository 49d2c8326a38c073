package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"sensoraudit/charts"
	"sensoraudit/common"
)

func main() {
	app := &cli.App{
		Name:  "sensoraudit",
		Usage: "compare before/after sensor captures from a production line retrofit",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "before", Usage: "sensor log captured before the change", Required: true},
			&cli.StringFlag{Name: "after", Usage: "sensor log captured after the change", Required: true},
			&cli.StringFlag{Name: "out", Value: "charts_out", Usage: "output directory for rendered charts"},
			&cli.StringFlag{Name: "metric", Usage: "run a single metric selected by title substring"},
			&cli.BoolFlag{Name: "no-charts", Usage: "print statistics tables only"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	beforePath := c.String("before")
	afterPath := c.String("after")
	outDir := c.String("out")
	renderCharts := !c.Bool("no-charts")

	configs := common.DefaultConfigs()
	if metric := c.String("metric"); metric != "" {
		configs = filterConfigs(configs, metric)
		if len(configs) == 0 {
			return fmt.Errorf("no metric matches '%s'", metric)
		}
	}

	if renderCharts {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create output dir '%s': %w", outDir, err)
		}
	}

	fmt.Printf("Before: %s\nAfter:  %s\n", beforePath, afterPath)

	// 按配置顺序串行执行，汇总表的行序要和配置一致
	style := charts.DefaultStyle()
	results := make([]*common.AnalysisResult, 0, len(configs))
	for i, cfg := range configs {
		fmt.Printf("\nAnalysis %d/%d: %s\n", i+1, len(configs), cfg.Title)

		res, err := common.RunAnalysis(beforePath, afterPath, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("before: %d points over %.1f min | after: %d points over %.1f min\n",
			res.Before.Len(), res.Before.MaxTime(), res.After.Len(), res.After.MaxTime())

		common.PrintComparison(os.Stdout, res)
		common.PrintCategories(os.Stdout, res)

		if renderCharts {
			base := filepath.Join(outDir, slug(cfg.Title))
			if err := charts.Comparative(res, style, base+"_comparative.png"); err != nil {
				return err
			}
			if err := charts.Dispersion(res, style, base+"_dispersion.png"); err != nil {
				return err
			}
			if err := charts.Categories(res, style, base+"_categories.png"); err != nil {
				return err
			}
		}
		results = append(results, res)
	}

	rows := common.BuildSummary(results)
	common.PrintSummary(os.Stdout, rows)
	if renderCharts && len(rows) > 1 {
		if err := charts.Summary(rows, style, filepath.Join(outDir, "summary.png")); err != nil {
			return err
		}
	}
	return nil
}

func filterConfigs(configs []common.AnalysisConfig, metric string) []common.AnalysisConfig {
	var kept []common.AnalysisConfig
	for _, cfg := range configs {
		if strings.Contains(strings.ToLower(cfg.Title), strings.ToLower(metric)) {
			kept = append(kept, cfg)
		}
	}
	return kept
}

// slug 把标题转成适合做文件名的形式
func slug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
