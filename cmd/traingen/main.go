// traingen produces synthetic training datasets for the pricing model.
//
// Usage:
//   traingen generate --count 10000 --seed 42 --output data --format both
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/pricing"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "traingen",
		Usage: "generate synthetic feature/label datasets for the pricing model",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a dataset and write it to disk",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Value:   10000,
						Usage:   "number of samples to generate",
						EnvVars: []string{"TRAINGEN_COUNT"},
					},
					&cli.Int64Flag{
						Name:    "seed",
						Value:   time.Now().UnixNano(),
						Usage:   "random seed (defaults to the current time)",
						EnvVars: []string{"TRAINGEN_SEED"},
					},
					&cli.StringFlag{
						Name:    "output",
						Value:   "data",
						Usage:   "output directory",
						EnvVars: []string{"TRAINGEN_OUTPUT"},
					},
					&cli.StringFlag{
						Name:    "format",
						Value:   "both",
						Usage:   "output format: json, csv or both",
						EnvVars: []string{"TRAINGEN_FORMAT"},
					},
				},
				Action: generate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	format := c.String("format")
	switch format {
	case "json", "csv", "both":
	default:
		return fmt.Errorf("unknown format %q, want json, csv or both", format)
	}

	outDir := c.String("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := pricing.NewGenerator(config.DefaultPricingConfig(), c.Int64("seed"), logger.New())
	samples := gen.Generate(count)

	if format == "json" || format == "both" {
		if err := writeFile(filepath.Join(outDir, "training_data.json"), samples, pricing.WriteJSON); err != nil {
			return err
		}
	}
	if format == "csv" || format == "both" {
		if err := writeFile(filepath.Join(outDir, "training_data.csv"), samples, pricing.WriteCSV); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d samples to %s\n", count, outDir)
	return nil
}

func writeFile(path string, samples []pricing.TrainingSample, write func(w io.Writer, s []pricing.TrainingSample) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f, samples); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
