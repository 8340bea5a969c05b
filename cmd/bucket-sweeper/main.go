package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Lllllllleong/documentsummaryflow/internal/config"
	"github.com/Lllllllleong/documentsummaryflow/internal/pipeline"
)

// bucket-sweeper starts summary jobs for PDFs already sitting in the input
// bucket, e.g. objects uploaded while the trigger function was down. Job
// claiming dedupes against jobs the trigger already handled.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "bucket-sweeper",
		Usage: "start summary jobs for unprocessed PDFs in the input bucket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "only sweep objects under this prefix",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 4,
				Usage: "maximum jobs in flight",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list matching objects without starting jobs",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			runtime, err := pipeline.NewRuntime(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			lister := pipeline.NewGCSObjectLister(runtime.Storage.Bucket(cfg.InputBucket))
			sweeper := pipeline.NewSweeper(lister, runtime.Orchestrator, logger)
			started, err := sweeper.Sweep(c.Context, c.String("prefix"), c.Int("concurrency"), c.Bool("dry-run"))
			if err != nil {
				return err
			}
			logger.Info().Int("jobs", started).Msg("Sweep complete.")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("bucket-sweeper failed")
	}
}
