package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/halo-ir/scout-cli/internal/model"
)

var batchFile string

// batchRunSpec names one discovery run inside a batch file.
type batchRunSpec struct {
	Name   string                `yaml:"name"`
	Config model.DiscoveryConfig `yaml:"config"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run several discovery configs from a YAML file",
	Long:  "Executes each run in the batch file with bounded concurrency. Runs are independent; each one profiles its leads sequentially.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		specs, err := readBatchFile(batchFile)
		if err != nil {
			return err
		}
		if len(specs) == 0 {
			return eris.New("batch file contains no runs")
		}

		pipeline, st, err := initPipeline(ctx, false)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentRuns)

		results := make([]*model.Stats, len(specs))
		for i, spec := range specs {
			g.Go(func() error {
				stats, err := drainRun(pipeline.Run(gctx, spec.Config))
				if err != nil {
					zap.L().Error("batch run failed", zap.String("run", spec.Name), zap.Error(err))
					return eris.Wrapf(err, "run %s", spec.Name)
				}
				results[i] = stats
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, spec := range specs {
			stats := results[i]
			if stats == nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d investors (%d new, %d already in pipeline, %d below threshold)\n",
				spec.Name, stats.Total, stats.Added, stats.Duplicates, stats.Skipped)
		}
		return nil
	},
}

func readBatchFile(path string) ([]batchRunSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read batch file")
	}
	var file struct {
		Runs []batchRunSpec `yaml:"runs"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, eris.Wrap(err, "parse batch file")
	}
	for i := range file.Runs {
		if file.Runs[i].Name == "" {
			file.Runs[i].Name = fmt.Sprintf("run-%d", i+1)
		}
	}
	return file.Runs, nil
}

// drainRun consumes a run's event stream without rendering, keeping
// only the terminal outcome.
func drainRun(events <-chan model.DiscoveryEvent) (*model.Stats, error) {
	var stats *model.Stats
	var runErr error
	for ev := range events {
		switch ev.Type {
		case model.EventComplete:
			stats = ev.Stats
		case model.EventError:
			runErr = eris.New(ev.Message)
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	return stats, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML batch file of discovery runs")
	batchCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(batchCmd)
}
