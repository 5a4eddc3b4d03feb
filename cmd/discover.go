package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/halo-ir/scout-cli/internal/model"
	"github.com/halo-ir/scout-cli/internal/report"
)

var (
	discoverStrategies []string
	discoverKeywords   []string
	discoverGeography  string
	discoverStage      string
	discoverMinScore   int
	discoverMax        int
	discoverConfigFile string
	discoverXLSXPath   string
	discoverJSONPath   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one investor discovery pass",
	Long:  "Searches for investor leads with the configured strategies, profiles and scores each against the target raise, and prints the qualified set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runCfg, err := buildRunConfig()
		if err != nil {
			return err
		}

		pipeline, st, err := initPipeline(ctx, false)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		investors, err := renderRun(cmd.OutOrStdout(), pipeline.Run(ctx, runCfg))
		if err != nil {
			return err
		}

		if discoverXLSXPath != "" {
			if err := report.WriteXLSX(discoverXLSXPath, investors); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", discoverXLSXPath)
		}
		if discoverJSONPath != "" {
			if err := writeInvestorJSON(discoverJSONPath, investors); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", discoverJSONPath)
		}
		return nil
	},
}

// buildRunConfig layers the run config: app config defaults, then an
// optional YAML run file, then explicit flags.
func buildRunConfig() (model.DiscoveryConfig, error) {
	runCfg := cfg.Discovery

	if discoverConfigFile != "" {
		raw, err := os.ReadFile(discoverConfigFile)
		if err != nil {
			return runCfg, eris.Wrap(err, "read run config file")
		}
		if err := yaml.Unmarshal(raw, &runCfg); err != nil {
			return runCfg, eris.Wrap(err, "parse run config file")
		}
	}

	if len(discoverStrategies) > 0 {
		runCfg.Strategies = nil
		for _, s := range discoverStrategies {
			strat := model.Strategy(s)
			if !strat.Valid() {
				return runCfg, eris.Errorf("unknown strategy: %s", s)
			}
			runCfg.Strategies = append(runCfg.Strategies, strat)
		}
	}
	if len(runCfg.Strategies) == 0 {
		runCfg.Strategies = model.CanonicalStrategies
	}
	if len(discoverKeywords) > 0 {
		runCfg.FocusKeywords = discoverKeywords
	}
	if discoverGeography != "" {
		runCfg.GeographyFilter = discoverGeography
	}
	if discoverStage != "" {
		runCfg.StageFilter = discoverStage
	}
	if discoverMinScore >= 0 {
		runCfg.MinFitScore = discoverMinScore
	}
	if discoverMax > 0 {
		runCfg.MaxResults = discoverMax
	}
	return runCfg, nil
}

// renderRun consumes the event stream, narrating progress as it goes,
// and returns the final investor set from the enumeration.
func renderRun(w io.Writer, events <-chan model.DiscoveryEvent) ([]model.DiscoveredInvestor, error) {
	var investors []model.DiscoveredInvestor
	var runErr error

	for ev := range events {
		switch ev.Type {
		case model.EventStatus:
			if ev.Progress != nil {
				fmt.Fprintf(w, "  [%d/%d] %s\n", ev.Progress.Current, ev.Progress.Total, ev.Message)
			} else {
				fmt.Fprintf(w, "%s\n", ev.Message)
			}
		case model.EventInvestorSkipped:
			fmt.Fprintf(w, "  - %s\n", ev.Message)
		case model.EventInvestorProfiled:
			fmt.Fprintf(w, "  + %s\n", ev.Message)
		case model.EventInvestorFound:
			if ev.Data != nil {
				investors = append(investors, *ev.Data)
			}
		case model.EventComplete:
			fmt.Fprintf(w, "\n%s\n", ev.Message)
		case model.EventError:
			runErr = eris.New(ev.Message)
		}
	}

	if runErr != nil {
		return nil, runErr
	}
	if len(investors) > 0 {
		fmt.Fprintln(w)
		formatInvestorTable(w, investors)
	}
	return investors, nil
}

func formatInvestorTable(w io.Writer, investors []model.DiscoveredInvestor) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFIRM\tSCORE\tGEOGRAPHY\tSTATUS")
	for _, inv := range investors {
		status := "new"
		if inv.AlreadyInPipeline {
			status = "in pipeline"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", inv.Name, inv.Firm, inv.FitScore, inv.Geography, status)
	}
	tw.Flush()
}

func writeInvestorJSON(path string, investors []model.DiscoveredInvestor) error {
	raw, err := json.MarshalIndent(investors, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal investors")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrap(err, "write investors file")
	}
	return nil
}

func init() {
	discoverCmd.Flags().StringSliceVar(&discoverStrategies, "strategy", nil, "discovery strategies to run (thesis, portfolio, deals, geography, news)")
	discoverCmd.Flags().StringSliceVar(&discoverKeywords, "keyword", nil, "focus keywords for query generation")
	discoverCmd.Flags().StringVar(&discoverGeography, "geography", "", "geography filter")
	discoverCmd.Flags().StringVar(&discoverStage, "stage", "", "stage filter")
	discoverCmd.Flags().IntVar(&discoverMinScore, "min-score", -1, "minimum fit score to keep a lead (default from config)")
	discoverCmd.Flags().IntVar(&discoverMax, "max", 0, "max unique leads to profile (default from config)")
	discoverCmd.Flags().StringVar(&discoverConfigFile, "config-file", "", "YAML run config file")
	discoverCmd.Flags().StringVar(&discoverXLSXPath, "xlsx", "", "write results to an xlsx workbook")
	discoverCmd.Flags().StringVar(&discoverJSONPath, "json", "", "write results to a JSON file (promote input)")
	rootCmd.AddCommand(discoverCmd)
}
