package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halo-ir/scout-cli/internal/model"
)

var (
	promoteFrom  string
	promoteForce bool
)

// Promotion is the only write path into the investor table. Discovery
// itself never inserts; an operator reviews the results file first.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Insert discovered investors into the pipeline store",
	Long:  "Reads a results file written by `scout discover --json` and inserts each investor not already flagged as in the pipeline.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		investors, err := readInvestorJSON(promoteFrom)
		if err != nil {
			return err
		}
		if len(investors) == 0 {
			fmt.Fprintln(os.Stderr, "Nothing to promote.")
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		promoted, skipped := 0, 0
		for _, inv := range investors {
			if inv.AlreadyInPipeline && !promoteForce {
				skipped++
				continue
			}
			if err := st.AddInvestor(ctx, inv); err != nil {
				return eris.Wrapf(err, "promote %s", inv.Name)
			}
			promoted++
			zap.L().Info("promoted investor",
				zap.String("name", inv.Name),
				zap.String("firm", inv.Firm),
				zap.Int("fit_score", inv.FitScore),
			)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Promoted %d investors (%d already in pipeline)\n", promoted, skipped)
		return nil
	},
}

func readInvestorJSON(path string) ([]model.DiscoveredInvestor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read results file")
	}
	var investors []model.DiscoveredInvestor
	if err := json.Unmarshal(raw, &investors); err != nil {
		return nil, eris.Wrap(err, "parse results file")
	}
	return investors, nil
}

func init() {
	promoteCmd.Flags().StringVar(&promoteFrom, "from", "", "results JSON file from discover --json")
	promoteCmd.Flags().BoolVar(&promoteForce, "force", false, "insert investors flagged as already in the pipeline")
	promoteCmd.MarkFlagRequired("from") //nolint:errcheck
	rootCmd.AddCommand(promoteCmd)
}
