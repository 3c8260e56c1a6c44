package commands

import (
	"context"
	"encoding/json"
	"os"

	"scobro-sync/internal/clarizen"
	"scobro-sync/internal/resourcing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var pullUser string

// pullCmd runs one reconciliation pass and prints the result as JSON, for
// scripting and for checking tenant credentials without the UI.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Run one resourcing reconciliation pass and print JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sess, err := ppmClient.Authenticate(ctx)
		if err != nil {
			return err
		}
		identity, err := clarizen.ResolveIdentity(ctx, ppmClient, sess, pullUser)
		if err != nil {
			return err
		}
		log.Info().Str("identity", identity.Name).Msg("Identity resolved")

		reconciler := resourcing.NewReconciler(ppmClient, collector)
		records, summary := reconciler.Reconcile(ctx, sess, identity)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Records []resourcing.Record    `json:"records"`
			Summary resourcing.PassSummary `json:"summary"`
		}{records, summary})
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullUser, "user", "", "explicit identity to filter by (skips profile resolution)")
	rootCmd.AddCommand(pullCmd)
}
