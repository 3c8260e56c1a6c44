package commands

import (
	"net/http"
	"path/filepath"

	"scobro-sync/internal/clarizen"
	"scobro-sync/internal/config"
	"scobro-sync/internal/debuglog"
	"scobro-sync/internal/httpapi"
	"scobro-sync/internal/jira"
	"scobro-sync/internal/logging"
	"scobro-sync/internal/metrics"
	"scobro-sync/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	collector *metrics.Collector
	ppmClient *clarizen.Client
)

var rootCmd = &cobra.Command{
	Use:   "scobro-sync",
	Short: "scobro-sync is the local sync service for the ScoBro logbook",
	Long: `A local companion service that stores logbook entries in SQLite and reconciles
resourcing data from a CZQL-based PPM tenant and an issue tracker into the
normalized record stream the logbook UI consumes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		logging.Init(verbose, cfg.DataPath)

		collector = metrics.NewCollector()
		trace := debuglog.New(filepath.Join(cfg.DataPath, "ppm-trace.log"), func(error) {
			collector.RecordTraceWriteFailure()
		})
		ppmClient = clarizen.NewClient(cfg.Clarizen, trace)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("scobro-sync starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open logbook database")
		}
		defer st.Close()

		var tracker *jira.Client
		if cfg.Jira.BaseURL != "" {
			tracker = jira.NewClient(cfg.Jira)
		}

		batch := clarizen.BatchOptions{BatchSize: cfg.BatchSize, QueryTextCap: cfg.QueryTextCap}
		server := httpapi.NewServer(st, ppmClient, tracker, batch, collector)

		log.Info().Str("addr", cfg.ListenAddr).Msg("Serving local logbook API")
		if err := http.ListenAndServe(cfg.ListenAddr, server.Router()); err != nil {
			log.Fatal().Err(err).Msg("HTTP server stopped")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
