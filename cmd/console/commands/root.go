package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/config"
	"github.com/worklens/console-go/internal/pkg/logging"
	"github.com/worklens/console-go/internal/repository/statefile"
	directoryService "github.com/worklens/console-go/internal/service/directory"
	historyService "github.com/worklens/console-go/internal/service/history"
	ingestService "github.com/worklens/console-go/internal/service/ingest"
	orgService "github.com/worklens/console-go/internal/service/org"
	resolverService "github.com/worklens/console-go/internal/service/resolver"
	signupService "github.com/worklens/console-go/internal/service/signup"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.Config

	store     *statefile.Store
	client    *api.Client
	notify    consoleNotifier
	resolver  *resolverService.Service
	history   *historyService.Service
	ingester  *ingestService.Service
	signup    *signupService.Service
	directory *directoryService.Service
	org       *orgService.Service
)

var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "Worklens is a workforce analytics admin console",
	Long: `A terminal console for the Worklens workforce analytics platform:
sign in, upload workforce spreadsheets, review the aggregated analysis
and manage saved snapshot history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logging.Init(cfg.App.LogLevel, verbose, cfg.App.LogsFolder)

		store, err = statefile.New(cfg.State.File)
		if err != nil {
			return err
		}

		client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, store)
		resolver = resolverService.NewService(client, store, notify)
		history = historyService.NewService(client, store, notify)
		ingester = ingestService.NewService(client, history, notify)
		signup = signupService.NewService(client, notify)
		directory = directoryService.NewService(client, notify)
		org = orgService.NewService(client, store, notify)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("api", cfg.API.BaseURL).
			Msg("Worklens console starting")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
