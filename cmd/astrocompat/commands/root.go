package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"astrocompat/internal/components/chrono"
	"astrocompat/internal/components/telemetry"
	"astrocompat/internal/scrapers/cafeastrology"
	"astrocompat/internal/session"
	"astrocompat/lib/configutil"

	"github.com/spf13/cobra"
)

const configName = "astrocompat.json5"

var (
	configPath string
	verbose    bool
	dumpHttp   string
)

// env is populated before any subcommand runs.
var env struct {
	config    Config
	tel       telemetry.API
	telemetry telemetry.Telemetry
	output    telemetry.MessageOutput
}

var rootCmd = &cobra.Command{
	Use:           "astrocompat",
	Short:         "astrocompat computes natal charts, decans and synastry scores using cafeastrology.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := configutil.ReadWithDefaults(configPath, configName, DefaultConfig())
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		env.config = cfg
		env.tel = setupTelemetry(cmd.Context())

		if dumpHttp != "" {
			output, err := telemetry.NewFilesystemOutput(dumpHttp)
			if err != nil {
				return fmt.Errorf("create http dump directory: %w", err)
			}
			slog.Info("writing http dumps", "dir", output.Directory())
			env.output = output
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := env.telemetry.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a config file, "+configName+" is searched for upwards from the working directory by default.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	flags.StringVar(&dumpHttp, "dump-http", "", "Write every http request and response to a new directory under this one.")
}

// setupTelemetry uses an otel setup when a telemetry.json5 is found,
// otherwise reports only go to slog.
func setupTelemetry(ctx context.Context) telemetry.API {
	var tel telemetry.API = telemetry.SlogAPI{}

	t, err := telemetry.SetupFromEnv(ctx, "astrocompat")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("telemetry.json5 not found, otel is disabled")
		return tel
	}
	if err != nil {
		slog.Warn("failed to setup otel", "err", err)
		return tel
	}
	env.telemetry = t

	err = telemetry.InstrumentProcessStats(ctx, time.Second*30)
	if err != nil {
		slog.Warn("failed to instrument process stats", "err", err)
	}

	otelApi, err := telemetry.NewOtelAPI(tel)
	if err != nil {
		slog.Warn("failed to create otel reporter", "err", err)
		return tel
	}
	return otelApi
}

func newClient() (cafeastrology.Client, error) {
	opts := env.config.ClientOptions()
	opts.MessageOutput = env.output
	return cafeastrology.NewClient(opts, env.tel)
}

func newSession(opts session.Options) (*session.Session, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	clock, err := chrono.NewStandardImpl(env.config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	return session.New(client, clock, env.tel, opts), nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
