package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thalesfsp/pushindexer/internal/app"
	"github.com/thalesfsp/pushindexer/internal/config"
	"github.com/thalesfsp/pushindexer/internal/shared"
)

var (
	// Version is injected at build time.
	Version = "dev"
)

func main() {
	if err := Execute(Version, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing.
func Execute(version string, args []string, stdin io.Reader, stdout io.Writer) error {
	rootCmd := &cobra.Command{
		Use:           shared.Name,
		Short:         "Index source-control push events into Elasticsearch",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd.Flags())
		},
	}

	registerFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "lambda",
			Short: "Run as the event-bus function handler",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runLambda(cmd.Flags())
			},
		},
		serveCommand(),
		shipCommand(stdin, stdout),
	)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)

	return rootCmd.Execute()
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String("es-host", "", "Elasticsearch URL (env ES_HOST)")
	flags.String("es-username", "", "Elasticsearch username (env ES_USERNAME)")
	flags.String("es-password", "", "Elasticsearch password (env ES_PASSWORD)")
	flags.String("index", "", "Target index")
	flags.Bool("strict-bulk", false, "Fail the shipment when the engine rejects documents")
	flags.Bool("skip-ping", false, "Skip the reachability check")
	flags.String("refresh", "", "Bulk refresh policy: false, true or wait_for")
	flags.String("log-level", "", "Log level: trace, debug, info, warn or error")
	flags.String("log-format", "", "Log format: json or console")
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive push webhooks over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, logger, err := setup(cmd.Flags())
			if err != nil {
				return err
			}

			h, err := app.Build(settings, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := app.NewServer(settings.Listen, app.NewRouter(h, logger))

			return app.Serve(ctx, srv, logger)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (env PUSHINDEXER_LISTEN)")

	return cmd
}

func shipCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Ship a single event envelope read from a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, logger, err := setup(cmd.Flags())
			if err != nil {
				return err
			}

			h, err := app.Build(settings, logger)
			if err != nil {
				return err
			}

			payload, err := readPayload(file, stdin)
			if err != nil {
				return err
			}

			outcome, err := h.Handle(cmd.Context(), payload)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(stdout, outcome)

			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Envelope file, - for stdin")

	return cmd
}

func runLambda(flags *pflag.FlagSet) error {
	settings, logger, err := setup(flags)
	if err != nil {
		return err
	}

	h, err := app.Build(settings, logger)
	if err != nil {
		return err
	}

	lambda.Start(h.Handle)

	return nil
}

func setup(flags *pflag.FlagSet) (*config.Settings, zerolog.Logger, error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger := config.NewLogger(settings.Log, os.Stderr)

	config.Log(logger, settings)

	return settings, logger, nil
}

func readPayload(file string, stdin io.Reader) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(file)
}

