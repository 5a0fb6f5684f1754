package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"DomainWatch/cfclient"
	"DomainWatch/config"
	"DomainWatch/domain"
	"DomainWatch/internal/app"
	"DomainWatch/internal/metrics"
	"DomainWatch/notify"
	"DomainWatch/registrarclient"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	cfgFile string
	dryRun  bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:           "domainwatch",
	Short:         "Check domain registration expiry and send alerts",
	Long:          "Runs one expiry check over every configured domain and sends a single batched alert to the configured channels.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml, optional)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the alert message instead of sending it")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "human readable debug logging")
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registrars := registrarclient.NewManager(registrarclient.NewClient(cfg.Lookup.QueryTimeout), cfg.Registrars)
	service := domain.NewService(cfg, cfclient.NewClient(), registrars, logger)

	lookup := &app.ExpiryLookup{
		Whois:        app.NewDefaultWhoisClient(cfg.Lookup.QueryTimeout),
		QueryTimeout: cfg.Lookup.QueryTimeout,
		Logger:       logger,
	}
	if len(cfg.Registrars) > 0 {
		lookup.Registrars = registrars
	}

	var limiter *rate.Limiter
	if cfg.Lookup.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Lookup.RateLimit), 1)
	}

	dispatcher, err := notify.FromConfig(cfg.Channels, logger)
	if err != nil {
		logger.Error("failed to set up notification channels", zap.Error(err))
		return err
	}

	rec := metrics.New()
	application := &app.App{
		Collector: service,
		Checker: &app.ExpiryCheckerService{
			Lookup:   lookup,
			Schedule: app.NewSchedule(cfg.Schedule),
			Limiter:  limiter,
			Metrics:  rec,
			Logger:   logger,
		},
		Notifier: &app.NotifierService{
			Dispatcher: dispatcher,
			Policy:     cfg.FailurePolicy,
			DryRun:     dryRun,
			Out:        cmd.OutOrStdout(),
			Metrics:    rec,
			Logger:     logger,
		},
		Metrics: rec,
		PushURL: cfg.Metrics.PushgatewayURL,
		PushJob: cfg.Metrics.Job,
		Logger:  logger,
	}

	if _, err := application.Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
