package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/cobalt/internal/api"
	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/config"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/logging"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/notify"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning API",
	Long: `Serve the planning HTTP API:

  POST /v1/plans         plan a mashup, plans best first
  GET  /v1/plans/stream  websocket streaming plans as they are found
  GET  /v1/widgets       the widgets of the active catalogue
  GET  /healthz          liveness

A file catalogue is reloaded when it changes (catalog.watch). With
notify.enabled every finished job is summarized to the MQTT broker.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	strategy, err := compositionStrategy(cfg)
	if err != nil {
		return err
	}

	bus := event.NewBus(event.WithLogger(logger))
	repo := catalog.NewReloadable(c)

	if cfg.Store.Driver == "" && cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
			Path:   cfg.Catalog.Path,
			Target: repo,
			Wrap: func(c *catalog.Catalog) (model.Repository, error) {
				return filterCatalog(c, cfg)
			},
			Bus:      bus,
			Logger:   logger,
			Debounce: cfg.Catalog.Debounce(),
		})
		if err != nil {
			return err
		}
		watcher.Start()
		defer watcher.Stop()
	}

	if cfg.Notify.Enabled {
		client, err := connectNotifier(cfg, bus, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()
	}

	server, err := api.NewServer(api.Config{
		Repository:   repo,
		Strategy:     strategy,
		CacheSize:    cfg.Server.CacheSize,
		JobTimeout:   cfg.Server.JobTimeout(),
		DefaultLimit: cfg.Planner.Limit,
		Bus:          bus,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %d widgets on %s\n", len(c.Widgets()), cfg.Server.Addr)
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}

// connectNotifier connects to the broker and publishes job summaries from
// bus until the returned client disconnects.
func connectNotifier(cfg *config.Config, bus *event.Bus, logger *logging.Logger) (*notify.Client, error) {
	client := notify.NewClient(notify.ClientConfig{
		BrokerURL: cfg.Notify.BrokerURL,
		ClientID:  cfg.Notify.ClientID,
		Username:  cfg.Notify.Username,
		Password:  cfg.Notify.Password,
		QoS:       byte(cfg.Notify.QoS),
	})
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Notify.BrokerURL, err)
	}
	notify.NewNotifier(client, cfg.Notify.Topic, logger).Attach(bus)
	return client, nil
}
