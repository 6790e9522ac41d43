package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/rating"
	"github.com/Iron-Ham/cobalt/internal/render"
	"github.com/Iron-Ham/cobalt/internal/tui/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through plans interactively",
	Long: `Page through the plans of a mashup one at a time, shallowest first.
The planning graph only grows as far as you page.

Keys: n next plan, p previous plan, arrows scroll, q quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

var browseFlags problemFlags

func init() {
	rootCmd.AddCommand(browseCmd)
	browseFlags.register(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if !render.IsTerminal(os.Stdout) {
		return fmt.Errorf("browse needs a terminal; use 'cobalt plan' instead")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	c, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	problem, err := browseFlags.problem(cfg)
	if err != nil {
		return err
	}
	strategy, err := browseFlags.compositionStrategy(cfg)
	if err != nil {
		return err
	}
	repo, err := catalog.NewCache(c, cfg.Server.CacheSize)
	if err != nil {
		return err
	}
	p, err := strategy.NewPlanner(repo)
	if err != nil {
		return err
	}
	cursor, err := p.NewCursor(problem)
	if err != nil {
		return err
	}

	logger.Info("browsing plans", "goal", browseFlags.goal(), "strategy", strategy.Precursors.String())
	rater := rating.NewTraversingRater(rating.DefaultStrategy(repo))
	final, err := browse.Run(ctx, browse.NewModel(ctx, cursor, rater, "Plans for "+browseFlags.goal()))
	if err != nil {
		return err
	}
	if final.Err() != nil {
		return final.Err()
	}
	depth := 0
	for _, rp := range final.Plans() {
		depth = max(depth, rp.Plan.Graph().Depth())
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Viewed %d plan(s) up to depth %d\n", len(final.Plans()), depth)
	return nil
}
