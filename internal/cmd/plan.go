package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/cobalt/internal/api"
	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/planner"
	"github.com/Iron-Ham/cobalt/internal/rating"
	"github.com/Iron-Ham/cobalt/internal/render"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compose plans for a mashup",
	Long: `Compose plans realizing the requested functionalities and tasks with
the widgets of the catalogue. Plans are printed best first, lowest rating
first.

Examples:
  cobalt plan -f urn:f:geocode
  cobalt plan -f urn:f:geocode -t urn:t:share --max-depth 3 --limit 5
  cobalt plan -f urn:f:geocode --json`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var (
	planFlags   problemFlags
	planLimit   int
	planJSON    bool
	planTimeout int
)

func init() {
	rootCmd.AddCommand(planCmd)
	planFlags.register(planCmd)
	planCmd.Flags().IntVarP(&planLimit, "limit", "n", 0, "maximum number of plans (default planner.limit, 0 = all)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print plans as JSON")
	planCmd.Flags().IntVar(&planTimeout, "timeout", 0, "abort planning after this many seconds (0 = no timeout)")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if planTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(planTimeout)*time.Second)
		defer cancel()
	}

	c, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	problem, err := planFlags.problem(cfg)
	if err != nil {
		return err
	}
	strategy, err := planFlags.compositionStrategy(cfg)
	if err != nil {
		return err
	}

	limit := cfg.Planner.Limit
	if planLimit > 0 {
		limit = planLimit
	}
	repo, err := catalog.NewCache(c, cfg.Server.CacheSize)
	if err != nil {
		return err
	}
	ratings := collect.NewRating(rating.NewTraversingRater(rating.DefaultStrategy(repo)))
	var collector collect.Collector = ratings
	if limit > 0 {
		collector = collect.NewLimit(ratings, limit)
	}

	job, err := planner.NewJob(planner.JobConfig{
		Repository: repo,
		Problem:    problem,
		Strategy:   strategy,
		Collector:  collector,
	}, planner.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := job.Run(ctx)
	if err != nil {
		return err
	}

	plans := ratings.Plans()
	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	if planJSON {
		return printPlansJSON(cmd, job.ID(), plans)
	}

	out := cmd.OutOrStdout()
	width := render.TerminalWidth()
	for i, rp := range plans {
		_, _ = fmt.Fprintln(out, render.Plan(i, rp, width))
	}
	_, _ = fmt.Fprintf(out, "%d plan(s) for %s, searched to depth %d\n", len(plans), planFlags.goal(), res.Depth)
	if res.Err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "search ended early: %v\n", res.Err)
	}
	return nil
}

func printPlansJSON(cmd *cobra.Command, id string, plans []collect.RatedPlan) error {
	resp := api.PlanResponse{ID: id, Plans: make([]api.PlanJSON, 0, len(plans))}
	for _, rp := range plans {
		resp.Plans = append(resp.Plans, api.EncodeRatedPlan(rp))
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
