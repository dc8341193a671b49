package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cine-lens/catalog"
	"cine-lens/logging"
	"cine-lens/notifier"
	"cine-lens/rating"
	"cine-lens/report"
	"cine-lens/scheduler"

	"github.com/spf13/cobra"
)

// filterFlags are the dashboard controls shared by dashboard and search.
type filterFlags struct {
	selector string
	from     int
	to       int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selector, "type", string(catalog.SelectAll), "content type: All, Movie or TV Show")
	cmd.Flags().IntVar(&f.from, "from", 0, fmt.Sprintf("first year added (default %d or the first observed year)", report.DefaultFromYear))
	cmd.Flags().IntVar(&f.to, "to", 0, "last year added (default the last observed year)")
}

// resolve starts from the default filter and applies the flags that were set.
func (f *filterFlags) resolve(cmd *cobra.Command, table *catalog.Table) (report.Filter, error) {
	sel, err := catalog.ParseSelector(f.selector)
	if err != nil {
		return report.Filter{}, err
	}

	filter := report.DefaultFilter(table)
	filter.Selector = sel
	if cmd.Flags().Changed("from") {
		filter.From = f.from
	}
	if cmd.Flags().Changed("to") {
		filter.To = f.to
	}
	return filter, nil
}

func newDashboardCommand(a *app) *cobra.Command {
	var (
		flags  filterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog metrics for a type and year range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadCatalog()
			if err != nil {
				return err
			}
			filter, err := flags.resolve(cmd, table)
			if err != nil {
				return err
			}

			d := report.Build(table, filter)
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), d)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.RenderText(d))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var (
		flags filterFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find titles in the filtered catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadCatalog()
			if err != nil {
				return err
			}
			filter, err := flags.resolve(cmd, table)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			filter = report.Resolve(table, filter)
			view := catalog.Filter(table.All(), filter.Selector, filter.From, filter.To)
			results := catalog.Search(view, query, limit)
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.RenderSearch(query, results))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", catalog.DefaultSearchLimit, "maximum results")
	return cmd
}

func newLookupCommand(a *app) *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "lookup <title>...",
		Short: "Fetch IMDb rating, votes and runtime for titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := rating.NewClient(rating.Config{
				BaseURL: a.cfg.Rating.BaseURL,
				APIKey:  a.cfg.Rating.APIKey,
				Timeout: a.cfg.Rating.Timeout,
			})

			var store rating.Store
			if !noStore {
				s, err := a.openStorage()
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			lookup := rating.NewCachedLookup(client, store)
			for _, title := range args {
				res := lookup.Lookup(title)
				if _, err := fmt.Fprint(cmd.OutOrStdout(), report.RenderRating(title, res)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip the SQLite rating cache")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Snapshot the catalog CSV into the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.fromDB = false
			table, err := a.loadCatalog()
			if err != nil {
				return err
			}

			s, err := a.openStorage()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ImportCatalog(table); err != nil {
				return err
			}

			stats, err := s.GetStats()
			if err != nil {
				return fmt.Errorf("failed to get database stats: %w", err)
			}
			logging.Info().
				Int("total", stats["total"]).
				Int("movies", stats["movies"]).
				Int("shows", stats["shows"]).
				Int("ratings", stats["ratings"]).
				Msg("Database statistics")
			return nil
		},
	}
}

func newServeCommand(a *app) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Mail the dashboard digest on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Email.Enabled() {
				return fmt.Errorf("email digest disabled: set EMAIL_SMTP_HOST and EMAIL_RECIPIENT")
			}

			table, err := a.loadCatalog()
			if err != nil {
				return err
			}

			mailer, err := notifier.NewDigestNotifier(a.cfg.Email)
			if err != nil {
				return fmt.Errorf("failed to create email notifier: %w", err)
			}

			sched := scheduler.NewScheduler()
			job := scheduler.NewDigestJob(table, mailer)
			if err := sched.AddJob(a.cfg.Schedule.Digest, job); err != nil {
				return fmt.Errorf("failed to schedule digest job: %w", err)
			}

			sched.Start()
			defer sched.Stop()
			logging.Info().Str("schedule", a.cfg.Schedule.Digest).Msg("Digest scheduled")

			if runNow {
				if err := sched.RunJobNow(job.Name()); err != nil {
					logging.Error().Err(err).Msg("Error running initial job")
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logging.Info().Msg("Application running. Press Ctrl+C to exit")
			<-ctx.Done()
			logging.Info().Msg("Shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "send one digest immediately at startup")
	return cmd
}
