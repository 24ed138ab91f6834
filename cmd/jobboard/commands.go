package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kingrea/jobboard/internal/catalog"
	"github.com/kingrea/jobboard/internal/config"
	"github.com/kingrea/jobboard/internal/tui"
)

// runOptions are the flags shared by every command.
type runOptions struct {
	dir             string
	catalog         string
	logLevel        string
	simulateFailure bool
}

func (o *runOptions) workDir() (string, error) {
	if o.dir != "" {
		return o.dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// configure applies flag overrides on top of the config file.
func (o *runOptions) configure(cfg *config.Config) error {
	if o.catalog != "" {
		cfg.SetCatalogPath(o.catalog)
	}
	if o.logLevel != "" {
		return cfg.SetLogLevel(o.logLevel)
	}
	return nil
}

func rootCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:          "jobboard",
		Short:        "Browse job listings and apply from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Directory holding .jobboard/. Defaults to the current directory.")
	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "Catalog YAML to browse instead of the bundled listings")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Journal level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.simulateFailure, "simulate-failure", false, "Make every application submission fail")
	cmd.AddCommand(jobsCmd(opts))
	return cmd
}

func runBoard(opts *runOptions) error {
	dir, err := opts.workDir()
	if err != nil {
		return err
	}
	if err := config.InitDataDir(dir); err != nil {
		return fmt.Errorf("initializing .jobboard directory: %w", err)
	}
	appOpts := []tui.AppOption{tui.WithConfigure(opts.configure)}
	if opts.simulateFailure {
		appOpts = append(appOpts, tui.WithSimulatedFailure())
	}
	app, err := tui.NewApp(dir, appOpts...)
	if err != nil {
		return err
	}
	defer app.Close()

	// tea.WithAltScreen uses the alternate screen buffer, like vim does.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

type jobsQuery struct {
	filters catalog.Filters
	sort    string
}

func jobsCmd(opts *runOptions) *cobra.Command {
	q := &jobsQuery{}
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Print listings matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.workDir()
			if err != nil {
				return err
			}
			cfg, err := config.New(dir)
			if err != nil {
				return err
			}
			if err := opts.configure(cfg); err != nil {
				return err
			}
			c, err := catalog.Load(cfg.CatalogPath())
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), c, *q, time.Now())
		},
	}
	cmd.Flags().StringVarP(&q.filters.Keywords, "keywords", "k", "", "Match title, company or tags")
	cmd.Flags().StringVarP(&q.filters.Location, "location", "l", "", "Match location")
	cmd.Flags().StringVar(&q.filters.Category, "category", "", "Only this category, e.g. Engineering")
	cmd.Flags().StringVar(&q.filters.JobType, "type", "", "Only this job type, e.g. full-time")
	cmd.Flags().StringVar(&q.filters.ExperienceLevel, "experience", "", "Only this experience level, e.g. senior")
	cmd.Flags().StringVar(&q.filters.DatePosted, "posted", "", "Posted within: today, week, month or anytime")
	cmd.Flags().StringVar(&q.filters.SalaryRange, "salary", "", "Salary band, e.g. 100k-150k or 150k+")
	cmd.Flags().StringVar(&q.sort, "sort", string(catalog.SortRelevance), "Order: relevance, newest, salary-desc, salary-asc or company")
	return cmd
}

func printJobs(out io.Writer, c *catalog.Catalog, q jobsQuery, now time.Time) error {
	order := catalog.SortOrder(q.sort)
	if _, ok := catalog.FindOption(append(catalog.SortOptions(), catalog.HomeSortOptions()...), q.sort); !ok {
		return fmt.Errorf("unknown sort order %q", q.sort)
	}
	jobs := catalog.Sort(catalog.Apply(c.All(), q.filters, now), order, q.filters.Keywords)

	w := tabwriter.NewWriter(out, 1, 1, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tSALARY\tPOSTED")
	for _, job := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Title, job.Company.Name, job.Location, job.SalaryOrUndisclosed(),
			humanize.RelTime(job.PostedAt, now, "ago", "from now"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d job(s) found\n", len(jobs))
	return err
}
