package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hackfind/internal/bookmarks"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
	"github.com/pfrederiksen/hackfind/internal/tui"
)

var (
	flagStatus     string
	flagSort       string
	flagSearch     string
	flagScope      string
	flagLocation   string
	flagSources    []string
	flagPages      int
	flagFormat     string
	flagBookmarked bool
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hackathons matching the given filters",
		Long: `Fetch every hackathon listing, apply the filters and print the first
page(s) of the result. Use --source all to ignore the preferred sources.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringVar(&flagStatus, "status", "all", "Status filter: all, upcoming, live, online, in-person")
	cmd.Flags().StringVar(&flagSort, "sort", "relevance", "Sort order: relevance, prize, deadline, participants, latest, title")
	cmd.Flags().StringVar(&flagSearch, "search", "", "Free-text search")
	cmd.Flags().StringVar(&flagScope, "scope", "standard", "Search scope: standard or broad")
	cmd.Flags().StringVar(&flagLocation, "location", "", "Location substring filter")
	cmd.Flags().StringSliceVar(&flagSources, "source", nil, "Only show these sources (repeatable, 'all' for every source)")
	cmd.Flags().IntVar(&flagPages, "pages", 1, "Number of pages to show (0 = all)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagBookmarked, "bookmarked", false, "Only show bookmarked hackathons")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	status, err := filter.ParseStatus(flagStatus)
	if err != nil {
		return err
	}
	order, err := filter.ParseSort(flagSort)
	if err != nil {
		return err
	}
	scope, err := filter.ParseScope(flagScope)
	if err != nil {
		return err
	}
	if flagPages < 0 {
		return fmt.Errorf("--pages cannot be negative")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openBookmarks()
	if err != nil {
		return err
	}
	e := a.newEngine(store)

	records, sources, err := a.fetch(cmd.Context())
	if err != nil {
		e.Fail(err)
		return fmt.Errorf("fetching hackathons: %w", err)
	}
	e.Load(records, sources)

	if cmd.Flags().Changed("source") {
		if len(flagSources) == 1 && strings.EqualFold(flagSources[0], "all") {
			e.SetSources(nil)
		} else {
			e.SetSources(flagSources)
		}
	}
	e.SetStatus(status)
	e.SetSort(order)
	e.SetScope(scope)
	e.SetSearch(flagSearch)
	state := e.SetLocation(flagLocation)

	var shown []*hackathon.Record
	summary := ""
	if flagBookmarked {
		shown = e.Bookmarked()
		summary = fmt.Sprintf("%d bookmarked of %d matching hackathons", len(shown), len(state.Ordered))
	} else {
		for page := 1; (flagPages == 0 || page < flagPages) && state.HasMore(); page++ {
			state = e.LoadMore()
		}
		shown = state.Visible()
		summary = state.Summary()
	}

	result := &ListResult{
		FetchedAt:  state.Now.UTC(),
		Filters:    state.Criteria.String(),
		Summary:    summary,
		Total:      len(state.Records),
		Matching:   len(state.Ordered),
		Count:      len(shown),
		Hackathons: make([]Listing, len(shown)),
	}
	for i, r := range shown {
		result.Hackathons[i] = newListing(r, state.Now, state.IsBookmarked(r.ID))
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse hackathons interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the browser; logs go to a file instead.
	logFile, err := openLogFile(a.cfg.DataDir)
	if err != nil {
		return err
	}
	defer logFile.Close() // nolint:errcheck
	logger.SetDefault(logger.New(a.cfg.Level(), logFile))

	store, err := a.openBookmarks()
	if err != nil {
		return err
	}

	model := tui.New(a.newEngine(store), a.fetch)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func openLogFile(dataDir string) (*os.File, error) {
	dir, err := bookmarks.ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "hackfind.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the platforms hackathons are collected from",
		Args:  cobra.NoArgs,
		RunE:  runSources,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runSources(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	sources, err := a.client.FetchSources(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching sources: %w", err)
	}
	return writeSources(cmd.OutOrStdout(), sources, format)
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <query...>",
		Short: "Find hackathons with a natural-language AI search",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	start := time.Now()
	results, err := a.client.AISearch(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}
	logger.Debug("AI search finished", logger.Fields{
		"query":    query,
		"results":  len(results),
		"duration": time.Since(start).String(),
	})

	return writeSearchResults(cmd.OutOrStdout(), query, results, format)
}
