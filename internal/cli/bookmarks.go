package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hackfind/internal/bookmarks"
	"github.com/pfrederiksen/hackfind/internal/calendar"
	"github.com/pfrederiksen/hackfind/internal/config"
	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

var flagOut string

func newBookmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <id>",
		Short: "Toggle the bookmark on a hackathon",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookmark,
	}
}

func runBookmark(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openBookmarks()
	if err != nil {
		return err
	}

	id := hackathon.ID(args[0])
	on, err := store.Toggle(id)
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}

	if on {
		fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s (%d bookmarks)\n", id, store.Len())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark %s (%d bookmarks)\n", id, store.Len())
	}
	return nil
}

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked hackathons",
		Args:  cobra.NoArgs,
		RunE:  runBookmarks,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.openBookmarks()
	if err != nil {
		return err
	}

	result := &ListResult{FetchedAt: time.Now().UTC(), Hackathons: []Listing{}}
	if store.Len() == 0 {
		result.Summary = "No bookmarks yet. Use 'hackfind bookmark <id>' to add one."
		return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
	}

	records, err := a.client.FetchAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching hackathons: %w", err)
	}

	// Bookmarks ignore the preferred sources; every listed record counts.
	now := time.Now()
	bookmarked := store.Filter(filter.Evaluate(records, filter.NewCriteria(), now))
	for _, r := range bookmarked {
		result.Hackathons = append(result.Hackathons, newListing(r, now, true))
	}

	result.Total = len(records)
	result.Matching = len(bookmarked)
	result.Count = len(bookmarked)
	result.Summary = fmt.Sprintf("%d bookmarked hackathons", len(bookmarked))
	if missing := store.Len() - len(bookmarked); missing > 0 {
		result.Summary += fmt.Sprintf(" (%d no longer listed)", missing)
	}

	return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
}

var flagICSBookmarked bool

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics [id]",
		Short: "Export a hackathon, or all bookmarks, as an iCalendar file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runICS,
	}
	cmd.Flags().StringVar(&flagOut, "out", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&flagICSBookmarked, "bookmarked", false, "Export every bookmarked hackathon")
	return cmd
}

func runICS(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == flagICSBookmarked {
		return fmt.Errorf("specify either a hackathon id or --bookmarked")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var ics string
	if flagICSBookmarked {
		ics, err = a.bookmarkedICS(cmd)
	} else {
		ics, err = a.singleICS(cmd, hackathon.ID(args[0]))
	}
	if err != nil {
		return err
	}

	if flagOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}
	if err := os.WriteFile(flagOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", flagOut)
	return nil
}

func (a *app) singleICS(cmd *cobra.Command, id hackathon.ID) (string, error) {
	r, err := a.findRecord(cmd.Context(), id)
	if err != nil {
		return "", err
	}
	if !calendar.HasDate(r) {
		return "", fmt.Errorf("hackathon %q has no start date or deadline", id)
	}
	return calendar.GenerateICS(r, time.Now()), nil
}

func (a *app) bookmarkedICS(cmd *cobra.Command) (string, error) {
	store, err := a.openBookmarks()
	if err != nil {
		return "", err
	}
	records, err := a.client.FetchAll(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("fetching hackathons: %w", err)
	}

	ics := calendar.GenerateBulkICS(store.Filter(records), "hackfind bookmarks", time.Now())
	if ics == "" {
		return "", fmt.Errorf("no bookmarked hackathon has a date")
	}
	return ics, nil
}

func newGistInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gist-init",
		Short: "Create a private GitHub Gist for syncing bookmarks",
		Long: `Create a private GitHub Gist seeded with the local bookmarks and print
its ID. Set ` + config.EnvGistID + ` to that ID to keep bookmarks in the Gist.
Requires ` + config.EnvToken + `.`,
		Args: cobra.NoArgs,
		RunE: runGistInit,
	}
}

func runGistInit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if a.cfg.Gist.Token == "" {
		return fmt.Errorf("%s is required to create a gist", config.EnvToken)
	}

	local, err := bookmarks.NewFileBackend(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing bookmarks: %w", err)
	}
	store, err := bookmarks.Open(local)
	if err != nil {
		return fmt.Errorf("loading bookmarks: %w", err)
	}
	data, err := json.Marshal(store.IDs())
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}

	id, err := bookmarks.CreateGist(a.cfg.Gist.APIURL, a.cfg.Gist.Token, "hackfind bookmarks", data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created gist %s with %d bookmarks\n", id, store.Len())
	fmt.Fprintf(out, "export %s=%s\n", config.EnvGistID, id)
	return nil
}
