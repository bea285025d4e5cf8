package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hackfind/internal/api"
	"github.com/pfrederiksen/hackfind/internal/bookmarks"
	"github.com/pfrederiksen/hackfind/internal/config"
	"github.com/pfrederiksen/hackfind/internal/engine"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagAPIURL  string
	flagDataDir string
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hackfind",
		Short: "Browse hackathon listings from the terminal",
		Long: `A CLI tool to find hackathons across listing platforms.
Fetches every listing from the hackathon API, then filters, sorts and pages
through them locally. Bookmarks are kept in a local file or a GitHub Gist.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				writeMetrics(cmd.ErrOrStderr(), logger.MetricsSnapshot())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Hackathon API base URL (or env: "+config.EnvAPIURL+")")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for bookmarks (or env: "+config.EnvDataDir+")")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newListCmd(),
		newBrowseCmd(),
		newSourcesCmd(),
		newAskCmd(),
		newBookmarkCmd(),
		newBookmarksCmd(),
		newICSCmd(),
		newGistInitCmd(),
	)

	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// app holds what every command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	client *api.Client
}

// newApp loads the configuration, applies command-line flags on top of it
// and sets up logging on the command's stderr.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flag("api-url"); f != nil && f.Changed {
		cfg.APIURL = flagAPIURL
	}
	if f := cmd.Flag("data-dir"); f != nil && f.Changed {
		cfg.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.LogLevel = logger.LevelDebug.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.SetDefault(logger.New(cfg.Level(), cmd.ErrOrStderr()))
	logger.Debug("Configuration loaded", logger.Fields{
		"api_url":  cfg.APIURL,
		"data_dir": cfg.DataDir,
		"gist":     cfg.Gist.Enabled(),
	})

	return &app{
		cfg:    cfg,
		client: api.New(cfg.APIURL, cfg.ClientOptions()...),
	}, nil
}

// openBookmarks opens the Gist-backed store when a Gist is configured and
// the file-backed store otherwise.
func (a *app) openBookmarks() (*bookmarks.Store, error) {
	var backend bookmarks.Backend

	if a.cfg.Gist.Enabled() {
		gist, err := bookmarks.NewGistBackend(a.cfg.Gist.ID, a.cfg.Gist.Token)
		if err != nil {
			return nil, fmt.Errorf("initializing gist bookmarks: %w", err)
		}
		if a.cfg.Gist.APIURL != "" {
			gist = gist.WithAPIURL(a.cfg.Gist.APIURL)
		}
		backend = gist
	} else {
		file, err := bookmarks.NewFileBackend(a.cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing bookmarks: %w", err)
		}
		backend = file
	}

	store, err := bookmarks.Open(backend)
	if err != nil {
		return nil, fmt.Errorf("loading bookmarks: %w", err)
	}
	return store, nil
}

func (a *app) newEngine(store *bookmarks.Store) *engine.Engine {
	return engine.New(
		engine.WithBookmarks(store),
		engine.WithPageSize(a.cfg.PageSize),
		engine.WithThreshold(a.cfg.ScrollThreshold),
		engine.WithPreferredSources(a.cfg.Sources.Preferred),
	)
}

// fetch downloads every record and the source list. It is also the
// browser's Loader.
func (a *app) fetch(ctx context.Context) ([]*hackathon.Record, []string, error) {
	records, err := a.client.FetchAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return records, a.client.SourcesOrDerive(ctx, records), nil
}

// findRecord fetches every record and returns the one with id.
func (a *app) findRecord(ctx context.Context, id hackathon.ID) (*hackathon.Record, error) {
	records, err := a.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching hackathons: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("hackathon %q not found", id)
}
