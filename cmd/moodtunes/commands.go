package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justestif/moodtunes/internal/analysis"
	"github.com/justestif/moodtunes/internal/history"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
	"github.com/justestif/moodtunes/internal/web"
)

const timeFormat = "2006-01-02 15:04"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "moodtunes",
		Short:         "Log the songs you play in each mood and get recommendations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/moodtunes/config.toml, then ./config.toml)")

	root.AddCommand(
		newServeCmd(opts),
		newMoodsCmd(),
		newRecommendCmd(opts),
		newLogCmd(opts),
		newHistoryCmd(opts),
		newNoteCmd(opts),
		newFavoriteCmd(opts),
		newDeleteCmd(opts),
		newAnalyzeCmd(opts),
		newErasCmd(opts),
	)
	return root
}

// withApp runs fn with a bootstrapped app. CLI commands log to stderr so
// their output stays clean.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	a, err := newApp(cmd.Context(), opts.configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := a.catalog(ctx)
			if err != nil {
				return err
			}
			if a.cfg.Catalog.WarmOnStart {
				go cat.Warm(ctx)
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			art := a.artwork()
			defer art.Close()

			server, err := web.NewServer(web.ServerConfig{
				Addr:    addr,
				Store:   a.store,
				Catalog: cat,
				Artwork: art,
				Eras:    a.eras(),
				Metrics: a.metrics,
				Logger:  a.logger.Named("web"),
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newMoodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the mood vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range mood.All() {
				fmt.Fprintf(out, "%-14s genre %-10s deezer chart %d\n", m.Label(), m.Category.Genre, m.Category.DeezerGenreID)
			}
			return nil
		},
	}
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <mood>",
		Short: "Recommend tracks for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				cat, err := a.catalog(cmd.Context())
				if err != nil {
					return err
				}

				label := mood.Canonical(args[0])
				tracks, err := cat.Fetch(cmd.Context(), label)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintf(out, "No tracks found for %s\n", label)
					return nil
				}
				fmt.Fprintf(out, "%s picks from %s:\n", label, cat.Provider())
				for i, t := range tracks {
					fmt.Fprintf(out, "%2d. %s by %s\n", i+1, t.Title, t.Artist)
				}
				return nil
			})
		},
	}
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	var draft moodlog.Draft

	cmd := &cobra.Command{
		Use:   "log <mood>",
		Short: "Log a song for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Mood = args[0]
			return withApp(cmd, opts, func(a *app) error {
				entry, err := a.store.Append(cmd.Context(), draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged #%d: %s by %s (%s)\n", entry.ID, entry.SongTitle, entry.Artist, entry.Mood)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.SongTitle, "title", "", "song title")
	f.StringVar(&draft.Artist, "artist", "", "artist name")
	f.StringVar(&draft.AlbumCoverURL, "cover", "", "album cover URL")
	f.StringVar(&draft.Note, "note", "", "note")
	f.BoolVar(&draft.IsFavorite, "favorite", false, "mark as favorite")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("artist")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var search, sort, moodFilter string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := history.ParseSortMode(sort)
			if err != nil {
				return err
			}
			p := history.Params{Search: search, Sort: mode, Mood: moodFilter}

			return withApp(cmd, opts, func(a *app) error {
				snap, err := a.store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				printHistory(cmd.OutOrStdout(), history.Query(snap.Entries, p), p)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&search, "search", "q", "", "search title, artist and note")
	f.StringVar(&sort, "sort", "newest", "newest, oldest, mood or favorites")
	f.StringVar(&moodFilter, "mood", "", "only this mood (with --sort mood)")
	return cmd
}

func printHistory(out io.Writer, entries []moodlog.Entry, p history.Params) {
	fmt.Fprintln(out, history.DisplayLabel(p))
	if len(entries) == 0 {
		fmt.Fprintln(out, history.EmptyMessage(p))
		return
	}
	for _, e := range entries {
		star := " "
		if e.IsFavorite {
			star = "★"
		}
		fmt.Fprintf(out, "%s #%-4d %s  %-10s %s by %s\n",
			star, e.ID, e.Time().Local().Format(timeFormat), e.Mood, e.SongTitle, e.Artist)
		if e.Note != "" {
			fmt.Fprintf(out, "        %s\n", e.Note)
		}
	}
}

func parseIDArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newNoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Set the note on a logged song",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			note := strings.Join(args[1:], " ")

			return withApp(cmd, opts, func(a *app) error {
				entry, err := a.store.SetNote(cmd.Context(), id, note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated note on #%d\n", entry.ID)
				return nil
			})
		},
	}
}

func newFavoriteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle favorite on a logged song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, opts, func(a *app) error {
				entry, err := a.store.ToggleFavorite(cmd.Context(), id)
				if err != nil {
					return err
				}
				state := "removed from"
				if entry.IsFavorite {
					state = "added to"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s favorites\n", entry.ID, state)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a logged song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, opts, func(a *app) error {
				if err := a.store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id)
				return nil
			})
		},
	}
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze mood patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				snap, err := a.store.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), analysis.FormatReport(analysis.Analyze(snap.Entries)))
				return nil
			})
		},
	}
}

func newErasCmd(opts *rootOptions) *cobra.Command {
	var clusters, minSize int

	cmd := &cobra.Command{
		Use:   "eras",
		Short: "Group the history into mood eras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				svc := a.eras()
				cfg := svc.Config()
				if clusters > 0 {
					cfg.NumClusters = clusters
				}
				if minSize > 0 {
					cfg.MinClusterSize = minSize
				}

				result, err := svc.DetectWith(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), result.Summary())
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&clusters, "clusters", 0, "number of clusters (default from config)")
	cmd.Flags().IntVar(&minSize, "min-size", 0, "minimum logs per era (default from config)")
	return cmd
}
