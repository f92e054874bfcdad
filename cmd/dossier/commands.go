package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/dossier/internal/app"
	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/config"
	"github.com/five82/dossier/internal/favorites"
	"github.com/five82/dossier/internal/logtail"
)

var version = "0.1.0"

type rootFlags struct {
	configPath string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "dossier",
		Short: "Browse the Rick and Morty character catalog",
		Long: `dossier is a terminal browser for the Rick and Morty character catalog.

Run without arguments to start the TUI. The subcommands query the catalog
and manage favorites without it.

Examples:
  dossier                        # Start interactive TUI
  dossier page 2                 # Print the second catalog page
  dossier search rick            # Search characters by name
  dossier show 1 2               # Show characters by id
  dossier favorites add 1        # Add a favorite
  dossier favorites list --json  # Favorites as JSON
  dossier logs -n 50 --grep fav  # Recent log lines`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{ConfigPath: flags.configPath})
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/dossier/config.toml)")
	root.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newPageCmd(flags),
		newSearchCmd(flags),
		newShowCmd(flags),
		newFavoritesCmd(flags),
		newLogsCmd(flags),
	)
	return root
}

func newPageCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "page [n]",
		Short: "Print one page of the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil || n < 1 {
					return fmt.Errorf("invalid page %q", args[0])
				}
			}
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				page, err := env.Client.FetchPage(ctx, n)
				if err != nil {
					return err
				}
				if flags.jsonOut {
					return writeJSON(cmd.OutOrStdout(), page)
				}
				writeEntries(cmd.OutOrStdout(), page.Entries, nil)
				more := "last page"
				if page.HasMore {
					more = fmt.Sprintf("more: dossier page %d", page.Number+1)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d characters (%s)\n", page.Number, page.Pages, page.Count, more)
				return nil
			})
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search characters by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				entries, err := env.Client.FetchByName(ctx, term)
				if err != nil {
					return err
				}
				if flags.jsonOut {
					return writeJSON(cmd.OutOrStdout(), entries)
				}
				if len(entries) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No characters match %q\n", term)
					return nil
				}
				writeEntries(cmd.OutOrStdout(), entries, nil)
				return nil
			})
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>...",
		Short: "Show characters by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				entries, err := env.Client.FetchByIDs(ctx, ids)
				if err != nil {
					return err
				}
				if flags.jsonOut {
					return writeJSON(cmd.OutOrStdout(), entries)
				}
				for i, entry := range entries {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					writeDetail(cmd.OutOrStdout(), entry)
				}
				return nil
			})
		},
	}
}

func newFavoritesCmd(flags *rootFlags) *cobra.Command {
	favCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite characters",
	}

	favCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite characters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
					store := favorites.NewStore(env.Store, favorites.WithContext(ctx))
					m := store.Load(ctx)
					entries := favorites.Resolve(ctx, env.Client, m, log.Default())
					if flags.jsonOut {
						return writeJSON(cmd.OutOrStdout(), entries)
					}
					if len(entries) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No liked characters yet")
						return nil
					}
					writeEntries(cmd.OutOrStdout(), entries, m)
					return nil
				})
			},
		},
		newFavoriteEditCmd(flags, "add", "Add characters to favorites", true),
		newFavoriteEditCmd(flags, "remove", "Remove characters from favorites", false),
	)
	return favCmd
}

func newFavoriteEditCmd(flags *rootFlags, use, short string, value bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				store := favorites.NewStore(env.Store, favorites.WithContext(ctx))
				store.Load(ctx)
				var m favorites.Map
				for _, id := range ids {
					m = store.SetFavorite(id, value)
				}
				if err := store.Flush(ctx); err != nil {
					return fmt.Errorf("save favorites: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d favorites\n", m.Len())
				return nil
			})
		},
	}
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines int
		grep  string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent lines from the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.Tail(cfg.LogFile, lines, grep)
			if err != nil {
				return err
			}
			if flags.jsonOut {
				if out == nil {
					out = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if len(out) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No log lines in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to print")
	cmd.Flags().StringVar(&grep, "grep", "", "only lines containing this text (case-insensitive)")
	return cmd
}

// withEnv loads configuration and runs fn with an open Env.
func withEnv(cmd *cobra.Command, flags *rootFlags, fn func(context.Context, *app.Env) error) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	env, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	runErr := fn(cmd.Context(), env)
	if err := env.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id < 1 {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeEntries prints entries as a table. favs, when non-nil, marks
// favorites.
func writeEntries(w io.Writer, entries []catalog.Entry, favs favorites.Map) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "STATUS", "SPECIES", "LOCATION")
	for _, e := range entries {
		name := e.Name
		if favs.Has(e.ID) {
			name = "♥ " + name
		}
		t.Row(
			strconv.Itoa(e.ID),
			name,
			catalog.Detail(e.Status),
			catalog.Detail(e.Species),
			catalog.Detail(e.Location.Name),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func writeDetail(w io.Writer, e catalog.Entry) {
	fmt.Fprintf(w, "%s (#%d)\n", catalog.Detail(e.Name), e.ID)
	rows := [][2]string{
		{"Status", catalog.Detail(e.Status)},
		{"Species", catalog.Detail(e.Species)},
		{"Type", catalog.Detail(e.Type)},
		{"Gender", catalog.Detail(e.Gender)},
		{"Origin", catalog.Detail(e.Origin.Name)},
		{"Location", catalog.Detail(e.Location.Name)},
		{"Episodes", strconv.Itoa(e.EpisodeCount())},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-9s %s\n", row[0]+":", row[1])
	}
}
