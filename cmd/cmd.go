// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "hymn",
		Usage:   "Browse, present and export hymnal lyrics",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Append logs to a file instead of stderr",
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}

// setupCommand handles setup operations for configuration, database and the identity provider session.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file, or switch its environment",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "Environment to select (development or production)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "session",
				Usage: "Import an identity provider session from browser cookies",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SetupSession,
			},
		},
	}
}

// authCommands returns the session commands
func authCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "Sign in through the identity provider in the browser",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "How long to wait for the browser sign in",
					Value: 5 * time.Minute,
				},
				&cli.BoolFlag{
					Name:  "no-browser",
					Usage: "Print the sign in URL instead of opening it",
				},
			},
			Action: r.Login,
		},
		{
			Name:  "logout",
			Usage: "Sign out and forget the stored session",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "browser",
					Usage: "Open the identity provider's sign out page",
				},
			},
			Action: r.Logout,
		},
		{
			Name:  "whoami",
			Usage: "Show the signed in user",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			},
			Action: r.Whoami,
		},
	}
}

// catalogCommands returns the read-only catalog commands
func catalogCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "books",
			Usage: "List hymnals",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			},
			Action: r.Books,
		},
		{
			Name:  "songs",
			Usage: "List songs, optionally for one book",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "book",
					Aliases: []string{"b"},
					Usage:   "Book ID",
				},
				&cli.BoolFlag{Name: "csv", Usage: "Output CSV"},
				&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Write to a file instead of stdout",
				},
			},
			Action: r.Songs,
		},
		{
			Name:  "song",
			Usage: "Show a song's lyrics",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "id"},
			},
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			},
			Action: r.Song,
		},
	}
}

// favoritesCommand handles the signed in user's favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite songs",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a song to favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a song from favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesRemove,
			},
		},
	}
}

// exportCommands returns the export and presentation commands
func exportCommands(r *Runner) []*cli.Command {
	bookFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "book",
			Aliases: []string{"b"},
			Usage:   "Book ID (defaults to the song's book)",
		}
	}

	return []*cli.Command{
		{
			Name:      "export",
			Usage:     "Export a song as text, markdown or an email link",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Flags: []cli.Flag{
				bookFlag(),
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "text, markdown or email",
					Value:   "text",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file or directory",
				},
			},
			Action: r.Export,
		},
		{
			Name:      "present",
			Usage:     "Present a song as full screen slides",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Flags: []cli.Flag{
				bookFlag(),
				&cli.BoolFlag{
					Name:  "fullscreen",
					Usage: "Start in the alternate screen",
					Value: true,
				},
			},
			Action: r.Present,
		},
	}
}

// adminCommand handles song maintenance for admin users
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Create, update and delete songs (admin only)",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Create or update a song from a JSON draft",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the song draft",
						Required: true,
					},
				},
				Action: r.AdminSave,
			},
			{
				Name:      "delete",
				Usage:     "Delete a song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.AdminDelete,
			},
		},
	}
}

// cacheCommand handles the local catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear the local catalog cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the number of cached responses",
				Action: r.CacheStats,
			},
			{
				Name:  "purge",
				Usage: "Remove entries older than the configured TTL",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Override the configured TTL",
					},
				},
				Action: r.CachePurge,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached response",
				Action: r.CacheClear,
			},
		},
	}
}
