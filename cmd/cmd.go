// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the local database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the local cache database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the sign-in lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage student sign-in",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with Google (opens a browser)",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:  "import",
				Usage: "Import a bearer token from a browser 'Copy as cURL' command",
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
				Action: r.AuthImport,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in student",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
		},
	}
}

// notebooksCommand lists the student's assigned notebooks.
func notebooksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "notebooks",
		Aliases: []string{"nb"},
		Usage:   "List assigned notebooks",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.NotebooksList,
	}
}

// playlistCommand shows a notebook's merged playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Show a notebook's task playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "notebook"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.PlaylistShow,
	}
}

// runCommand advances through a notebook's playlist.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute the next task in a notebook's playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "notebook"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Run every remaining task in order",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Notebook page URL to resolve instead of a name",
			},
		},
		Action: r.Run,
	}
}

// progressCommand reports completion state.
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Show or export notebook progress",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show completion state for a notebook",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "notebook"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ProgressShow,
			},
			{
				Name:  "report",
				Usage: "Export a progress report file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "notebook"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ProgressReport,
			},
		},
	}
}

// cacheCommand handles playlist prefetching for offline study.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local playlist cache",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Prefetch and cache playlists for every assigned notebook",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent fetch workers",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 5.0,
					},
				},
				Action: r.CacheWarm,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive study sessions.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive study bubble",
		Action:  r.TUI,
	}
}
