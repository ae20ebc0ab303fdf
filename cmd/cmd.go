// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// movieFilterFlags are shared by every command that walks the movie listing.
func movieFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Search in title, original title and subtitle",
		},
		&cli.IntFlag{
			Name:  "start-year",
			Usage: "Earliest release year",
		},
		&cli.IntFlag{
			Name:  "end-year",
			Usage: "Latest release year",
		},
		&cli.IntFlag{
			Name:  "runtime-min",
			Usage: "Minimum runtime in minutes",
		},
		&cli.IntFlag{
			Name:  "runtime-max",
			Usage: "Maximum runtime in minutes",
		},
		&cli.StringFlag{
			Name:  "studio",
			Usage: "Filter by studio ID",
		},
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Filter by genre ID",
		},
	}
}

// movieFieldFlags cover every editable movie field for create and edit.
func movieFieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "title",
			Usage: "Display title",
		},
		&cli.StringFlag{
			Name:  "original-title",
			Usage: "Original release title",
		},
		&cli.StringFlag{
			Name:  "subtitle",
			Usage: "Subtitle or tagline",
		},
		&cli.StringFlag{
			Name:  "year",
			Usage: "Release year",
		},
		&cli.StringFlag{
			Name:  "runtime",
			Usage: "Runtime in minutes",
		},
		&cli.StringFlag{
			Name:  "budget",
			Usage: "Budget in whole USD",
		},
		&cli.StringFlag{
			Name:  "revenue",
			Usage: "Revenue in whole USD",
		},
		&cli.StringFlag{
			Name:  "profit",
			Usage: "Profit in whole USD",
		},
		&cli.StringFlag{
			Name:  "rating",
			Usage: "Content rating (ALL_AGES, AGE_10, AGE_12, AGE_14, AGE_16, AGE_18)",
		},
		&cli.StringFlag{
			Name:  "status",
			Usage: "Release status (RELEASED, ANNOUNCED, CANCELED, IN_PRODUCTION)",
		},
		&cli.StringFlag{
			Name:  "studio",
			Usage: "Studio ID",
		},
		&cli.StringSliceFlag{
			Name:  "genre",
			Usage: "Genre ID, repeatable",
		},
		&cli.StringFlag{
			Name:  "approbation",
			Usage: "Critics approbation, 1-100",
		},
		&cli.StringFlag{
			Name:  "trailer",
			Usage: "Trailer YouTube video ID",
		},
		&cli.StringFlag{
			Name:  "overview",
			Usage: "Plot overview",
		},
		&cli.StringFlag{
			Name:  "poster",
			Usage: "Path to a poster image (jpeg or png, max 5 MiB)",
		},
	}
}

// moviesCommand handles movie listing, lookup and mutation operations.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"mv"},
		Usage:   "Movie catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies with optional filters",
				Flags: append(movieFilterFlags(),
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Results per page",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				),
				Action: r.MoviesList,
			},
			{
				Name:  "get",
				Usage: "Show a single movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesGet,
			},
			{
				Name:   "create",
				Usage:  "Create a movie",
				Flags:  movieFieldFlags(),
				Action: r.MoviesCreate,
			},
			{
				Name:  "edit",
				Usage: "Edit a movie, unset flags keep current values",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  movieFieldFlags(),
				Action: r.MoviesEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.MoviesDelete,
			},
			{
				Name:  "export",
				Usage: "Export the filtered listing page by page",
				Flags: append(movieFilterFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent page writers (max 10)",
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Listing requests per second",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Listing page size",
					},
				),
				Action: r.MoviesExport,
			},
		},
	}
}

// studiosCommand lists studio reference data.
func studiosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "studios",
		Usage: "List studios",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Read from the local cache instead of the API",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.StudiosList,
	}
}

// genresCommand lists genre reference data.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List genres",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Read from the local cache instead of the API",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.GenresList,
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Fetch health, first listing page and both reference lists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session locally",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session and API health",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Drop the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for catalog management",
		Action:  r.TUI,
	}
}
