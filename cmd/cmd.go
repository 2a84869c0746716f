// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/records"
)

// rootFlags are shared by every command and read by [Runner.configure].
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("MOVIEX_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Catalog backend base URL (overrides backend.base_url)",
			Sources: cli.EnvVars("MOVIEX_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token sent with every request (overrides backend.token)",
			Sources: cli.EnvVars("MOVIEX_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "database",
			Usage:   "Local store path for drafts and saved views (overrides database.path)",
			Sources: cli.EnvVars("MOVIEX_DATABASE"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// viewFlags select the page, sort and filters of a catalog listing.
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "view",
			Usage: "Start from a saved view",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number, starting at 1",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "Records per page",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort field (id, name, genre, director.name, oscarsCount, budget) or field,dir",
		},
		&cli.BoolFlag{
			Name:  "desc",
			Usage: "Sort descending",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Filter by name substring",
		},
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Filter by genre",
		},
		&cli.StringFlag{
			Name:  "director-name",
			Usage: "Filter by director name substring",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (" + strings.Join(formatNames(), ", ") + ")",
		Value:   string(formatter.Text),
	}
}

func formatNames() []string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return names
}

func setFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "Field assignment field=value, repeatable. Fields: " + strings.Join(records.FieldNames(), ", "),
	}
}

// setupCommand handles setup operations for configuration and the local store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the local store and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// moviesCommand handles catalog record operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "List, inspect and edit catalog records",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show one page of the catalog",
				Flags:  append(viewFlags(), formatFlag()),
				Action: r.MoviesList,
			},
			{
				Name:      "get",
				Usage:     "Show one record",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesGet,
			},
			{
				Name:      "delete",
				Usage:     "Delete one record",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.MoviesDelete,
			},
			{
				Name:   "create",
				Usage:  "Create a record from field assignments",
				Flags:  []cli.Flag{setFlag()},
				Action: r.MoviesCreate,
			},
			{
				Name:      "edit",
				Usage:     "Update a record with field assignments",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{setFlag()},
				Action:    r.MoviesEdit,
			},
			{
				Name:   "fields",
				Usage:  "List the field names accepted by --set",
				Action: r.MoviesFields,
			},
		},
	}
}

// draftsCommand handles records kept after a rejected create or update
func draftsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "Correct and resubmit rejected records",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored drafts",
				Action: r.DraftsList,
			},
			{
				Name:      "show",
				Usage:     "Show a draft with its field errors",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.DraftsShow,
			},
			{
				Name:      "submit",
				Usage:     "Apply assignments to a draft and send it again",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{setFlag()},
				Action:    r.DraftsSubmit,
			},
			{
				Name:      "discard",
				Usage:     "Delete a draft",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.DraftsDiscard,
			},
		},
	}
}

// viewsCommand handles saved view presets
func viewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "views",
		Usage: "Manage saved catalog views",
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save the view selected by the flags under a name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     viewFlags(),
				Action:    r.ViewsSave,
			},
			{
				Name:   "list",
				Usage:  "List saved views",
				Action: r.ViewsList,
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved view",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.ViewsDelete,
			},
		},
	}
}

// opsCommand handles the catalog-wide special operations
func opsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ops",
		Usage: "Special catalog operations",
		Commands: []*cli.Command{
			{
				Name:      "delete-genre",
				Usage:     "Delete every movie of a genre",
				Arguments: []cli.Argument{&cli.StringArg{Name: "genre"}},
				Action:    r.OpsDeleteGenre,
			},
			{
				Name:   "golden-palm-sum",
				Usage:  "Total golden palms across the catalog",
				Action: r.OpsGoldenPalmSum,
			},
			{
				Name:      "tagline",
				Usage:     "Find movies whose tagline contains a substring",
				Arguments: []cli.Argument{&cli.StringArg{Name: "substring"}},
				Action:    r.OpsTagline,
			},
			{
				Name:   "screenwriters",
				Usage:  "List screenwriters with no oscars",
				Action: r.OpsScreenwriters,
			},
			{
				Name:  "redistribute",
				Usage: "Move oscars from one genre to another",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Source genre",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Target genre",
						Required: true,
					},
				},
				Action: r.OpsRedistribute,
			},
		},
	}
}

// importCommand handles file imports
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import movies from JSON files",
		Commands: []*cli.Command{
			{
				Name:      "file",
				Usage:     "Upload a JSON file",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "simulate-error",
						Usage: "Ask the backend to fail after storing the file",
					},
				},
				Action: r.ImportFile,
			},
			{
				Name:  "history",
				Usage: "Show past imports, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ImportHistory,
			},
			{
				Name:      "download",
				Usage:     "Download the file stored for an import",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Target directory",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the file once downloaded",
					},
				},
				Action: r.ImportDownload,
			},
		},
	}
}

// exportCommand walks every page of a view into a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export every page of a catalog view to a file",
		Flags: append(viewFlags(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: movies_export_{epoch}.{ext})",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Markdown heading",
				Value: "Movie catalog",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent page fetches (max 10)",
				Value: 4,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Page requests per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the file once written",
			},
		),
		Action: r.Export,
	}
}

// watchCommand follows the change feed
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow the change feed and reprint the page on every change",
		Flags: append(viewFlags(),
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve prometheus metrics on this address (overrides metrics.addr)",
				Sources: cli.EnvVars("MOVIEX_METRICS_ADDR"),
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Print events only, not the refreshed page",
			},
		),
		Action: r.Watch,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Flags: append(viewFlags(),
			&cli.BoolFlag{
				Name:  "no-feed",
				Usage: "Do not subscribe to the change feed",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI owns the terminal",
				Value: "./tmp/moviex-tui.log",
			},
		),
		Action: r.TUI,
	}
}
