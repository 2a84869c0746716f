package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
	tu "github.com/desertthunder/moviex/internal/testing"
)

// harness runs commands against a fake backend with a throwaway local store.
type harness struct {
	backend *tu.Backend
	output  *bytes.Buffer
	dbPath  string
	dir     string
}

func newHarness(t *testing.T, movies ...models.Movie) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		backend: tu.NewBackend(t, movies...),
		output:  &bytes.Buffer{},
		dbPath:  filepath.Join(dir, "moviex.db"),
		dir:     dir,
	}
}

func (h *harness) run(args ...string) error {
	r := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: h.output})
	app := &cli.Command{
		Name:     "moviex",
		Flags:    rootFlags(),
		Before:   r.configure,
		Commands: r.register(),
		Writer:   h.output,
	}
	base := []string{"moviex", "--config", filepath.Join(h.dir, "missing.toml"), "--base-url", h.backend.URL(), "--database", h.dbPath}
	h.output.Reset()
	return app.Run(context.Background(), append(base, args...))
}

func catalogOf(n int) []models.Movie {
	movies := make([]models.Movie, 0, n)
	for i := 1; i <= n; i++ {
		genre := models.GenreDrama
		if i%2 == 0 {
			genre = models.GenreComedy
		}
		movies = append(movies, tu.Movie(int64(i), fmt.Sprintf("Movie %02d", i), genre))
	}
	return movies
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := services.NewCatalogClient("http://localhost:8080", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client(context.Background()) != catalog {
				t.Error("expected the provided catalog to be used")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("builds the client from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Backend.BaseURL = "http://example.test"
			runner := NewRunner(RunnerOpts{Config: config})

			client, ok := runner.client(context.Background()).(*services.CatalogClient)
			if !ok {
				t.Fatal("expected a *services.CatalogClient")
			}
			if client.BaseURL() != "http://example.test" {
				t.Errorf("expected base URL from config, got %s", client.BaseURL())
			}
			if client.HTTPClient().Timeout != config.Backend.RequestTimeout() {
				t.Errorf("expected timeout %v, got %v", config.Backend.RequestTimeout(), client.HTTPClient().Timeout)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "movies", "drafts", "views", "ops", "import", "export", "watch", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestConfigure(t *testing.T) {
	t.Run("flags override the config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := "[backend]\nbase_url = \"http://file.test\"\n\n[catalog]\npage_size = 25\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &bytes.Buffer{}})
		app := &cli.Command{
			Name:   "moviex",
			Flags:  rootFlags(),
			Before: runner.configure,
			Action: func(context.Context, *cli.Command) error { return nil },
		}
		args := []string{"moviex", "--config", path, "--token", "secret"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("run: %v", err)
		}

		if runner.config.Backend.BaseURL != "http://file.test" {
			t.Errorf("expected base URL from file, got %s", runner.config.Backend.BaseURL)
		}
		if runner.config.Backend.Token != "secret" {
			t.Errorf("expected token from flag, got %q", runner.config.Backend.Token)
		}
		if got := runner.defaultView().Pagination.PageSize; got != 25 {
			t.Errorf("expected page size 25, got %d", got)
		}
	})

	t.Run("rejects a relative base URL", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
		app := &cli.Command{
			Name:   "moviex",
			Flags:  rootFlags(),
			Before: runner.configure,
			Action: func(context.Context, *cli.Command) error { return nil },
		}
		err := app.Run(context.Background(), []string{"moviex", "--config", filepath.Join(t.TempDir(), "none.toml"), "--base-url", "localhost"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	t.Run("list shows the first page", func(t *testing.T) {
		h := newHarness(t, catalogOf(12)...)

		if err := h.run("movies", "list"); err != nil {
			t.Fatalf("list: %v", err)
		}
		out := h.output.String()
		for _, want := range []string{"Page 1 of 2", "Movie 01", "Movie 10"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Movie 11") {
			t.Error("expected Movie 11 on the second page only")
		}
	})

	t.Run("list with paging, sorting and filters", func(t *testing.T) {
		h := newHarness(t, catalogOf(12)...)

		if err := h.run("movies", "list", "--page", "2", "--size", "2", "--sort", "name", "--desc", "--genre", "comedy"); err != nil {
			t.Fatalf("list: %v", err)
		}

		queries := h.backend.ListQueries()
		last := queries[len(queries)-1]
		if last != "page=1&size=2&sort=name,desc&genre=COMEDY" {
			t.Errorf("unexpected query %q", last)
		}
		out := h.output.String()
		if !strings.Contains(out, "Page 2 of 3") || !strings.Contains(out, "Movie 08") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("list clamps a page past the end", func(t *testing.T) {
		h := newHarness(t, catalogOf(12)...)

		if err := h.run("movies", "list", "--page", "9"); err != nil {
			t.Fatalf("list: %v", err)
		}
		if !strings.Contains(h.output.String(), "Page 2 of 2") {
			t.Errorf("expected clamped page, got:\n%s", h.output.String())
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		h := newHarness(t, catalogOf(3)...)

		if err := h.run("movies", "list", "--format", "json"); err != nil {
			t.Fatalf("list: %v", err)
		}
		var movies []models.Movie
		if err := json.Unmarshal(h.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output: %v\n%s", err, h.output.String())
		}
		if len(movies) != 3 {
			t.Errorf("expected 3 movies, got %d", len(movies))
		}
	})

	t.Run("list rejects bad flags", func(t *testing.T) {
		h := newHarness(t)

		tests := []struct {
			name string
			args []string
			want error
		}{
			{"unknown sort field", []string{"--sort", "tagline"}, shared.ErrInvalidFlag},
			{"zero page", []string{"--page", "0"}, shared.ErrInvalidFlag},
			{"unknown genre", []string{"--genre", "WESTERN"}, shared.ErrInvalidArgument},
			{"unknown format", []string{"--format", "xml"}, shared.ErrInvalidFlag},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := h.run(append([]string{"movies", "list"}, tt.args...)...)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("get and delete", func(t *testing.T) {
		h := newHarness(t, catalogOf(3)...)

		if err := h.run("movies", "get", "2"); err != nil {
			t.Fatalf("get: %v", err)
		}
		if !strings.Contains(h.output.String(), "Director Movie 02") {
			t.Errorf("expected director in output:\n%s", h.output.String())
		}

		if err := h.run("movies", "delete", "2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if len(h.backend.Movies()) != 2 {
			t.Errorf("expected 2 movies left, got %d", len(h.backend.Movies()))
		}

		var apiErr *services.APIError
		if err := h.run("movies", "get", "2"); !errors.As(err, &apiErr) {
			t.Errorf("expected APIError for a deleted movie, got %v", err)
		}
		if err := h.run("movies", "get", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("create", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("movies", "create",
			"--set", "name=Heat",
			"--set", "tagline=A Los Angeles crime saga",
			"--set", "budget=60000000",
			"--set", "totalBoxOffice=187400000",
			"--set", "director.name=Michael Mann",
			"--set", "operator.name=Dante Spinotti",
			"--set", "genre=adventure",
		)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		movies := h.backend.Movies()
		if len(movies) != 1 || movies[0].Name != "Heat" {
			t.Fatalf("expected Heat to be created, got %+v", movies)
		}
		if movies[0].Genre != models.GenreAdventure {
			t.Errorf("expected ADVENTURE, got %s", movies[0].Genre)
		}
		if movies[0].Screenwriter != nil {
			t.Error("expected no screenwriter for a blank name")
		}
		if !strings.Contains(h.output.String(), "✓ Saved movie #1: Heat") {
			t.Errorf("unexpected output:\n%s", h.output.String())
		}
	})

	t.Run("edit keeps untouched fields", func(t *testing.T) {
		h := newHarness(t, catalogOf(2)...)

		if err := h.run("movies", "edit", "--set", "name=Renamed", "1"); err != nil {
			t.Fatalf("edit: %v", err)
		}
		for _, m := range h.backend.Movies() {
			if *m.ID != 1 {
				continue
			}
			if m.Name != "Renamed" {
				t.Errorf("expected rename, got %s", m.Name)
			}
			if m.Tagline != "Movie 01 tagline" {
				t.Errorf("expected tagline kept, got %s", m.Tagline)
			}
		}

		if err := h.run("movies", "edit", "1"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument without --set, got %v", err)
		}
	})
}

func TestDraftsCommands(t *testing.T) {
	h := newHarness(t)

	err := h.run("movies", "create", "--set", "name=Heat", "--set", "director.name=Michael Mann")
	if !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if !strings.Contains(h.output.String(), "Draft kept as") {
		t.Fatalf("expected draft notice, got:\n%s", h.output.String())
	}

	db, err := shared.OpenStore(shared.DatabaseConfig{Path: h.dbPath})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	drafts, err := repositories.NewDraftRepository(db).List()
	db.Close()
	if err != nil || len(drafts) != 1 {
		t.Fatalf("expected one draft, got %d (%v)", len(drafts), err)
	}
	draft := drafts[0]
	for _, field := range []string{"tagline", "budget", "operator.name"} {
		if _, ok := draft.FieldErrors[field]; !ok {
			t.Errorf("expected a field error for %s, got %v", field, draft.FieldErrors)
		}
	}

	if err := h.run("drafts", "list"); err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	if !strings.Contains(h.output.String(), draft.DraftID) || !strings.Contains(h.output.String(), "Heat") {
		t.Errorf("expected draft in list:\n%s", h.output.String())
	}

	if err := h.run("drafts", "show", draft.DraftID); err != nil {
		t.Fatalf("drafts show: %v", err)
	}
	if !strings.Contains(h.output.String(), "Michael Mann") || !strings.Contains(h.output.String(), "Field errors:") {
		t.Errorf("unexpected show output:\n%s", h.output.String())
	}

	// A second failure updates the draft instead of adding one.
	if err := h.run("drafts", "submit", "--set", "tagline=A crime saga", draft.DraftID); !errors.Is(err, shared.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = h.run("drafts", "submit",
		"--set", "budget=60000000",
		"--set", "totalBoxOffice=187400000",
		"--set", "operator.name=Dante Spinotti",
		draft.DraftID,
	)
	if err != nil {
		t.Fatalf("drafts submit: %v", err)
	}
	if movies := h.backend.Movies(); len(movies) != 1 || movies[0].Tagline != "A crime saga" {
		t.Fatalf("expected the corrected movie to be created, got %+v", movies)
	}

	if err := h.run("drafts", "list"); err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	if !strings.Contains(h.output.String(), "No drafts.") {
		t.Errorf("expected the draft to be deleted, got:\n%s", h.output.String())
	}

	if err := h.run("drafts", "discard", draft.DraftID); !errors.Is(err, shared.ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestViewsCommands(t *testing.T) {
	h := newHarness(t, catalogOf(12)...)

	if err := h.run("views", "save", "--genre", "COMEDY", "--size", "4", "--sort", "name,desc", "comedies"); err != nil {
		t.Fatalf("views save: %v", err)
	}
	if !strings.Contains(h.output.String(), "size=4 sort=name,desc genre=COMEDY") {
		t.Errorf("unexpected save output:\n%s", h.output.String())
	}

	if err := h.run("views", "list"); err != nil {
		t.Fatalf("views list: %v", err)
	}
	if !strings.Contains(h.output.String(), "comedies") {
		t.Errorf("expected saved view in list:\n%s", h.output.String())
	}

	if err := h.run("movies", "list", "--view", "comedies"); err != nil {
		t.Fatalf("movies list --view: %v", err)
	}
	queries := h.backend.ListQueries()
	if last := queries[len(queries)-1]; last != "page=0&size=4&sort=name,desc&genre=COMEDY" {
		t.Errorf("unexpected query %q", last)
	}
	if !strings.Contains(h.output.String(), "Movie 12") {
		t.Errorf("expected Movie 12 first:\n%s", h.output.String())
	}

	if err := h.run("views", "delete", "comedies"); err != nil {
		t.Fatalf("views delete: %v", err)
	}
	if err := h.run("movies", "list", "--view", "comedies"); !errors.Is(err, shared.ErrViewNotFound) {
		t.Errorf("expected ErrViewNotFound, got %v", err)
	}
}

func TestOpsCommands(t *testing.T) {
	h := newHarness(t, catalogOf(6)...)

	if err := h.run("ops", "golden-palm-sum"); err != nil {
		t.Fatalf("golden-palm-sum: %v", err)
	}
	if !strings.Contains(h.output.String(), "Total Golden Palms: 3") {
		t.Errorf("unexpected output: %s", h.output.String())
	}

	if err := h.run("ops", "tagline", "Movie 0"); err != nil {
		t.Fatalf("tagline: %v", err)
	}
	if !strings.Contains(h.output.String(), "Movie 01,\nMovie 02") {
		t.Errorf("unexpected output: %s", h.output.String())
	}

	if err := h.run("ops", "tagline", " "); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := h.run("ops", "screenwriters"); err != nil {
		t.Fatalf("screenwriters: %v", err)
	}
	if !strings.Contains(h.output.String(), "None") {
		t.Errorf("expected None, got: %s", h.output.String())
	}

	if err := h.run("ops", "redistribute", "--from", "drama", "--to", "comedy"); err != nil {
		t.Fatalf("redistribute: %v", err)
	}
	if !strings.Contains(h.output.String(), "from Drama to Comedy") {
		t.Errorf("unexpected output: %s", h.output.String())
	}

	if err := h.run("ops", "delete-genre", "drama"); err != nil {
		t.Fatalf("delete-genre: %v", err)
	}
	for _, m := range h.backend.Movies() {
		if m.Genre == models.GenreDrama {
			t.Errorf("expected no drama left, found %s", m.Name)
		}
	}
}

func TestImportCommands(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(h.dir, "movies.json")
	payload, _ := json.Marshal([]models.Movie{tu.Movie(1, "Imported", models.GenreMusical)})
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.run("import", "file", path); err != nil {
		t.Fatalf("import file: %v", err)
	}
	if len(h.backend.Movies()) != 1 {
		t.Errorf("expected one imported movie, got %d", len(h.backend.Movies()))
	}

	if err := h.run("import", "file", filepath.Join(h.dir, "movies.csv")); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a csv file, got %v", err)
	}

	if err := h.run("import", "history"); err != nil {
		t.Fatalf("import history: %v", err)
	}
	if !strings.Contains(h.output.String(), "SUCCESS") {
		t.Errorf("expected a successful entry:\n%s", h.output.String())
	}

	downloads := t.TempDir()
	if err := h.run("import", "download", "--dir", downloads, "1"); err != nil {
		t.Fatalf("import download: %v", err)
	}
	entries, _ := os.ReadDir(downloads)
	if len(entries) != 1 {
		t.Fatalf("expected one downloaded file, got %d", len(entries))
	}
	got, _ := os.ReadFile(filepath.Join(downloads, entries[0].Name()))
	if !bytes.Equal(got, payload) {
		t.Error("expected downloaded content to match the upload")
	}

	if err := h.run("import", "download", "42"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t, catalogOf(25)...)
	out := filepath.Join(h.dir, "catalog.csv")

	if err := h.run("export", "--format", "csv", "--output", out, "--size", "10", "--rate", "100"); err != nil {
		t.Fatalf("export: %v", err)
	}

	text := h.output.String()
	for _, want := range []string{"Catalog has 3 pages", "Export complete", "Movies:  25", out} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(string(content)), "\n"); lines != 25 {
		t.Errorf("expected header plus 25 rows, got %d line breaks", lines)
	}
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(h.dir, "config.toml")

		r := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: h.output})
		app := &cli.Command{Name: "moviex", Flags: rootFlags(), Before: r.configure, Commands: r.register()}
		if err := app.Run(context.Background(), []string{"moviex", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("setup config: %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected a loadable config file: %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("setup", "database"); err != nil {
			t.Fatalf("setup database: %v", err)
		}
		out := h.output.String()
		if !strings.Contains(out, "create_drafts") || !strings.Contains(out, "applied") {
			t.Errorf("expected migration statuses:\n%s", out)
		}

		if err := h.run("setup", "database", "--rollback"); err != nil {
			t.Fatalf("rollback: %v", err)
		}
		if !strings.Contains(h.output.String(), "pending") {
			t.Errorf("expected a pending migration after rollback:\n%s", h.output.String())
		}
	})
}
