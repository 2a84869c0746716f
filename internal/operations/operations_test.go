package operations

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
	tu "github.com/desertthunder/moviex/internal/testing"
)

// recordingCatalog records the calls that reach the backend.
type recordingCatalog struct {
	services.Catalog
	calls []string
}

func (r *recordingCatalog) RedistributeOscars(ctx context.Context, from, to models.Genre) error {
	r.calls = append(r.calls, "redistribute "+string(from)+" "+string(to))
	return nil
}

func (r *recordingCatalog) DeleteByGenre(ctx context.Context, genre models.Genre) error {
	r.calls = append(r.calls, "delete "+string(genre))
	return nil
}

func (r *recordingCatalog) FindByTagline(ctx context.Context, substring string) ([]models.Movie, error) {
	r.calls = append(r.calls, "tagline "+substring)
	return nil, nil
}

func newBackend(t *testing.T) (*tu.Backend, *Gateway) {
	t.Helper()
	backend := tu.NewBackend(t,
		tu.Movie(1, "Alien", models.GenreScienceFiction),
		tu.Movie(2, "Amadeus", models.GenreDrama),
		tu.Movie(3, "Casablanca", models.GenreDrama),
	)
	return backend, New(services.NewCatalogClient(backend.URL(), nil), nil)
}

func TestDeleteByGenre(t *testing.T) {
	t.Run("accepts labels", func(t *testing.T) {
		backend, gw := newBackend(t)

		genre, err := gw.DeleteByGenre(context.Background(), "drama")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if genre != models.GenreDrama {
			t.Errorf("expected DRAMA, got %s", genre)
		}
		if left := backend.Movies(); len(left) != 1 || left[0].Name != "Alien" {
			t.Errorf("expected only Alien to remain, got %d movies", len(left))
		}
	})

	t.Run("rejects unknown genres locally", func(t *testing.T) {
		rec := &recordingCatalog{}
		gw := New(rec, nil)

		_, err := gw.DeleteByGenre(context.Background(), "western")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(rec.calls) != 0 {
			t.Errorf("no request should be sent, got %v", rec.calls)
		}
	})
}

func TestGoldenPalmSum(t *testing.T) {
	_, gw := newBackend(t)

	sum, err := gw.GoldenPalmSum(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 2 {
		t.Errorf("expected 2, got %d", sum)
	}
}

func TestFindByTagline(t *testing.T) {
	t.Run("blank substring", func(t *testing.T) {
		rec := &recordingCatalog{}
		gw := New(rec, nil)

		for _, in := range []string{"", "   "} {
			_, err := gw.FindByTagline(context.Background(), in)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for %q, got %v", in, err)
			}
			if err != nil && !strings.Contains(err.Error(), "Please enter a tagline substring.") {
				t.Errorf("unexpected message: %v", err)
			}
		}
		if len(rec.calls) != 0 {
			t.Errorf("no request should be sent, got %v", rec.calls)
		}
	})

	t.Run("matches", func(t *testing.T) {
		_, gw := newBackend(t)

		movies, err := gw.FindByTagline(context.Background(), "Ama")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 1 || movies[0].Name != "Amadeus" {
			t.Errorf("expected Amadeus, got %v", movies)
		}
	})
}

func TestRedistributeOscars(t *testing.T) {
	t.Run("same genre passes through", func(t *testing.T) {
		rec := &recordingCatalog{}
		gw := New(rec, nil)

		if _, _, err := gw.RedistributeOscars(context.Background(), "DRAMA", "drama"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rec.calls) != 1 || rec.calls[0] != "redistribute DRAMA DRAMA" {
			t.Errorf("expected the request to be sent unmodified, got %v", rec.calls)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		rec := &recordingCatalog{}
		gw := New(rec, nil)

		_, _, err := gw.RedistributeOscars(context.Background(), "DRAMA", "NOIR")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(rec.calls) != 0 {
			t.Errorf("no request should be sent, got %v", rec.calls)
		}
	})

	t.Run("moves oscars", func(t *testing.T) {
		backend, gw := newBackend(t)

		from, to, err := gw.RedistributeOscars(context.Background(), "science fiction", "DRAMA")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if from != models.GenreScienceFiction || to != models.GenreDrama {
			t.Errorf("unexpected genres %s -> %s", from, to)
		}
		for _, m := range backend.Movies() {
			if m.Genre == models.GenreScienceFiction && m.OscarsCount != nil {
				t.Errorf("%s should have no oscars left", m.Name)
			}
		}
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	write := func(name string, content []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	t.Run("rejects other extensions", func(t *testing.T) {
		_, gw := newBackend(t)
		_, err := gw.Import(ctx, write("movies.csv", []byte("a,b")), services.ImportOptions{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rejects empty files", func(t *testing.T) {
		_, gw := newBackend(t)
		_, err := gw.Import(ctx, write("empty.json", nil), services.ImportOptions{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("uploads", func(t *testing.T) {
		backend, gw := newBackend(t)
		m := tu.Movie(9, "Heat", models.GenreAdventure)
		m.ID = nil
		content, _ := json.Marshal([]models.Movie{m})

		msg, err := gw.Import(ctx, write("movies.json", content), services.ImportOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg == "" {
			t.Error("expected a confirmation message")
		}
		if n := len(backend.Movies()); n != 4 {
			t.Errorf("expected 4 movies, got %d", n)
		}
	})

	t.Run("surfaces failure", func(t *testing.T) {
		_, gw := newBackend(t)
		_, err := gw.Import(ctx, write("broken.json", []byte("{not json")), services.ImportOptions{})

		var apiErr *services.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if !strings.HasPrefix(apiErr.Message, "Import failed") {
			t.Errorf("unexpected message %q", apiErr.Message)
		}
	})
}

func TestHistoryAndDownload(t *testing.T) {
	backend, gw := newBackend(t)
	count := 2
	backend.Seed(models.ImportHistoryEntry{ID: 1, ImportDate: "2024-01-02T10:00:00", Status: models.ImportSuccess, ImportedCount: &count, ObjectName: "1_old.json"}, []byte("[]"))
	backend.Seed(models.ImportHistoryEntry{ID: 2, ImportDate: "2024-03-05T10:00:00", Status: models.ImportFailure, Details: "bad record"}, nil)

	entries, err := gw.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 || entries[1].ID != 1 {
		t.Fatalf("expected newest first, got %+v", entries)
	}

	t.Run("download", func(t *testing.T) {
		dir := t.TempDir()
		path, err := gw.Download(context.Background(), entries[1], dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(path) != "1_old.json" {
			t.Errorf("unexpected file name %s", path)
		}
		if got := tu.MustReadFile(t, path); got != "[]" {
			t.Errorf("unexpected content %q", got)
		}
		matches, _ := filepath.Glob(filepath.Join(dir, ".moviex-download-*"))
		if len(matches) != 0 {
			t.Errorf("temporary files left behind: %v", matches)
		}
	})

	t.Run("nothing stored", func(t *testing.T) {
		_, err := gw.Download(context.Background(), entries[0], t.TempDir())
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("missing on the backend", func(t *testing.T) {
		_, err := gw.Download(context.Background(), models.ImportHistoryEntry{ID: 7, ObjectName: "7_gone.json"}, t.TempDir())
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestNames(t *testing.T) {
	name := func(p models.Person) string { return p.Name }

	if got := Names(nil, name); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
	got := Names([]models.Person{{Name: "Ann"}, {Name: "Bo"}}, name)
	if got != "Ann,\nBo" {
		t.Errorf("unexpected %q", got)
	}
}
