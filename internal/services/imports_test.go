package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
	tu "github.com/desertthunder/moviex/internal/testing"
)

func TestImports(t *testing.T) {
	ctx := context.Background()

	upload := func(t *testing.T) []byte {
		t.Helper()
		batch := []models.Movie{tu.Movie(10, "Heat", models.GenreAdventure), tu.Movie(11, "Ran", models.GenreDrama)}
		for i := range batch {
			batch[i].ID = nil
		}
		data, err := json.Marshal(batch)
		if err != nil {
			t.Fatalf("failed to encode batch: %v", err)
		}
		return data
	}

	t.Run("ImportFile", func(t *testing.T) {
		backend := tu.NewBackend(t)
		c := NewCatalogClient(backend.URL(), nil)

		msg, err := c.ImportFile(ctx, "batch.json", bytes.NewReader(upload(t)), ImportOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg != "File imported successfully" {
			t.Errorf("unexpected message %q", msg)
		}
		if len(backend.Movies()) != 2 {
			t.Errorf("expected 2 imported records, got %d", len(backend.Movies()))
		}
	})

	t.Run("ImportFile Failure", func(t *testing.T) {
		backend := tu.NewBackend(t)
		c := NewCatalogClient(backend.URL(), nil)

		_, err := c.ImportFile(ctx, "batch.json", bytes.NewReader(upload(t)), ImportOptions{SimulateError: true})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if !strings.HasPrefix(apiErr.Message, "Import failed:") {
			t.Errorf("unexpected message %q", apiErr.Message)
		}
		if len(backend.Movies()) != 0 {
			t.Error("failed import should not add records")
		}

		history, err := c.ImportHistory(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 1 || history[0].Status != models.ImportFailure {
			t.Errorf("expected one FAILURE entry, got %+v", history)
		}
	})

	t.Run("ImportFile Empty", func(t *testing.T) {
		backend := tu.NewBackend(t)
		c := NewCatalogClient(backend.URL(), nil)

		_, err := c.ImportFile(ctx, "empty.json", strings.NewReader(""), ImportOptions{})
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "File is empty") {
			t.Errorf("expected empty file rejection, got %v", err)
		}
	})

	t.Run("ImportHistory", func(t *testing.T) {
		backend := tu.NewBackend(t)
		one := 1
		backend.Seed(models.ImportHistoryEntry{ID: 1, ImportDate: "2025-01-01T10:00:00", Status: models.ImportSuccess, ImportedCount: &one}, nil)
		backend.Seed(models.ImportHistoryEntry{ID: 2, ImportDate: "2025-03-01T10:00:00", Status: models.ImportFailure}, nil)
		backend.Seed(models.ImportHistoryEntry{ID: 3, ImportDate: "2025-02-01T10:00:00.5", Status: models.ImportSuccess, ImportedCount: &one}, nil)

		history, err := NewCatalogClient(backend.URL(), nil).ImportHistory(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var ids []int64
		for _, e := range history {
			ids = append(ids, e.ID)
		}
		if len(ids) != 3 || ids[0] != 2 || ids[1] != 3 || ids[2] != 1 {
			t.Errorf("expected newest first [2 3 1], got %v", ids)
		}
	})

	t.Run("DownloadImportFile", func(t *testing.T) {
		backend := tu.NewBackend(t)
		backend.Seed(models.ImportHistoryEntry{ID: 1, ImportDate: "2025-01-01T10:00:00", ObjectName: "1_batch.json"}, []byte(`[{"name":"Heat"}]`))
		c := NewCatalogClient(backend.URL(), nil)

		var buf bytes.Buffer
		n, filename, err := c.DownloadImportFile(ctx, "1_batch.json", &buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filename != "1_batch.json" || n != int64(buf.Len()) || buf.String() != `[{"name":"Heat"}]` {
			t.Errorf("unexpected download: %s (%d bytes) %q", filename, n, buf.String())
		}

		t.Run("missing object", func(t *testing.T) {
			_, _, err := c.DownloadImportFile(ctx, "nope.json", &buf)
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("no object name", func(t *testing.T) {
			_, _, err := c.DownloadImportFile(ctx, "", &buf)
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("write failure", func(t *testing.T) {
			_, _, err := c.DownloadImportFile(ctx, "1_batch.json", &tu.FWriter{})
			if err == nil || !strings.Contains(err.Error(), "failed to write download") {
				t.Errorf("expected write failure, got %v", err)
			}
		})
	})
}
