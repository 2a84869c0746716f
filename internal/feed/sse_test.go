package feed

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/moviex/internal/shared"
)

func TestDecoder(t *testing.T) {
	t.Run("Spring style events", func(t *testing.T) {
		stream := "event:connected\ndata:Connection established\n\n" +
			":keep-alive\n\n" +
			"event:movie-created\ndata:{\"id\":1}\n\n" +
			"event: movie-deleted\ndata: 7\nid: 42\n\n"

		dec := NewDecoder(strings.NewReader(stream))
		want := []Event{
			{Name: "connected", Data: "Connection established"},
			{Name: "movie-created", Data: `{"id":1}`},
			{Name: "movie-deleted", Data: "7", ID: "42"},
		}

		for i, w := range want {
			got, err := dec.Next()
			if err != nil {
				t.Fatalf("event %d: unexpected error: %v", i, err)
			}
			if got != w {
				t.Errorf("event %d: got %+v, want %+v", i, got, w)
			}
		}

		if _, err := dec.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("expected io.EOF at end, got %v", err)
		}
	})

	t.Run("multi-line data and CRLF", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader("data: one\r\ndata: two\r\n\r\n"))
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "message" || got.Data != "one\ntwo" {
			t.Errorf("unexpected event: %+v", got)
		}
	})

	t.Run("unterminated event is discarded", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader("event: movie-updated\ndata: 1"))
		if _, err := dec.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})

	t.Run("comments only", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader(":keep-alive\n\n:keep-alive\n\n"))
		if _, err := dec.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})

	t.Run("lines longer than the read buffer", func(t *testing.T) {
		long := strings.Repeat("x", 10_000)
		dec := NewDecoder(strings.NewReader("event: movie-updated\ndata: " + long + "\n\n"))
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Data != long {
			t.Errorf("expected %d bytes of data, got %d", len(long), len(got.Data))
		}
	})

	t.Run("size limits", func(t *testing.T) {
		line := "data: " + strings.Repeat("x", MaxLineLength/2) + "\n"
		tests := []struct {
			name   string
			stream io.Reader
		}{
			{"line without terminator", strings.NewReader(strings.Repeat("x", MaxLineLength+1))},
			{"event spread over many lines", strings.NewReader(strings.Repeat(line, 2*MaxEventSize/MaxLineLength+1) + "\n")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewDecoder(tt.stream).Next()
				if !errors.Is(err, shared.ErrEventTooLarge) {
					t.Errorf("expected ErrEventTooLarge, got %v", err)
				}
			})
		}
	})

	t.Run("retry field is ignored", func(t *testing.T) {
		dec := NewDecoder(strings.NewReader("retry: 3000\n\nevent: oscars-redistributed\ndata:x\n\n"))
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "oscars-redistributed" {
			t.Errorf("unexpected event: %+v", got)
		}
	})
}

func TestInvalidates(t *testing.T) {
	for _, name := range []string{MovieCreated, MovieUpdated, MovieDeleted, MoviesDeletedByGenre, OscarsRedistributed, MoviesImported} {
		if !Invalidates(name) {
			t.Errorf("%s should invalidate", name)
		}
	}
	for _, name := range []string{Greeting, "message", "heartbeat", ""} {
		if Invalidates(name) {
			t.Errorf("%q should not invalidate", name)
		}
	}
}
