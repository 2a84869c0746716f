// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/moviex/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Movie builds a record with the given id and name. Budget and box office scale with id,
// so id must be positive for the backend to accept the record.
func Movie(id int64, name string, genre models.Genre) models.Movie {
	oscars := int(id % 3)
	return models.Movie{
		ID:              &id,
		Name:            name,
		Tagline:         name + " tagline",
		Genre:           genre,
		MpaaRating:      models.RatingPG,
		Budget:          float64(id) * 1000,
		TotalBoxOffice:  id * 5000,
		OscarsCount:     &oscars,
		GoldenPalmCount: int(id % 2),
		Coordinates:     models.Coordinates{X: float64(id), Y: -id},
		Director:        &models.Person{Name: "Director " + name, EyeColor: models.ColorBrown},
		Operator:        &models.Person{Name: "Operator " + name, EyeColor: models.ColorGreen},
	}
}
