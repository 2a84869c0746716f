package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/server"
)

// Backend is an in-memory movie catalog served over HTTP, including the SSE change feed.
//
// Mutations publish the same events the real backend does.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	movies      map[int64]models.Movie
	nextID      int64
	history     []models.ImportHistoryEntry
	files       map[string][]byte
	subs        map[*subscriber]struct{}
	listQueries []string
	unpaged     bool
	failNext    []failure
	done        chan struct{}
	closeOnce   sync.Once
}

type subscriber struct {
	events chan string
	kill   chan struct{}
}

type failure struct {
	status int
	body   string
}

// NewBackend starts a backend seeded with movies. It is closed when the test ends.
func NewBackend(t *testing.T, movies ...models.Movie) *Backend {
	t.Helper()

	b := &Backend{
		movies: make(map[int64]models.Movie),
		files:  make(map[string][]byte),
		subs:   make(map[*subscriber]struct{}),
		done:   make(chan struct{}),
	}
	for _, m := range movies {
		if m.ID == nil {
			t.Fatalf("seed movie %q has no id", m.Name)
		}
		b.movies[*m.ID] = m
		b.nextID = max(b.nextID, *m.ID)
	}

	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Close)
	return b
}

// URL is the base URL of the server.
func (b *Backend) URL() string { return b.Server.URL }

// Close ends every open stream and shuts the server down.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.Server.CloseClientConnections()
		b.Server.Close()
	})
}

// Unpaged makes GET /api/movies ignore its parameters and return every record as a bare array.
func (b *Backend) Unpaged() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unpaged = true
}

// FailNext makes the next request answer with status and body instead of being served.
func (b *Backend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = append(b.failNext, failure{status: status, body: body})
}

// ListQueries returns the raw query strings GET /api/movies has received, in order.
func (b *Backend) ListQueries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.listQueries...)
}

// Movies returns the stored records ordered by id.
func (b *Backend) Movies() []models.Movie {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedLocked()
}

// Seed adds a stored upload with a history entry, as a past import would have.
func (b *Backend) Seed(entry models.ImportHistoryEntry, content []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, entry)
	if entry.ObjectName != "" {
		b.files[entry.ObjectName] = content
	}
}

// Publish sends a named event to every open stream.
func (b *Backend) Publish(event string) {
	b.mu.Lock()
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.events <- event:
		case <-s.kill:
		case <-b.done:
		}
	}
}

// Subscribers reports the number of open streams.
func (b *Backend) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// DropStreams ends every open stream from the server side.
func (b *Backend) DropStreams() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		close(s.kill)
		delete(b.subs, s)
	}
}

// WaitForSubscribers polls until exactly n streams are open or the timeout passes.
func (b *Backend) WaitForSubscribers(t *testing.T, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.Subscribers() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, have %d", n, b.Subscribers())
}

func (b *Backend) routes() http.Handler {
	router := server.NewBasicRouter()
	router.Use(b.injectFailures)

	router.HandleFunc(http.MethodGet, "/api/movies", b.list)
	router.HandleFunc(http.MethodPost, "/api/movies", b.create)
	router.HandleFunc(http.MethodGet, "/api/movies/{id}", b.get)
	router.HandleFunc(http.MethodPut, "/api/movies/{id}", b.update)
	router.HandleFunc(http.MethodDelete, "/api/movies/{id}", b.delete)
	router.HandleFunc(http.MethodDelete, "/api/operations/genre/{genre}", b.deleteByGenre)
	router.HandleFunc(http.MethodGet, "/api/operations/golden-palm-sum", b.goldenPalmSum)
	router.HandleFunc(http.MethodGet, "/api/operations/tagline", b.tagline)
	router.HandleFunc(http.MethodGet, "/api/operations/screenwriters-no-oscars", b.screenwriters)
	router.HandleFunc(http.MethodPost, "/api/operations/redistribute-oscars", b.redistribute)
	router.HandleFunc(http.MethodPost, "/api/import", b.importFile)
	router.HandleFunc(http.MethodGet, "/api/import/history", b.importHistory)
	router.HandleFunc(http.MethodGet, "/api/import/file/{objectName}", b.download)
	router.HandleFunc(http.MethodGet, "/api/sse/subscribe", b.subscribe)
	return router
}

// injectFailures answers with the next queued [Backend.FailNext] failure. The stream endpoint is never failed.
func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		var f *failure
		if len(b.failNext) > 0 && r.URL.Path != "/api/sse/subscribe" {
			f = &b.failNext[0]
			b.failNext = b.failNext[1:]
		}
		b.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (b *Backend) sortedLocked() []models.Movie {
	out := make([]models.Movie, 0, len(b.movies))
	for _, m := range b.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.listQueries = append(b.listQueries, r.URL.RawQuery)
	all := b.sortedLocked()
	unpaged := b.unpaged
	b.mu.Unlock()

	if unpaged {
		writeJSON(w, http.StatusOK, all)
		return
	}

	params := r.URL.Query()
	v := query.DefaultViewState()
	v.Pagination.PageIndex, _ = strconv.Atoi(params.Get("page"))
	if size, err := strconv.Atoi(params.Get("size")); err == nil {
		v.Pagination.PageSize = size
	}
	if s, ok := query.ParseSort(params.Get("sort")); ok {
		v.Sort = s
	}
	v.Filters = map[string]string{}
	for _, f := range query.FilterFields {
		v.Filters[f] = params.Get(f)
	}

	page, total := query.ApplyLocal(all, v)
	// A page past the end is empty, as with a paging repository.
	if v.Pagination.PageIndex >= total {
		page = []models.Movie{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": page, "totalPages": total})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func validate(m models.Movie) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = "Movie name cannot be empty"
	}
	if strings.TrimSpace(m.Tagline) == "" {
		errs["tagline"] = "Tagline cannot be null"
	}
	if len(m.Tagline) > models.MaxTaglineLength {
		errs["tagline"] = "Tagline length must not exceed 168 characters"
	}
	if m.Budget <= 0 {
		errs["budget"] = "Budget must be a positive value"
	}
	if m.TotalBoxOffice <= 0 {
		errs["totalBoxOffice"] = "Total box office must be a positive value"
	}
	if m.Coordinates.X > models.MaxCoordinateX {
		errs["coordinates.x"] = "X coordinate must not exceed 506"
	}
	if m.Director == nil {
		errs["director"] = "Director cannot be null"
	} else if strings.TrimSpace(m.Director.Name) == "" {
		errs["director.name"] = "Person name cannot be empty"
	}
	if m.Operator == nil {
		errs["operator"] = "Operator cannot be null"
	} else if strings.TrimSpace(m.Operator.Name) == "" {
		errs["operator.name"] = "Person name cannot be empty"
	}
	if m.Screenwriter != nil && strings.TrimSpace(m.Screenwriter.Name) == "" {
		errs["screenwriter.name"] = "Person name cannot be empty"
	}
	return errs
}

func (b *Backend) decodeMovie(w http.ResponseWriter, r *http.Request) (models.Movie, bool) {
	var m models.Movie
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return m, false
	}
	if errs := validate(m); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"validation_errors": errs})
		return m, false
	}
	return m, true
}

func (b *Backend) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	b.mu.Lock()
	m, found := b.movies[id]
	b.mu.Unlock()

	if !ok || !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Movie with id %s not found", r.PathValue("id")))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	m, ok := b.decodeMovie(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	m.ID = &id
	m.CreationDate = time.Now().Format("2006-01-02")
	b.movies[id] = m
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, m)
	b.Publish("movie-created")
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	b.mu.Lock()
	existing, found := b.movies[id]
	b.mu.Unlock()
	if !ok || !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Movie with id %s not found", r.PathValue("id")))
		return
	}

	m, ok := b.decodeMovie(w, r)
	if !ok {
		return
	}
	m.ID = &id
	m.CreationDate = existing.CreationDate

	b.mu.Lock()
	b.movies[id] = m
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, m)
	b.Publish("movie-updated")
}

func (b *Backend) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	b.mu.Lock()
	_, found := b.movies[id]
	delete(b.movies, id)
	b.mu.Unlock()

	if !ok || !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Movie with id %s not found", r.PathValue("id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
	b.Publish("movie-deleted")
}

func (b *Backend) deleteByGenre(w http.ResponseWriter, r *http.Request) {
	g := models.Genre(r.PathValue("genre"))
	if !g.Valid() {
		writeError(w, http.StatusBadRequest, "unknown genre "+string(g))
		return
	}

	b.mu.Lock()
	for id, m := range b.movies {
		if m.Genre == g {
			delete(b.movies, id)
		}
	}
	b.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
	b.Publish("movies-deleted-by-genre")
}

func (b *Backend) goldenPalmSum(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	var sum int64
	for _, m := range b.movies {
		sum += int64(m.GoldenPalmCount)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int64{"totalGoldenPalms": sum})
}

func (b *Backend) tagline(w http.ResponseWriter, r *http.Request) {
	contains := r.URL.Query().Get("contains")
	b.mu.Lock()
	found := []models.Movie{}
	for _, m := range b.sortedLocked() {
		if strings.Contains(m.Tagline, contains) {
			found = append(found, m)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, found)
}

func (b *Backend) screenwriters(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	withOscars := map[string]bool{}
	var order []string
	for _, m := range b.sortedLocked() {
		if m.Screenwriter == nil {
			continue
		}
		name := m.Screenwriter.Name
		if _, seen := withOscars[name]; !seen {
			order = append(order, name)
			withOscars[name] = false
		}
		if m.OscarsCount != nil && *m.OscarsCount > 0 {
			withOscars[name] = true
		}
	}
	b.mu.Unlock()

	people := []models.Person{}
	for _, name := range order {
		if !withOscars[name] {
			people = append(people, models.Person{Name: name, EyeColor: models.ColorGreen})
		}
	}
	writeJSON(w, http.StatusOK, people)
}

func (b *Backend) redistribute(w http.ResponseWriter, r *http.Request) {
	from := models.Genre(r.URL.Query().Get("from"))
	to := models.Genre(r.URL.Query().Get("to"))
	if !from.Valid() || !to.Valid() {
		writeError(w, http.StatusBadRequest, "unknown genre")
		return
	}

	b.mu.Lock()
	var fromIDs, toIDs []int64
	total := 0
	for _, m := range b.sortedLocked() {
		if m.Genre == from {
			fromIDs = append(fromIDs, *m.ID)
			if m.OscarsCount != nil {
				total += *m.OscarsCount
			}
		}
		if m.Genre == to {
			toIDs = append(toIDs, *m.ID)
		}
	}
	if len(toIDs) > 0 && total > 0 {
		for _, id := range fromIDs {
			m := b.movies[id]
			m.OscarsCount = nil
			b.movies[id] = m
		}
		per, rem := total/len(toIDs), total%len(toIDs)
		for i, id := range toIDs {
			m := b.movies[id]
			n := per
			if m.OscarsCount != nil {
				n += *m.OscarsCount
			}
			if i < rem {
				n++
			}
			m.OscarsCount = &n
			b.movies[id] = m
		}
	}
	b.mu.Unlock()

	w.WriteHeader(http.StatusOK)
	b.Publish("oscars-redistributed")
}

func (b *Backend) importFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil || len(content) == 0 {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}

	b.mu.Lock()
	entryID := int64(len(b.history) + 1)
	objectName := fmt.Sprintf("%d_%s", entryID, header.Filename)
	b.files[objectName] = content
	entry := models.ImportHistoryEntry{
		ID:         entryID,
		ImportDate: time.Now().Format("2006-01-02T15:04:05"),
		ObjectName: objectName,
	}
	b.mu.Unlock()

	fail := func(msg string) {
		entry.Status = models.ImportFailure
		entry.Details = msg
		b.mu.Lock()
		b.history = append(b.history, entry)
		b.mu.Unlock()
		writeError(w, http.StatusInternalServerError, "Import failed: "+msg)
	}

	var movies []models.Movie
	if err := json.Unmarshal(content, &movies); err != nil {
		fail("invalid JSON: " + err.Error())
		return
	}
	for i, m := range movies {
		if errs := validate(m); len(errs) > 0 {
			fail(fmt.Sprintf("record %d is invalid", i))
			return
		}
	}
	if r.URL.Query().Get("simulateError") == "true" {
		fail("simulated failure")
		return
	}

	b.mu.Lock()
	for _, m := range movies {
		b.nextID++
		id := b.nextID
		m.ID = &id
		b.movies[id] = m
	}
	count := len(movies)
	entry.Status = models.ImportSuccess
	entry.ImportedCount = &count
	b.history = append(b.history, entry)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "File imported successfully"})
	b.Publish("movies-imported")
}

func (b *Backend) importHistory(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	entries := append([]models.ImportHistoryEntry{}, b.history...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, entries)
}

func (b *Backend) download(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("objectName")
	b.mu.Lock()
	content, ok := b.files[name]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(content)
}

func (b *Backend) subscribe(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "event:connected\ndata:Connection established\n\n")
	flusher.Flush()

	s := &subscriber{events: make(chan string, 16), kill: make(chan struct{})}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		case <-s.kill:
			return
		case ev := <-s.events:
			fmt.Fprintf(w, ":keep-alive\n\nevent:%s\ndata:{}\n\n", ev)
			flusher.Flush()
		}
	}
}
