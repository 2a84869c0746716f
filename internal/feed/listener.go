// Package feed subscribes to the catalog's server-sent change feed and turns every recognised
// event into an invalidate [Signal].
//
// Payloads are never parsed: the feed only says "the catalog may have changed". A [Listener]
// holds at most one live stream, reconnects after transport errors at a rate bounded by a
// [rate.Limiter], and releases the stream on every exit path of [Listener.Run].
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/moviex/internal/shared"
)

const DefaultPath = "/api/sse/subscribe"

// Event names published by the backend after a committed mutation.
const (
	MovieCreated         = "movie-created"
	MovieUpdated         = "movie-updated"
	MovieDeleted         = "movie-deleted"
	MoviesDeletedByGenre = "movies-deleted-by-genre"
	OscarsRedistributed  = "oscars-redistributed"
	MoviesImported       = "movies-imported"

	// Greeting is sent by the backend on subscribe. It carries no change.
	Greeting = "connected"
	// Reconnected is emitted locally after a dropped stream comes back, since events may have been missed.
	Reconnected = "reconnected"
)

var invalidating = map[string]bool{
	MovieCreated:         true,
	MovieUpdated:         true,
	MovieDeleted:         true,
	MoviesDeletedByGenre: true,
	OscarsRedistributed:  true,
	MoviesImported:       true,
}

// Invalidates reports whether an event named name means the catalog may have changed.
func Invalidates(name string) bool {
	return invalidating[name]
}

// State is the connection state of a [Listener].
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Signal tells the consumer to refresh using its current view state.
type Signal struct {
	Event string
	At    time.Time
}

// Observer is notified of listener activity. Used for metrics.
type Observer interface {
	EventReceived(name string)
	StateChanged(s State)
	Reconnecting()
}

// Options configure a [Listener]. Zero values select defaults.
type Options struct {
	// Client must not carry a timeout, or the stream is cut after it.
	Client         *http.Client
	Path           string
	ReconnectDelay time.Duration
	ReconnectBurst int
	// Buffer is the capacity of the signal channel.
	Buffer   int
	Logger   *log.Logger
	Observer Observer
}

// Listener maintains the change feed subscription.
type Listener struct {
	url      string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *log.Logger
	observer Observer

	signals chan Signal
	state   atomic.Int32
	running atomic.Bool

	mu       sync.Mutex
	watchers []chan State
}

// NewListener creates a listener for the feed at baseURL + opts.Path.
func NewListener(baseURL string, opts Options) *Listener {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = time.Second
	}
	if opts.ReconnectBurst <= 0 {
		opts.ReconnectBurst = 1
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &Listener{
		url:      strings.TrimRight(baseURL, "/") + opts.Path,
		client:   opts.Client,
		limiter:  rate.NewLimiter(rate.Every(opts.ReconnectDelay), opts.ReconnectBurst),
		logger:   opts.Logger,
		observer: opts.Observer,
		signals:  make(chan Signal, opts.Buffer),
	}
}

// Signals delivers one value per invalidating event, in arrival order.
func (l *Listener) Signals() <-chan Signal {
	return l.signals
}

// State returns the current connection state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// WatchState returns a channel receiving every state transition. Slow readers miss transitions.
func (l *Listener) WatchState() <-chan State {
	ch := make(chan State, 4)
	l.mu.Lock()
	l.watchers = append(l.watchers, ch)
	l.mu.Unlock()
	return ch
}

func (l *Listener) setState(s State) {
	if State(l.state.Swap(int32(s))) == s {
		return
	}
	l.logger.Debug("feed state", "state", s)
	if l.observer != nil {
		l.observer.StateChanged(s)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.watchers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Run holds the subscription until ctx is cancelled, reconnecting after every failure.
//
// Only one Run may be active at a time. The stream is closed and the state reset to
// [Disconnected] before Run returns. Cancellation is not an error.
func (l *Listener) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return shared.ErrAlreadyRunning
	}
	defer l.running.Store(false)
	defer l.setState(Disconnected)

	attempts := 0
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil
		}

		if attempts > 0 && l.observer != nil {
			l.observer.Reconnecting()
		}

		err := l.stream(ctx, attempts > 0)
		attempts++

		if ctx.Err() != nil {
			return nil
		}
		l.setState(Disconnected)
		l.logger.Warn("change feed disconnected", "error", err, "attempt", attempts)
	}
}

// stream opens one subscription and reads it until it fails.
func (l *Listener) stream(ctx context.Context, resync bool) error {
	l.setState(Connecting)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: subscribe returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "text/event-stream" {
		return fmt.Errorf("%w: unexpected content type %q", shared.ErrAPIRequest, mt)
	}

	l.setState(Connected)
	l.logger.Info("change feed connected", "url", l.url)

	if resync {
		if err := l.emit(ctx, Reconnected); err != nil {
			return err
		}
	}

	dec := NewDecoder(resp.Body)
	for {
		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return shared.ErrStreamClosed
			}
			return err
		}

		if l.observer != nil {
			l.observer.EventReceived(ev.Name)
		}

		if !Invalidates(ev.Name) {
			l.logger.Debug("ignoring feed event", "event", ev.Name)
			continue
		}

		l.logger.Debug("feed event", "event", ev.Name)
		if err := l.emit(ctx, ev.Name); err != nil {
			return err
		}
	}
}

func (l *Listener) emit(ctx context.Context, name string) error {
	select {
	case l.signals <- Signal{Event: name, At: time.Now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
