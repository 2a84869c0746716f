package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/moviex/internal/shared"
)

const (
	// MaxLineLength bounds a single line of the stream.
	MaxLineLength = 64 << 10
	// MaxEventSize bounds the data of one event across all of its lines.
	MaxEventSize = 1 << 20
)

// Event is one dispatched server-sent event.
type Event struct {
	Name string
	Data string
	ID   string
}

// Decoder reads server-sent events from a stream.
//
// Comment lines (":keep-alive") and retry fields are skipped. Events without a name default to "message".
// A line longer than [MaxLineLength] or an event larger than [MaxEventSize] fails with
// [shared.ErrEventTooLarge].
type Decoder struct {
	r *bufio.Reader
}

// readLine returns the next line including its terminator. A final line without one is
// returned with io.EOF.
func (d *Decoder) readLine() (string, error) {
	var b strings.Builder
	for {
		chunk, err := d.r.ReadSlice('\n')
		if b.Len()+len(chunk) > MaxLineLength {
			return "", fmt.Errorf("%w: line longer than %d bytes", shared.ErrEventTooLarge, MaxLineLength)
		}
		b.Write(chunk)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return b.String(), err
	}
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next blocks until a complete event has been read. It returns [io.EOF] when the stream ends;
// an event missing its terminating blank line is discarded.
func (d *Decoder) Next() (Event, error) {
	var (
		ev      Event
		data    []string
		hasData bool
		size    int
	)

	for {
		line, err := d.readLine()
		if err != nil && (err != io.EOF || line == "") {
			return Event{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData || ev.Name != "" {
				ev.Data = strings.Join(data, "\n")
				if ev.Name == "" {
					ev.Name = "message"
				}
				return ev, nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Name = value
		case "data":
			size += len(value) + 1
			if size > MaxEventSize {
				return Event{}, fmt.Errorf("%w: event data longer than %d bytes", shared.ErrEventTooLarge, MaxEventSize)
			}
			data = append(data, value)
			hasData = true
		case "id":
			ev.ID = value
		}
	}
}
