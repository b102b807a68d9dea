// Package router implements the two-line channel selection protocol:
// a selector line naming a channel, followed by one payload line that
// is appended to that channel's rotating file.
package router

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/sungwon/log-revolve/internal/metrics"
	"github.com/sungwon/log-revolve/internal/rotate"
)

// LineWriter appends one raw line to a destination.
type LineWriter interface {
	WriteLine(line []byte) error
}

// state makes the selection protocol explicit: in stateSelect the next
// line is a candidate channel selector, in statePayload it is the
// payload for the pending channel.
type state int

const (
	stateSelect state = iota
	statePayload
)

// Router holds one destination per configured channel plus a fallback
// for lines that match no channel. The channel set is fixed at
// construction. Not safe for concurrent use; input is consumed by a
// single logical reader.
type Router struct {
	files    map[string]LineWriter
	fallback LineWriter

	state   state
	pending string

	log zerolog.Logger
}

// New eagerly opens one rotating file per channel plus the fallback
// file under dir. Construction fails as a whole if any single file
// cannot be opened, so a partially usable router never exists.
func New(dir string, channels []string, fallbackName string, log zerolog.Logger) (*Router, error) {
	files := make(map[string]LineWriter, len(channels))
	for _, name := range channels {
		f, err := rotate.Open(dir, name, log)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", name, err)
		}
		files[name] = f
	}

	fallback, err := rotate.Open(dir, fallbackName, log)
	if err != nil {
		return nil, fmt.Errorf("fallback %s: %w", fallbackName, err)
	}

	return &Router{
		files:    files,
		fallback: fallback,
		log:      log,
	}, nil
}

// Accept consumes one input line.
//
// With no channel pending, the line (trailing whitespace trimmed) is a
// candidate selector: a known channel becomes pending and nothing is
// written, anything else is appended verbatim to the fallback file.
// With a channel pending, the line is the payload for that channel.
// The pending channel is cleared before the payload write, so a write
// failure never leaves the protocol stuck.
func (r *Router) Accept(line string) error {
	metrics.LinesConsumedTotal.Inc()

	if r.state == statePayload {
		channel := r.pending
		w := r.files[channel]
		r.pending = ""
		r.state = stateSelect

		if err := w.WriteLine([]byte(line)); err != nil {
			return fmt.Errorf("channel %s: %w", channel, err)
		}
		metrics.LinesRoutedTotal.WithLabelValues(channel).Inc()
		return nil
	}

	name := strings.TrimRightFunc(line, unicode.IsSpace)
	if _, ok := r.files[name]; ok {
		r.pending = name
		r.state = statePayload
		return nil
	}

	// Unknown selectors are not errors: the line itself is treated as
	// an orphaned payload for the fallback file.
	r.log.Debug().Str("selector", name).Msg("unknown channel, line redirected to fallback")
	metrics.FallbackLinesTotal.Inc()
	if err := r.fallback.WriteLine([]byte(line)); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	return nil
}
