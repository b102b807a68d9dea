// Package rotate maintains one appendable file per logical channel,
// transparently reopening onto a new hour-aligned path when the wall
// clock crosses an hour boundary.
package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/log-revolve/internal/metrics"
)

// Flags are used when opening a channel file. Append-only, never
// truncating, so content from earlier runs within the same aligned
// hour is preserved and extended.
const Flags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

const fileMode = 0o640

// File owns one channel's destination file for the process lifetime.
// It is not safe for concurrent use; the router drives it from a
// single consumer.
type File struct {
	channel string
	dir     string

	// lastRotated is hour-aligned: minutes and seconds are zero. The
	// current file's name is always derived from {channel, lastRotated}.
	lastRotated time.Time
	f           *os.File

	log zerolog.Logger
	now func() time.Time
}

// Open creates the File for channel under dir and opens the current
// hour's path for append.
func Open(dir, channel string, log zerolog.Logger) (*File, error) {
	return openAt(dir, channel, log, time.Now)
}

func openAt(dir, channel string, log zerolog.Logger, now func() time.Time) (*File, error) {
	aligned := alignHour(now())
	path := Path(dir, channel, aligned)

	f, err := os.OpenFile(path, Flags, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &File{
		channel:     channel,
		dir:         dir,
		lastRotated: aligned,
		f:           f,
		log:         log.With().Str("channel", channel).Logger(),
		now:         now,
	}, nil
}

// Path returns the destination path for a channel at the given
// hour-aligned timestamp: {dir}/{channel}_{YYYY-MM-DD-HH-MM-SS}.log.
// Recomputing it for the same aligned hour always yields the same path.
func Path(dir, channel string, ts time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", channel, ts.Format("2006-01-02-15-04-05")))
}

// alignHour zeroes minutes and seconds in t's own location. Built with
// time.Date rather than Truncate so zones with non-whole-hour offsets
// stay locally aligned.
func alignHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// WriteLine appends line to the current file, first reopening onto a
// new path if rotation is due. The line is written as-is, trailing
// terminator included.
func (f *File) WriteLine(line []byte) error {
	if err := f.rotate(); err != nil {
		return err
	}

	n, err := f.f.Write(line)
	if err != nil {
		metrics.WriteErrorsTotal.WithLabelValues(f.channel).Inc()
		return fmt.Errorf("write %s: %w", f.f.Name(), err)
	}
	metrics.BytesWrittenTotal.WithLabelValues(f.channel).Add(float64(n))
	return nil
}

// rotate reopens onto the new hour-aligned path when due. The replaced
// handle is closed only after the new one opened successfully; a close
// failure is logged but not returned, since every write to the old
// handle already completed.
func (f *File) rotate() error {
	if !f.rotationDue() {
		return nil
	}

	aligned := alignHour(f.now())
	path := Path(f.dir, f.channel, aligned)

	nf, err := os.OpenFile(path, Flags, fileMode)
	if err != nil {
		metrics.WriteErrorsTotal.WithLabelValues(f.channel).Inc()
		return fmt.Errorf("rotate to %s: %w", path, err)
	}

	old := f.f
	f.f = nf
	f.lastRotated = aligned

	if err := old.Close(); err != nil {
		f.log.Error().Err(err).Str("path", old.Name()).Msg("close replaced channel file")
	}

	metrics.RotationsTotal.WithLabelValues(f.channel).Inc()
	f.log.Info().Str("path", path).Msg("rotated channel file")
	return nil
}

// rotationDue reports whether an hour boundary has been crossed since
// the last rotation. The elapsed-duration check is authoritative; the
// calendar branch only fires first when the clock has jumped backwards
// across a day boundary.
func (f *File) rotationDue() bool {
	now := f.now()

	if dateAfter(now, f.lastRotated) && now.Hour() > f.lastRotated.Hour() {
		return true
	}

	return now.Sub(f.lastRotated) > time.Hour
}

func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

// Name returns the path of the currently open file.
func (f *File) Name() string {
	return f.f.Name()
}

// Close releases the current handle. The process normally relies on
// exit for handle release; Close exists for tests and shutdown paths.
func (f *File) Close() error {
	return f.f.Close()
}
