// Package tail consumes a sequential stream of newline-terminated
// lines and feeds them, one at a time, to a line acceptor.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sungwon/log-revolve/internal/logger"
)

// Acceptor consumes one raw input line, terminator included.
type Acceptor interface {
	Accept(line string) error
}

// Run reads lines from r until EOF and hands each to a. Lines keep
// their trailing terminator; a final unterminated line is still
// delivered. Any acceptor or read error stops the loop and propagates.
// Cancellation is checked between lines only.
func Run(ctx context.Context, r io.Reader, a Acceptor) error {
	log := logger.FromContext(ctx)
	br := bufio.NewReader(r)

	var consumed int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if aerr := a.Accept(line); aerr != nil {
				return fmt.Errorf("route line: %w", aerr)
			}
			consumed++
		}
		if err == io.EOF {
			log.Info().Int64("lines", consumed).Msg("input exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}
