// Package linereader turns a line-oriented stream into decode events.
// Keyboard-wedge scanners type each code followed by Enter, and external
// decoders such as zbarcam print one code per line.
package linereader

import (
	"bufio"
	"context"
	"io"
	"strings"

	"scanlog/internal/ports"
)

// maxLineSize bounds a single decoded payload
const maxLineSize = 1 << 20

// Option configures a reader
type Option func(*config)

type config struct {
	prefix string
	buffer int
}

// WithPrefix strips a decoder tag such as "QR-Code:" from each line
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithBuffer sets the event channel capacity
func WithBuffer(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// Events reads r line by line and emits one event per non-empty line.
// The channel closes when r is exhausted or ctx ends. A read failure is
// delivered as a final event with Err set.
func Events(ctx context.Context, r io.Reader, opts ...Option) <-chan ports.DecodeEvent {
	cfg := config{buffer: 16}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(chan ports.DecodeEvent, cfg.buffer)
	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if cfg.prefix != "" {
				line = strings.TrimPrefix(line, cfg.prefix)
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !send(ctx, out, ports.DecodeEvent{Text: line}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(ctx, out, ports.DecodeEvent{Err: err})
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- ports.DecodeEvent, ev ports.DecodeEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
