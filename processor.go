package iso8583

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Processor unpacks raw ISO 8583 messages of one dialect concurrently.
type Processor struct {
	dialect      *Dialect
	concurrency  int          // Max number of goroutines for processing
	logger       *slog.Logger // Receives one record per failed message
	errorHandler func(error)  // Optional callback for failed messages
}

// ProcessorOption defines a function signature for configuring a Processor.
type ProcessorOption func(*Processor)

// WithConcurrency sets the maximum number of concurrent goroutines for the processor.
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithErrorHandler sets a callback invoked for every message that fails to
// unpack, with the error prefixed by the message index. It may be called
// from several goroutines at once.
func WithErrorHandler(handler func(error)) ProcessorOption {
	return func(p *Processor) {
		p.errorHandler = handler
	}
}

// NewProcessor creates a new Processor for dialect d.
func NewProcessor(d *Dialect, opts ...ProcessorOption) *Processor {
	p := &Processor{
		dialect:     d,
		concurrency: 4,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Processor) fail(idx int, err error) {
	if p.logger != nil {
		p.logger.Warn("unpack failed", slog.String("dialect", p.dialect.name), slog.Int("index", idx), slog.Any("error", err))
	}
	if p.errorHandler != nil {
		p.errorHandler(fmt.Errorf("message %d: %w", idx, err))
	}
}

// Process unpacks a single raw message.
func (p *Processor) Process(data []byte) (*Message, error) {
	return Unpack(p.dialect, data)
}

// ProcessBatch unpacks a slice of raw messages concurrently. Results keep the
// input order; a failed message leaves a nil entry and the returned error
// joins every failure, each prefixed by its index.
func (p *Processor) ProcessBatch(ctx context.Context, dataSlice [][]byte) ([]*Message, error) {
	results := make([]*Message, len(dataSlice))
	errs := make([]error, len(dataSlice))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency) // Limit concurrent goroutines

	for i, data := range dataSlice {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait() // Wait for already-running jobs
			return nil, ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, msgData []byte) {
			defer wg.Done()
			defer func() { <-semaphore }()

			msg, err := Unpack(p.dialect, msgData)
			if err != nil {
				errs[idx] = err
				p.fail(idx, err)
				return
			}
			results[idx] = msg
		}(i, data)
	}

	wg.Wait()

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("message %d: %w", i, err))
		}
	}

	return results, errors.Join(failed...)
}

// ProcessStream unpacks messages from input and sends them to output until
// input is closed or ctx is cancelled. Messages that fail to unpack are
// reported and dropped. Output order is not guaranteed.
func (p *Processor) ProcessStream(ctx context.Context, input <-chan []byte, output chan<- *Message) error {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)
	idx := 0

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()

		case data, ok := <-input:
			if !ok {
				wg.Wait()
				return nil
			}

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				wg.Wait()
				return ctx.Err()
			}

			wg.Add(1)
			go func(n int, msgData []byte) {
				defer wg.Done()
				defer func() { <-semaphore }()

				msg, err := Unpack(p.dialect, msgData)
				if err != nil {
					p.fail(n, err)
					return
				}

				select {
				case output <- msg:
				case <-ctx.Done():
				}
			}(idx, data)
			idx++
		}
	}
}
