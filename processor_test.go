package iso8583

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestProcessBatch(t *testing.T) {
	good := postilionFixture(t)
	bad := good[:len(good)-2]

	var mu sync.Mutex
	var handled []error
	var logs bytes.Buffer
	p := NewProcessor(Postilion,
		WithConcurrency(2),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithErrorHandler(func(err error) {
			mu.Lock()
			handled = append(handled, err)
			mu.Unlock()
		}),
	)

	results, err := p.ProcessBatch(context.Background(), [][]byte{good, bad, good, good})
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("got %v, want ErrTruncatedInput", err)
	}
	if !strings.Contains(err.Error(), "message 1: ") {
		t.Fatalf("error lacks index: %v", err)
	}
	if len(results) != 4 || results[1] != nil {
		t.Fatalf("unexpected results: %v", results)
	}
	for _, i := range []int{0, 2, 3} {
		if results[i] == nil || results[i].MTI() != "0200" {
			t.Fatalf("result %d: %v", i, results[i])
		}
	}
	if len(handled) != 1 || !strings.HasPrefix(handled[0].Error(), "message 1: ") {
		t.Fatalf("handler calls: %v", handled)
	}
	if !strings.Contains(logs.String(), "unpack failed") || !strings.Contains(logs.String(), "index=1") {
		t.Fatalf("log output: %s", logs.String())
	}
}

func TestProcessBatchAllGood(t *testing.T) {
	p := NewProcessor(Postilion, WithLogger(nil))
	results, err := p.ProcessBatch(context.Background(), [][]byte{postilionFixture(t)})
	if err != nil || len(results) != 1 || results[0] == nil {
		t.Fatalf("got %v %v", results, err)
	}
	if m, err := p.Process(postilionFixture(t)); err != nil || m.MTI() != "0200" {
		t.Fatalf("process: %v", err)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(Postilion, WithLogger(nil))
	results, err := p.ProcessBatch(ctx, [][]byte{postilionFixture(t)})
	if !errors.Is(err, context.Canceled) || results != nil {
		t.Fatalf("got %v %v", results, err)
	}
}

func TestProcessStream(t *testing.T) {
	good := postilionFixture(t)
	in := make(chan []byte)
	out := make(chan *Message, 4)

	var failures int
	var mu sync.Mutex
	p := NewProcessor(Postilion, WithLogger(nil), WithErrorHandler(func(error) {
		mu.Lock()
		failures++
		mu.Unlock()
	}))

	done := make(chan error, 1)
	go func() { done <- p.ProcessStream(context.Background(), in, out) }()

	in <- good
	in <- []byte("0200")
	in <- good
	close(in)

	if err := <-done; err != nil {
		t.Fatalf("stream: %v", err)
	}
	close(out)

	var n int
	for m := range out {
		if m.MTI() != "0200" {
			t.Fatalf("mti: %s", m.MTI())
		}
		n++
	}
	if n != 2 || failures != 1 {
		t.Fatalf("got %d messages and %d failures", n, failures)
	}
}

func TestProcessStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan []byte)
	out := make(chan *Message)

	p := NewProcessor(Postilion, WithLogger(nil))
	done := make(chan error, 1)
	go func() { done <- p.ProcessStream(ctx, in, out) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("stream did not stop")
	}
}
