// isodump decodes ISO 8583 messages and logs their fields.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	iso8583 "github.com/mkadit/openiso8583"
)

var (
	flags       = flag.NewFlagSet("isodump", flag.ContinueOnError)
	configPath  = flags.String("config", "", "TOML config file")
	dialectName = flags.String("dialect", "", "built-in dialect (iso8583-1987, iso8583-1993, postilion, termapp)")
	dialectFile = flags.String("dialect-file", "", "dialect description (.json, .yaml, .yml, .toml)")
	rawInput    = flags.Bool("raw", false, "input is one binary message instead of hex lines")
	dumpBytes   = flags.Bool("dump", false, "log a hex dump of every message")
)

func usage() {
	fmt.Fprintf(os.Stderr, `
Usage:
  isodump [options] [file]

Reads hex encoded messages, one per line, from file or stdin.

Options:
`)
	flags.PrintDefaults()
}

func main() {
	flags.Usage = usage
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "isodump: %v\n", err)
		os.Exit(1)
	}
	applyEnvOverrides(&cfg)
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dialect":
			cfg.Dialect = *dialectName
		case "dialect-file":
			cfg.DialectFile = *dialectFile
		case "raw":
			if *rawInput {
				cfg.Input = "raw"
			}
		case "dump":
			cfg.Dump = *dumpBytes
		}
	})

	logger := newLogger(os.Stderr, cfg.LogLevel)

	in := io.Reader(os.Stdin)
	if path := flags.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			logger.Fatal().Err(err).Msg("open input")
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed, err := run(ctx, cfg, in, logger)
	if err != nil {
		logger.Error().Err(err).Msg("isodump failed")
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(3)
	}
}

func resolveDialect(cfg config) (*iso8583.Dialect, error) {
	if cfg.DialectFile != "" {
		return iso8583.LoadDialectFile(cfg.DialectFile)
	}
	d, ok := iso8583.BuiltinDialect(cfg.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", cfg.Dialect)
	}
	return d, nil
}

// readMessages returns the messages in r. Hex input holds one message per
// line; blank lines and lines starting with '#' are skipped.
func readMessages(r io.Reader, input string) ([][]byte, error) {
	if input == "raw" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return [][]byte{data}, nil
	}

	var msgs [][]byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		data, err := iso8583.FromHex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		msgs = append(msgs, data)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return msgs, nil
}

// run decodes every message and logs it. It returns the number of messages
// that failed to decode; err is reserved for setup and input failures.
func run(ctx context.Context, cfg config, r io.Reader, logger zerolog.Logger) (int, error) {
	d, err := resolveDialect(cfg)
	if err != nil {
		return 0, err
	}
	msgs, err := readMessages(r, cfg.Input)
	if err != nil {
		return 0, err
	}
	logger.Debug().Str("dialect", d.Name()).Int("messages", len(msgs)).Msg("decoding")

	p := iso8583.NewProcessor(d,
		iso8583.WithConcurrency(cfg.Concurrency),
		iso8583.WithLogger(nil),
		iso8583.WithErrorHandler(func(err error) {
			logger.Warn().Err(err).Msg("decode failed")
		}),
	)

	results, batchErr := p.ProcessBatch(ctx, msgs)
	if results == nil && batchErr != nil {
		return 0, batchErr
	}

	failed := 0
	for i, msg := range results {
		if msg == nil {
			failed++
			continue
		}
		ev := logger.Info().Int("index", i).Int("bytes", msg.PackedLength()).Object("iso", msg)
		if cfg.Dump {
			ev = ev.Str("dump", iso8583.DebugDump(msgs[i]))
		}
		ev.Msg("decoded")
	}
	return failed, nil
}
