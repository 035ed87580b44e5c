package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger writes human readable records to out. Decode failures are
// reported from several goroutines, so out is wrapped in a SyncWriter.
func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(out),
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "isodump").Logger()
}
