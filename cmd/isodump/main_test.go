package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	iso8583 "github.com/mkadit/openiso8583"
)

func packedHex(t *testing.T) string {
	t.Helper()
	m := iso8583.NewMessage(iso8583.Base, iso8583.WithMTI(iso8583.MTIFinancialRequest))
	if err := m.SetPAN("4761739001010010"); err != nil {
		t.Fatalf("set pan: %v", err)
	}
	if err := m.SetSTAN("000042"); err != nil {
		t.Fatalf("set stan: %v", err)
	}
	data, err := m.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return iso8583.ToHex(data)
}

func TestReadMessagesHex(t *testing.T) {
	in := strings.NewReader("# capture\n\n30323030\n  3038 FF \n")
	msgs, err := readMessages(in, "hex")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(msgs) != 2 || string(msgs[0]) != "0200" || !bytes.Equal(msgs[1], []byte{0x30, 0x38, 0xFF}) {
		t.Fatalf("unexpected messages: %q", msgs)
	}

	if _, err := readMessages(strings.NewReader("3032\nzz\n"), "hex"); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("bad hex: got %v", err)
	}

	raw, err := readMessages(strings.NewReader("0200\n"), "raw")
	if err != nil || len(raw) != 1 || string(raw[0]) != "0200\n" {
		t.Fatalf("raw: %q %v", raw, err)
	}
}

func TestRunLogsDecodedMessages(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&out))

	cfg := defaultConfig()
	cfg.Dump = true
	input := packedHex(t) + "\n30323030\n"

	failed, err := run(context.Background(), cfg, strings.NewReader(input), logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if failed != 1 {
		t.Fatalf("failed: got %d want 1", failed)
	}

	logs := out.String()
	if strings.Contains(logs, "4761739001010010") {
		t.Fatalf("PAN leaked: %s", logs)
	}
	for _, want := range []string{`"message":"decoded"`, `"2":"476173xxxxxx0010"`, `"11":"000042"`, `"dump":`, `"message":"decode failed"`, `message 1: `} {
		if !strings.Contains(logs, want) {
			t.Fatalf("missing %s in %s", want, logs)
		}
	}
}

func TestRunRejectsUnknownDialect(t *testing.T) {
	cfg := defaultConfig()
	cfg.Dialect = "visa"
	if _, err := run(context.Background(), cfg, strings.NewReader(""), zerolog.Nop()); err == nil {
		t.Fatalf("expected unknown dialect error")
	}
}
