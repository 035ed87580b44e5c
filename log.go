package iso8583

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// logValue renders a field for logs. Cardholder data in a top-level message
// is masked; sub-message field numbers have their own meaning and are not.
func (m *Message) logValue(field int, value string) string {
	if m.dialect.messageType == MessageTypeNone {
		return value
	}
	switch field {
	case FieldPAN:
		return MaskPAN(value)
	case FieldTrack2:
		if i := strings.IndexAny(value, "=Dd"); i >= 0 {
			return MaskPAN(value[:i]) + value[i:i+1] + strings.Repeat("*", len(value)-i-1)
		}
		return MaskPAN(value)
	case 52:
		return strings.Repeat("*", len(value))
	}
	return value
}

// LogValue implements slog.LogValuer.
func (m *Message) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 3)
	attrs = append(attrs, slog.String("dialect", m.dialect.name))
	if m.mti != "" {
		attrs = append(attrs, slog.String("mti", m.mti))
	}

	fields := m.Fields()
	fieldAttrs := make([]any, 0, len(fields))
	for _, n := range fields {
		key := strconv.Itoa(n)
		c := m.fields[n]
		switch c.kind {
		case KindNested:
			fieldAttrs = append(fieldAttrs, slog.Any(key, c.sub))
		case KindStructured:
			entries := make([]any, 0, c.structured.Len())
			for _, e := range c.structured.entries {
				entries = append(entries, slog.String(e.Tag, e.Value))
			}
			fieldAttrs = append(fieldAttrs, slog.Group(key, entries...))
		default:
			fieldAttrs = append(fieldAttrs, slog.String(key, m.logValue(n, c.scalar)))
		}
	}
	attrs = append(attrs, slog.Group("fields", fieldAttrs...))
	return slog.GroupValue(attrs...)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler, so a message can
// be attached with logger.Info().Object("msg", m).
func (m *Message) MarshalZerologObject(e *zerolog.Event) {
	e.Str("dialect", m.dialect.name)
	if m.mti != "" {
		e.Str("mti", m.mti)
	}
	e.Object("fields", zerologFields{m})
}

type zerologFields struct{ m *Message }

func (f zerologFields) MarshalZerologObject(e *zerolog.Event) {
	for _, n := range f.m.Fields() {
		key := strconv.Itoa(n)
		c := f.m.fields[n]
		switch c.kind {
		case KindNested:
			e.Object(key, c.sub)
		case KindStructured:
			e.Object(key, c.structured)
		default:
			e.Str(key, f.m.logValue(n, c.scalar))
		}
	}
}

func (sd *StructuredData) MarshalZerologObject(e *zerolog.Event) {
	for _, entry := range sd.entries {
		e.Str(entry.Tag, entry.Value)
	}
}
