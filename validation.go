package iso8583

import (
	"fmt"
	"regexp"
	"strconv"
)

// Validator checks a field's content before it is encoded.
type Validator interface {
	Validate(value string) error
	Name() string // Returns the name of the rule (e.g., "numeric")
}

var (
	Numeric             Validator = &NumericRule{AllowLeadingZeros: true}
	AlphaNumeric        Validator = &AlphanumericRule{}
	AlphaNumericSpecial Validator = &AlphanumericRule{AllowSpecialChars: true}
	Hex                 Validator = &HexRule{RequireEvenLength: true}
	Track2              Validator = &TrackDataRule{}
)

// --- Validation Rule Implementations ---

// NumericRule validates that the field contains only numeric digits.
type NumericRule struct {
	AllowLeadingZeros bool
}

func (r *NumericRule) Name() string {
	return "numeric"
}

func (r *NumericRule) Validate(value string) error {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return fmt.Errorf("non-numeric character at position %d", i)
		}
	}

	if !r.AllowLeadingZeros && len(value) > 1 && value[0] == '0' {
		return fmt.Errorf("leading zeros not allowed")
	}

	return nil
}

// AlphanumericRule validates alphanumeric content.
type AlphanumericRule struct {
	AllowSpecialChars bool   // If true, allows any printable ASCII. If false, only [0-9a-zA-Z ].
	CustomCharset     string // If set, validates against this specific charset.
}

func (r *AlphanumericRule) Name() string {
	if r.AllowSpecialChars {
		return "alphanumeric_special"
	}
	return "alphanumeric"
}

func (r *AlphanumericRule) Validate(value string) error {
	for i := 0; i < len(value); i++ {
		b := value[i]
		switch {
		case r.CustomCharset != "":
			found := false
			for j := 0; j < len(r.CustomCharset); j++ {
				if r.CustomCharset[j] == b {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("invalid character at position %d", i)
			}
		case r.AllowSpecialChars:
			if b < 32 || b > 126 {
				return fmt.Errorf("non-printable character at position %d", i)
			}
		default:
			if !((b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == ' ') {
				return fmt.Errorf("special character not allowed at position %d", i)
			}
		}
	}
	return nil
}

// HexRule validates hex-encoded binary data.
type HexRule struct {
	RequireEvenLength bool
}

func (r *HexRule) Name() string {
	return "hex"
}

func (r *HexRule) Validate(value string) error {
	for i := 0; i < len(value); i++ {
		if _, ok := hexNibble(value[i]); !ok {
			return fmt.Errorf("non-hex character at position %d", i)
		}
	}
	if r.RequireEvenLength && len(value)%2 != 0 {
		return fmt.Errorf("hex data must have even length")
	}
	return nil
}

// RegexRule validates the field against a regular expression.
type RegexRule struct {
	Description string // User-friendly error message
	regex       *regexp.Regexp
}

// NewRegexRule compiles pattern once so the rule can be shared between goroutines.
func NewRegexRule(pattern, description string) (*RegexRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidConfig, pattern, err)
	}
	return &RegexRule{Description: description, regex: re}, nil
}

func (r *RegexRule) Name() string {
	return "regex"
}

func (r *RegexRule) Validate(value string) error {
	if !r.regex.MatchString(value) {
		if r.Description != "" {
			return fmt.Errorf("%s", r.Description)
		}
		return fmt.Errorf("does not match pattern %s", r.regex.String())
	}
	return nil
}

// RangeRule validates that a numeric field's value is within a given range.
type RangeRule struct {
	Min int64
	Max int64
}

func (r *RangeRule) Name() string {
	return "range"
}

func (r *RangeRule) Validate(value string) error {
	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot parse as integer: %v", err)
	}
	if val < r.Min {
		return fmt.Errorf("value %d below minimum %d", val, r.Min)
	}
	if val > r.Max {
		return fmt.Errorf("value %d exceeds maximum %d", val, r.Max)
	}
	return nil
}

// CustomRule allows defining an arbitrary validation function.
type CustomRule struct {
	ValidateFunc func(string) error
	RuleName     string
}

func (r *CustomRule) Name() string {
	return r.RuleName
}

func (r *CustomRule) Validate(value string) error {
	return r.ValidateFunc(value)
}

// TrackDataRule validates the track 2 code set: digits, the 'D' or '='
// separator and the '?' / ';' sentinels.
type TrackDataRule struct{}

func (r *TrackDataRule) Name() string {
	return "track_data"
}

func (r *TrackDataRule) Validate(value string) error {
	for i := 0; i < len(value); i++ {
		b := value[i]
		if (b >= '0' && b <= '9') || b == '=' || b == 'D' || b == 'd' || b == '?' || b == ';' {
			continue
		}
		return fmt.Errorf("invalid track 2 character at position %d", i)
	}
	return nil
}

// validatorFor returns the default content rule for a field type.
func validatorFor(ft FieldType) Validator {
	switch ft {
	case FieldTypeN, FieldTypeBCD:
		return Numeric
	case FieldTypeAN:
		return AlphaNumeric
	case FieldTypeANS:
		return AlphaNumericSpecial
	case FieldTypeB:
		return Hex
	case FieldTypeZ:
		return Track2
	}
	return nil
}
