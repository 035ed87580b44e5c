package iso8583

import (
	"fmt"
	"strconv"
	"time"
)

// transmissionLayout is the MMDDhhmmss layout of field 7.
const transmissionLayout = "0102150405"

func (m *Message) PAN() string {
	v, _ := m.Get(FieldPAN)
	return v
}

func (m *Message) SetPAN(pan string) error {
	return m.Set(FieldPAN, pan)
}

func (m *Message) ProcessingCode() string {
	v, _ := m.Get(FieldProcessingCode)
	return v
}

func (m *Message) SetProcessingCode(code string) error {
	return m.Set(FieldProcessingCode, code)
}

// Amount returns field 4 in minor currency units.
func (m *Message) Amount() (int64, error) {
	v, ok := m.Get(FieldAmount)
	if !ok {
		return 0, &FieldError{Field: FieldAmount, Err: fmt.Errorf("not present")}
	}
	amount, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: FieldAmount, Err: fmt.Errorf("%w: %v", ErrInvalidFieldContent, err)}
	}
	return amount, nil
}

// SetAmount writes field 4 as a zero-padded 12 digit amount.
func (m *Message) SetAmount(minor int64) error {
	if minor < 0 || minor > 999999999999 {
		return &FieldError{Field: FieldAmount, Err: fmt.Errorf("%w: amount %d", ErrFieldOutOfRange, minor)}
	}
	return m.Set(FieldAmount, fmt.Sprintf("%012d", minor))
}

// TransmissionDateTime parses field 7 (MMDDhhmmss, UTC). The year is taken
// from now, so callers near a year boundary should adjust it themselves.
func (m *Message) TransmissionDateTime() (time.Time, error) {
	v, ok := m.Get(FieldTransmissionDateTime)
	if !ok {
		return time.Time{}, &FieldError{Field: FieldTransmissionDateTime, Err: fmt.Errorf("not present")}
	}
	t, err := transmissionTime(v, time.Now().UTC().Year())
	if err != nil {
		return time.Time{}, &FieldError{Field: FieldTransmissionDateTime, Err: err}
	}
	return t, nil
}

// transmissionTime parses an MMDDhhmmss value within year. A date that does
// not exist in that year, such as 0229 outside a leap year, is rejected.
func transmissionTime(v string, year int) (time.Time, error) {
	t, err := time.ParseInLocation("2006"+transmissionLayout, fmt.Sprintf("%04d", year)+v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFieldContent, err)
	}
	return t, nil
}

func (m *Message) SetTransmissionDateTime(t time.Time) error {
	return m.Set(FieldTransmissionDateTime, t.UTC().Format(transmissionLayout))
}

func (m *Message) STAN() string {
	v, _ := m.Get(FieldSTAN)
	return v
}

func (m *Message) SetSTAN(stan string) error {
	return m.Set(FieldSTAN, stan)
}

func (m *Message) RRN() string {
	v, _ := m.Get(FieldRRN)
	return v
}

func (m *Message) SetRRN(rrn string) error {
	return m.Set(FieldRRN, rrn)
}

func (m *Message) ResponseCode() string {
	v, _ := m.Get(FieldResponseCode)
	return v
}

func (m *Message) SetResponseCode(code string) error {
	return m.Set(FieldResponseCode, code)
}

func (m *Message) TerminalID() string {
	v, _ := m.Get(FieldTerminalID)
	return v
}

func (m *Message) SetTerminalID(id string) error {
	return m.Set(FieldTerminalID, id)
}

func (m *Message) MerchantID() string {
	v, _ := m.Get(FieldMerchantID)
	return v
}

func (m *Message) SetMerchantID(id string) error {
	return m.Set(FieldMerchantID, id)
}

func (m *Message) Currency() string {
	v, _ := m.Get(FieldCurrency)
	return v
}

func (m *Message) SetCurrency(code string) error {
	return m.Set(FieldCurrency, code)
}
