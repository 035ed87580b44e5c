package iso8583

// Built-in dialects. They are immutable and shared by every message that
// uses them; derive variants with Extend.
var (
	// Base is ISO 8583:1987 with an ASCII MTI and a binary bitmap.
	Base = NewDialect("iso8583-1987",
		WithMessageType(MessageTypeASCII),
		WithBitmapEncoding(BitmapEncodingBinary),
		WithFields(base1987Fields()),
	)

	// Rev93 is ISO 8583:1993.
	Rev93 = Base.Extend("iso8583-1993", WithFields(rev93Fields()))

	// PostilionPrivate is the sub-message carried in Postilion field 127.
	// It has no MTI and a single 64-bit bitmap.
	PostilionPrivate = NewDialect("postilion-private",
		WithMessageType(MessageTypeNone),
		WithBitmapBlocks(1),
		WithFields(postilionPrivateFields()),
	)

	// Postilion is Base with field 127 holding a PostilionPrivate sub-message.
	Postilion = Base.Extend("postilion",
		WithField(FieldPrivate, NestedField(6, 999999, PostilionPrivate).Named("Postilion private data")),
	)

	// TermApp is Rev93 as spoken by terminal applications: the MTI is
	// preceded by 'A' (hex bitmap) or 'B' (binary bitmap).
	TermApp = Rev93.Extend("termapp",
		WithBitmapIndicator(true),
		WithField(48, StructuredField(4, 9999, StructuredBinary).Named("Additional data, structured")),
		WithField(53, Variable(2, 96, Binary, Hex).Named("Security related control information")),
	)
)

// BuiltinDialect looks a built-in dialect up by name.
func BuiltinDialect(name string) (*Dialect, bool) {
	for _, d := range []*Dialect{Base, Rev93, PostilionPrivate, Postilion, TermApp} {
		if d.name == name {
			return d, true
		}
	}
	return nil, false
}

func postilionPrivateFields() map[int]*FieldDescriptor {
	return map[int]*FieldDescriptor{
		2:  LLVarANS(32).Named("Switch key"),
		3:  FixedANS(48).Named("Routing information"),
		4:  FixedANS(22).Named("POS data"),
		5:  FixedANS(73).Named("Service station data"),
		6:  FixedN(2).Named("Authorization profile"),
		7:  LLVarANS(50).Named("Check data"),
		8:  LLLVarANS(999).Named("Retention data"),
		9:  LLLVarANS(255).Named("Additional node data"),
		10: FixedN(3).Named("CVV2"),
		11: LLVarANS(32).Named("Original key"),
		12: LLVarANS(25).Named("Terminal owner"),
		13: FixedANS(17).Named("POS geographic data"),
		14: FixedANS(8).Named("Sponsor bank"),
		15: LLVarANS(29).Named("Address verification data"),
		16: FixedANS(1).Named("Address verification result"),
		17: LLVarANS(50).Named("Cardholder information"),
		18: LLVarANS(50).Named("Validation data"),
		19: FixedANS(31).Named("Bank details"),
		20: FixedN(8).Named("Authorizer date settlement"),
		21: LLVarANS(12).Named("Record identification"),
		22: StructuredField(5, 99999, StructuredDigits).Named("Structured data"),
		23: FixedANS(253).Named("Payee name and address"),
		24: LLVarANS(28).Named("Payer account"),
		25: Variable(4, 9999, ASCII, AlphaNumericSpecial).Named("ICC data"),
		26: LLVarANS(12).Named("Original node"),
		27: FixedANS(1).Named("Card verification result"),
		28: FixedN(4).Named("American Express card identifier"),
		29: FixedB(40).Named("3-D Secure data"),
		30: FixedANS(1).Named("3-D Secure result"),
		31: LLVarANS(11).Named("Issuer network ID"),
		32: LLVarB(33).Named("UCAF data"),
		33: FixedN(4).Named("Extended transaction type"),
		34: FixedN(2).Named("Account type qualifiers"),
		35: LLVarANS(11).Named("Acquirer network ID"),
		36: LLVarANS(25).Named("Customer ID"),
		37: FixedAN(4).Named("Extended response code"),
		38: LLVarANS(99).Named("Additional POS data code"),
		39: FixedAN(2).Named("Original response code"),
	}
}
