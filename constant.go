package iso8583

// Well-known field numbers.
const (
	FieldPAN                  = 2
	FieldProcessingCode       = 3
	FieldAmount               = 4
	FieldTransmissionDateTime = 7
	FieldSTAN                 = 11
	FieldTrack2               = 35
	FieldRRN                  = 37
	FieldResponseCode         = 39
	FieldTerminalID           = 41
	FieldMerchantID           = 42
	FieldCurrency             = 49
	FieldPrivate              = 127
)

// Common Message Type Indicators.
const (
	MTIAuthorizationRequest  = "0100"
	MTIAuthorizationResponse = "0110"
	MTIFinancialRequest      = "0200"
	MTIFinancialResponse     = "0210"
	MTIReversalRequest       = "0420"
	MTIReversalResponse      = "0430"
	MTINetworkRequest        = "0800"
	MTINetworkResponse       = "0810"
	MTIFinancialRequest93    = "1200"
	MTIFinancialResponse93   = "1210"
	MTINetworkRequest93      = "1804"
	MTINetworkResponse93     = "1814"
)

// Field 1 and 65 are bitmap continuation bits and never appear here.
func base1987Fields() map[int]*FieldDescriptor {
	return map[int]*FieldDescriptor{
		2:  LLVarN(19).Named("Primary account number"),
		3:  FixedN(6).Named("Processing code"),
		4:  FixedN(12).Named("Amount, transaction"),
		5:  FixedN(12).Named("Amount, settlement"),
		6:  FixedN(12).Named("Amount, cardholder billing"),
		7:  FixedN(10).Named("Transmission date and time"), // MMDDhhmmss
		8:  FixedN(8).Named("Amount, cardholder billing fee"),
		9:  FixedN(8).Named("Conversion rate, settlement"),
		10: FixedN(8).Named("Conversion rate, cardholder billing"),
		11: FixedN(6).Named("System trace audit number"),
		12: FixedN(6).Named("Time, local transaction"), // hhmmss
		13: FixedN(4).Named("Date, local transaction"), // MMDD
		14: FixedN(4).Named("Date, expiration"),
		15: FixedN(4).Named("Date, settlement"),
		16: FixedN(4).Named("Date, conversion"),
		17: FixedN(4).Named("Date, capture"),
		18: FixedN(4).Named("Merchant type"),
		19: FixedN(3).Named("Acquiring institution country code"),
		20: FixedN(3).Named("PAN extended, country code"),
		21: FixedN(3).Named("Forwarding institution country code"),
		22: FixedN(3).Named("Point of service entry mode"),
		23: FixedN(3).Named("Card sequence number"),
		24: FixedN(3).Named("Network international identifier"),
		25: FixedN(2).Named("Point of service condition code"),
		26: FixedN(2).Named("Point of service PIN capture code"),
		27: FixedN(1).Named("Authorization identification response length"),
		28: FixedAN(9).Named("Amount, transaction fee"), // x+n 8
		29: FixedAN(9).Named("Amount, settlement fee"),
		30: FixedAN(9).Named("Amount, transaction processing fee"),
		31: FixedAN(9).Named("Amount, settlement processing fee"),
		32: LLVarN(11).Named("Acquiring institution identification code"),
		33: LLVarN(11).Named("Forwarding institution identification code"),
		34: LLVarANS(28).Named("Primary account number, extended"),
		35: LLVarZ(37).Named("Track 2 data"),
		36: LLLVarZ(104).Named("Track 3 data"),
		37: FixedANS(12).Named("Retrieval reference number"),
		38: FixedANS(6).Named("Authorization identification response"),
		39: FixedANS(2).Named("Response code"),
		40: FixedANS(3).Named("Service restriction code"),
		41: FixedANS(8).Named("Card acceptor terminal identification"),
		42: FixedANS(15).Named("Card acceptor identification code"),
		43: FixedANS(40).Named("Card acceptor name/location"),
		44: LLVarANS(25).Named("Additional response data"),
		45: LLVarANS(76).Named("Track 1 data"),
		46: LLLVarANS(999).Named("Additional data, ISO"),
		47: LLLVarANS(999).Named("Additional data, national"),
		48: LLLVarANS(999).Named("Additional data, private"),
		49: FixedANS(3).Named("Currency code, transaction"),
		50: FixedANS(3).Named("Currency code, settlement"),
		51: FixedANS(3).Named("Currency code, cardholder billing"),
		52: FixedB(8).Named("PIN data"),
		53: FixedN(16).Named("Security related control information"),
		54: LLLVarANS(120).Named("Additional amounts"),
		55: LLLVarB(999).Named("ICC data"),
		56: LLLVarANS(999).Named("Reserved ISO"),
		57: LLLVarANS(999).Named("Reserved national"),
		58: LLLVarANS(999).Named("Reserved national"),
		59: LLLVarANS(999).Named("Reserved national"),
		60: LLLVarANS(999).Named("Reserved private"),
		61: LLLVarANS(999).Named("Reserved private"),
		62: LLLVarANS(999).Named("Reserved private"),
		63: LLLVarANS(999).Named("Reserved private"),
		64: FixedB(8).Named("Message authentication code"),

		66:  FixedN(1).Named("Settlement code"),
		67:  FixedN(2).Named("Extended payment code"),
		68:  FixedN(3).Named("Receiving institution country code"),
		69:  FixedN(3).Named("Settlement institution country code"),
		70:  FixedN(3).Named("Network management information code"),
		71:  FixedN(4).Named("Message number"),
		72:  FixedN(4).Named("Message number, last"),
		73:  FixedN(6).Named("Date, action"), // YYMMDD
		74:  FixedN(10).Named("Credits, number"),
		75:  FixedN(10).Named("Credits, reversal number"),
		76:  FixedN(10).Named("Debits, number"),
		77:  FixedN(10).Named("Debits, reversal number"),
		78:  FixedN(10).Named("Transfer, number"),
		79:  FixedN(10).Named("Transfer, reversal number"),
		80:  FixedN(10).Named("Inquiries, number"),
		81:  FixedN(10).Named("Authorizations, number"),
		82:  FixedN(12).Named("Credits, processing fee amount"),
		83:  FixedN(12).Named("Credits, transaction fee amount"),
		84:  FixedN(12).Named("Debits, processing fee amount"),
		85:  FixedN(12).Named("Debits, transaction fee amount"),
		86:  FixedN(16).Named("Credits, amount"),
		87:  FixedN(16).Named("Credits, reversal amount"),
		88:  FixedN(16).Named("Debits, amount"),
		89:  FixedN(16).Named("Debits, reversal amount"),
		90:  FixedN(42).Named("Original data elements"),
		91:  FixedANS(1).Named("File update code"),
		92:  FixedANS(2).Named("File security code"),
		93:  FixedANS(5).Named("Response indicator"),
		94:  FixedANS(7).Named("Service indicator"),
		95:  FixedANS(42).Named("Replacement amounts"),
		96:  FixedB(8).Named("Message security code"),
		97:  FixedAN(17).Named("Amount, net settlement"), // x+n 16
		98:  FixedANS(25).Named("Payee"),
		99:  LLVarN(11).Named("Settlement institution identification code"),
		100: LLVarN(11).Named("Receiving institution identification code"),
		101: LLVarANS(17).Named("File name"),
		102: LLVarANS(28).Named("Account identification 1"),
		103: LLVarANS(28).Named("Account identification 2"),
		104: LLLVarANS(100).Named("Transaction description"),
		105: LLLVarANS(999).Named("Reserved ISO"),
		106: LLLVarANS(999).Named("Reserved ISO"),
		107: LLLVarANS(999).Named("Reserved ISO"),
		108: LLLVarANS(999).Named("Reserved ISO"),
		109: LLLVarANS(999).Named("Reserved ISO"),
		110: LLLVarANS(999).Named("Reserved ISO"),
		111: LLLVarANS(999).Named("Reserved ISO"),
		112: LLLVarANS(999).Named("Reserved national"),
		113: LLLVarANS(999).Named("Reserved national"),
		114: LLLVarANS(999).Named("Reserved national"),
		115: LLLVarANS(999).Named("Reserved national"),
		116: LLLVarANS(999).Named("Reserved national"),
		117: LLLVarANS(999).Named("Reserved national"),
		118: LLLVarANS(999).Named("Reserved national"),
		119: LLLVarANS(999).Named("Reserved national"),
		120: LLLVarANS(999).Named("Reserved private"),
		121: LLLVarANS(999).Named("Reserved private"),
		122: LLLVarANS(999).Named("Reserved private"),
		123: LLLVarANS(999).Named("Reserved private"),
		124: LLLVarANS(999).Named("Reserved private"),
		125: LLLVarANS(999).Named("Reserved private"),
		126: LLLVarANS(999).Named("Reserved private"),
		127: LLLVarANS(999).Named("Reserved private"),
		128: FixedB(8).Named("Message authentication code"),
	}
}

// Fields that changed meaning or format in the 1993 revision. Everything
// else is inherited from the 1987 table.
func rev93Fields() map[int]*FieldDescriptor {
	return map[int]*FieldDescriptor{
		12: FixedN(12).Named("Date and time, local transaction"), // YYMMDDhhmmss
		22: FixedAN(12).Named("Point of service data code"),
		24: FixedN(3).Named("Function code"),
		25: FixedN(4).Named("Message reason code"),
		26: FixedN(4).Named("Card acceptor business code"),
		28: FixedN(6).Named("Date, reconciliation"),
		29: FixedN(3).Named("Reconciliation indicator"),
		30: FixedN(24).Named("Amounts, original"),
		31: LLVarANS(99).Named("Acquirer reference data"),
		37: FixedANS(12).Named("Retrieval reference number"),
		39: FixedN(3).Named("Action code"),
		43: LLVarANS(99).Named("Card acceptor name/location"),
		44: LLVarANS(99).Named("Additional response data"),
		46: LLLVarANS(204).Named("Amounts, fees"),
		53: LLVarB(48).Named("Security related control information"),
		55: LLLVarB(255).Named("ICC system related data"),
		56: LLVarN(35).Named("Original data elements"),
		57: FixedN(3).Named("Authorization life cycle code"),
		58: LLVarN(11).Named("Authorizing agent institution identification code"),
		72: LLLVarANS(999).Named("Data record"),
		73: FixedN(6).Named("Date, action"),
	}
}
