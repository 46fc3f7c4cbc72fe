package ledger

func Uint(value uint64) Value {
	return Value{Kind: KindUint, Uint: value}
}

func Bool(value bool) Value {
	return Value{Kind: KindBool, Bool: value}
}

func ASCII(value string) Value {
	return Value{Kind: KindASCII, Text: value}
}

func UTF8(value string) Value {
	return Value{Kind: KindUTF8, Text: value}
}

func None() Value {
	return Value{Kind: KindNone}
}

func Record(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return Value{Kind: KindRecord, Fields: copied}
}
