package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Kind string

const (
	KindNone   Kind = "none"
	KindUint   Kind = "uint"
	KindBool   Kind = "bool"
	KindASCII  Kind = "ascii"
	KindUTF8   Kind = "utf8"
	KindRecord Kind = "record"
)

// Value is a typed call argument or receipt payload.
type Value struct {
	Kind   Kind             `json:"kind" yaml:"kind"`
	Uint   uint64           `json:"uint,omitempty" yaml:"uint,omitempty"`
	Bool   bool             `json:"bool,omitempty" yaml:"bool,omitempty"`
	Text   string           `json:"text,omitempty" yaml:"text,omitempty"`
	Fields map[string]Value `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func (v Value) IsNone() bool {
	return v.Kind == "" || v.Kind == KindNone
}

func (v Value) ExpectUint() (uint64, error) {
	if v.Kind != KindUint {
		return 0, fmt.Errorf("ledger: expected uint, got %s", v.kindName())
	}
	return v.Uint, nil
}

func (v Value) ExpectBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("ledger: expected bool, got %s", v.kindName())
	}
	return v.Bool, nil
}

func (v Value) ExpectASCII() (string, error) {
	if v.Kind != KindASCII {
		return "", fmt.Errorf("ledger: expected ascii, got %s", v.kindName())
	}
	return v.Text, nil
}

func (v Value) ExpectUTF8() (string, error) {
	if v.Kind != KindUTF8 {
		return "", fmt.Errorf("ledger: expected utf8, got %s", v.kindName())
	}
	return v.Text, nil
}

func (v Value) ExpectRecord() (map[string]Value, error) {
	if v.Kind != KindRecord {
		return nil, fmt.Errorf("ledger: expected record, got %s", v.kindName())
	}
	return v.Fields, nil
}

// String renders v in a compact literal form: u5, true, "abc", u"abc",
// none and {key: value, ...} with keys sorted.
func (v Value) String() string {
	switch v.Kind {
	case KindUint:
		return "u" + strconv.FormatUint(v.Uint, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindASCII:
		return strconv.Quote(v.Text)
	case KindUTF8:
		return "u" + strconv.Quote(v.Text)
	case KindRecord:
		keys := make([]string, 0, len(v.Fields))
		for key := range v.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+v.Fields[key].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "none"
	}
}

func (v Value) kindName() string {
	if v.Kind == "" {
		return string(KindNone)
	}
	return string(v.Kind)
}
