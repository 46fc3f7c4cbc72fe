package ledger

import "testing"

func TestValueExpectations(t *testing.T) {
	if got, err := Uint(7).ExpectUint(); err != nil || got != 7 {
		t.Fatalf("expected u7, got %d (%v)", got, err)
	}
	if _, err := Bool(true).ExpectUint(); err == nil {
		t.Fatalf("expected bool to fail ExpectUint")
	}
	if _, err := ASCII("a").ExpectUTF8(); err == nil {
		t.Fatalf("ascii and utf8 must be distinct kinds")
	}
	if !None().IsNone() || !(Value{}).IsNone() {
		t.Fatalf("expected zero value to be none")
	}
}

func TestValueString(t *testing.T) {
	cases := map[string]Value{
		"u5":              Uint(5),
		"true":            Bool(true),
		`"STX"`:           ASCII("STX"),
		`u"héllo"`:        UTF8("héllo"),
		"none":            None(),
		`{a: u1, b: "x"}`: Record(map[string]Value{"b": ASCII("x"), "a": Uint(1)}),
	}
	for want, value := range cases {
		if got := value.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestResultExpectations(t *testing.T) {
	ok := Ok(Bool(true))
	if _, err := ok.ExpectErr(); err == nil {
		t.Fatalf("expected ExpectErr to fail on ok result")
	}
	if ok.String() != "(ok true)" {
		t.Fatalf("unexpected rendering %s", ok)
	}

	failed := Err(nil)
	if failed.IsOk() {
		t.Fatalf("expected err result")
	}
	if _, err := failed.ExpectOk(); err == nil {
		t.Fatalf("expected ExpectOk to fail on err result")
	}
	if failed.Failure() == nil {
		t.Fatalf("expected nil error to be replaced with an envelope")
	}
}
