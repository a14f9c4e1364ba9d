package enums

import "testing"

func TestParsePayMethod(t *testing.T) {
	for _, method := range PayMethods() {
		parsed, err := ParsePayMethod(method.String())
		if err != nil {
			t.Fatalf("ParsePayMethod(%q): %v", method, err)
		}
		if parsed != method {
			t.Fatalf("round trip changed %q to %q", method, parsed)
		}
	}
}

func TestParsePayMethodRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "barter", "CASH "} {
		if _, err := ParsePayMethod(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
