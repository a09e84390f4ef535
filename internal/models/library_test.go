package models

import "testing"

// TestValidateRequiresName verifies every library record needs a name.
func TestValidateRequiresName(t *testing.T) {
	if msg := (Client{Name: "  "}).Validate(); msg == "" {
		t.Error("blank client name accepted")
	}
	if msg := (Exercise{}).Validate(); msg == "" {
		t.Error("blank exercise name accepted")
	}
	if msg := (Tool{}).Validate(); msg == "" {
		t.Error("blank tool name accepted")
	}
	if msg := (Tool{Name: "Kettlebell"}).Validate(); msg != "" {
		t.Errorf("valid tool rejected: %s", msg)
	}
}
