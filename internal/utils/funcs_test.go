package utils

import "testing"

func TestIsIn(t *testing.T) {
	arr := []string{"postgres", "neon", "dolt"}
	if !IsIn("neon", arr) {
		t.Error("expected neon to be found")
	}
	if IsIn("mysql", arr) {
		t.Error("did not expect mysql to be found")
	}
	if IsIn("postgres", nil) {
		t.Error("empty slice contains nothing")
	}
}
