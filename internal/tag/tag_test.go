package tag

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		tokens        []string
		wantTags      []string
		clientVisible bool
		carryForward  bool
	}{
		{"shortcut", []string{"cr"}, []string{ClientReport}, true, false},
		{"full name", []string{"client-report"}, []string{ClientReport}, true, false},
		{"mixed case", []string{"CR", "Cf"}, []string{ClientReport, CarryForward}, true, true},
		{"duplicates collapse", []string{"cr", "client-report", "cr"}, []string{ClientReport}, true, false},
		{"order preserved", []string{"blk", "ilo", "cf"}, []string{Blocker, InternalOnly, CarryForward}, false, true},
		{"empty defaults internal", nil, []string{InternalOnly}, false, false},
		{"info only not client visible", []string{"ifo"}, []string{InfoOnly}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.tokens)
			if err != nil {
				t.Fatalf("Classify(%v): %v", tt.tokens, err)
			}
			if !reflect.DeepEqual(got.Tags, tt.wantTags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.wantTags)
			}
			if got.IsClientVisible != tt.clientVisible {
				t.Errorf("IsClientVisible = %v, want %v", got.IsClientVisible, tt.clientVisible)
			}
			if got.IsCarryForward != tt.carryForward {
				t.Errorf("IsCarryForward = %v, want %v", got.IsCarryForward, tt.carryForward)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	first, err := Classify([]string{"cr", "CF", "blk", "cr"})
	if err != nil {
		t.Fatalf("first Classify: %v", err)
	}
	second, err := Classify(first.Tags)
	if err != nil {
		t.Fatalf("second Classify: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassifyRejectsUnknownToken(t *testing.T) {
	got, err := Classify([]string{"cr", "typo", "cf"})
	if err == nil {
		t.Fatal("expected error for unknown token")
	}

	var tagErr *InvalidTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("error type = %T, want *InvalidTagError", err)
	}
	if tagErr.Token != "typo" {
		t.Errorf("Token = %q, want %q", tagErr.Token, "typo")
	}

	// Atomic: no partial normalization on failure.
	if len(got.Tags) != 0 {
		t.Errorf("partial result returned: %v", got.Tags)
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantClean  string
		wantTokens []string
	}{
		{"two tags", "Fixed bug #ilo #cf", "Fixed bug", []string{"ilo", "cf"}},
		{"no tags", "Meeting notes", "Meeting notes", nil},
		{"tag mid-text", "Shipped #cr the fix", "Shipped the fix", []string{"cr"}},
		{"uppercase lowered", "Done #CR", "Done", []string{"cr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, tokens := Extract(tt.text)
			if clean != tt.wantClean {
				t.Errorf("clean = %q, want %q", clean, tt.wantClean)
			}
			if !reflect.DeepEqual(tokens, tt.wantTokens) {
				t.Errorf("tokens = %v, want %v", tokens, tt.wantTokens)
			}
		})
	}
}

func TestFormatTags(t *testing.T) {
	got := FormatTags([]string{InternalOnly, CarryForward})
	want := "[internal-only] [carry-forward]"
	if got != want {
		t.Errorf("FormatTags = %q, want %q", got, want)
	}
	if FormatTags(nil) != "" {
		t.Errorf("FormatTags(nil) should be empty")
	}
}
