package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateOK(t *testing.T) {
	req := &ScanRequest{Reference: "some reference text", Suspect: "some suspect text"}
	if err := Validate(req); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name      string
		req       ScanRequest
		wantField string
	}{
		{"missing reference", ScanRequest{Suspect: "x"}, "reference"},
		{"missing suspect", ScanRequest{Reference: "x"}, "suspect"},
		{"whitespace only", ScanRequest{Reference: "   ", Suspect: "x"}, "reference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields = %v, want entry for %q", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestValidateBothMissing(t *testing.T) {
	err := Validate(&ScanRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("want both fields reported, got %v", verr.Fields)
	}
}

func TestValidateOversizedDocument(t *testing.T) {
	big := strings.Repeat("a", MaxDocumentBytes+1)
	err := Validate(&ScanRequest{Reference: big, Suspect: "ok"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["reference"]; !ok {
		t.Errorf("oversized reference not reported: %v", verr.Fields)
	}

	atLimit := strings.Repeat("a", MaxDocumentBytes)
	if err := Validate(&ScanRequest{Reference: atLimit, Suspect: "ok"}); err != nil {
		t.Errorf("document at the limit should pass: %v", err)
	}
}
