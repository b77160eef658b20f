// Package validator checks incoming scan requests before they reach the
// engine.
package validator

import (
	"fmt"
	"strings"
)

// MaxDocumentBytes bounds each submitted document.
const MaxDocumentBytes = 1 << 20

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ScanRequest is the payload accepted by the scan endpoint.
type ScanRequest struct {
	Reference string `json:"reference"`
	Suspect   string `json:"suspect"`
}

// Validate checks that both documents are present and within size
// limits. It returns a *ValidationError describing every problem found.
func Validate(req *ScanRequest) error {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Reference) == "" {
		fields["reference"] = "required"
	} else if len(req.Reference) > MaxDocumentBytes {
		fields["reference"] = fmt.Sprintf("exceeds %d bytes", MaxDocumentBytes)
	}
	if strings.TrimSpace(req.Suspect) == "" {
		fields["suspect"] = "required"
	} else if len(req.Suspect) > MaxDocumentBytes {
		fields["suspect"] = fmt.Sprintf("exceeds %d bytes", MaxDocumentBytes)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
