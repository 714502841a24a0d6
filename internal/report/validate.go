package report

import (
	"fmt"
	"strings"
)

// ValidationWarning records why a generated report failed structural
// validation. It is non-fatal: the report is persisted anyway with
// validation_passed=false and the warning surfaced to the caller.
type ValidationWarning struct {
	Reasons []string
}

func (w *ValidationWarning) Error() string {
	return fmt.Sprintf("report validation failed: %s", strings.Join(w.Reasons, "; "))
}

// validate applies lightweight structural checks to generated text:
// non-empty, a minimum length, and the presence of the expected section
// headers. A nil return means the text passed.
func validate(text string, minLength int) *ValidationWarning {
	var reasons []string

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationWarning{Reasons: []string{"generated text is empty"}}
	}
	if minLength > 0 && len(trimmed) < minLength {
		reasons = append(reasons,
			fmt.Sprintf("generated text is %d chars, below minimum %d", len(trimmed), minLength))
	}
	for _, header := range requiredSections() {
		if !strings.Contains(text, header) {
			reasons = append(reasons, fmt.Sprintf("missing section header %q", header))
		}
	}

	if len(reasons) == 0 {
		return nil
	}
	return &ValidationWarning{Reasons: reasons}
}

// wordCount counts whitespace-separated words for report metadata.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
