// Package tag validates note tag tokens against the closed vocabulary
// and computes the routing facts reports depend on.
package tag

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonical tag names.
const (
	InternalOnly = "internal-only"
	ClientReport = "client-report"
	InfoOnly     = "info-only"
	CarryForward = "carry-forward"
	Blocker      = "blocker"
)

// shortcuts maps short tokens to canonical names. Canonical names are
// accepted as tokens too.
var shortcuts = map[string]string{
	"ilo": InternalOnly,
	"cr":  ClientReport,
	"ifo": InfoOnly,
	"cf":  CarryForward,
	"blk": Blocker,
}

var canonical = map[string]bool{
	InternalOnly: true,
	ClientReport: true,
	InfoOnly:     true,
	CarryForward: true,
	Blocker:      true,
}

// InvalidTagError reports a token outside the closed vocabulary.
type InvalidTagError struct {
	Token string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("unknown tag %q (valid: %s)", e.Token, strings.Join(ValidShortcuts(), ", "))
}

// Classification is the normalized result of validating a token list.
type Classification struct {
	// Tags holds canonical names, deduplicated, in first-occurrence
	// order of the input.
	Tags []string

	// IsClientVisible is true iff client-report is present.
	IsClientVisible bool

	// IsCarryForward is true iff carry-forward is present.
	IsCarryForward bool

	// IsBlocker is true iff blocker is present.
	IsBlocker bool
}

// Has reports whether the canonical tag name is in the set.
func (c Classification) Has(name string) bool {
	for _, t := range c.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Classify validates raw tokens against the closed vocabulary and
// returns the normalized tag set with derived routing flags.
//
// Validation is atomic: the first unknown token fails the whole call
// with InvalidTagError and no partial result. An empty token list
// classifies as internal-only, the default for untagged notes.
// Classify is pure; calling it on its own output yields the same set.
func Classify(tokens []string) (Classification, error) {
	if len(tokens) == 0 {
		tokens = []string{InternalOnly}
	}

	seen := make(map[string]bool, len(tokens))
	var result Classification
	for _, raw := range tokens {
		name, err := resolve(raw)
		if err != nil {
			return Classification{}, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		result.Tags = append(result.Tags, name)
	}

	result.IsClientVisible = seen[ClientReport]
	result.IsCarryForward = seen[CarryForward]
	result.IsBlocker = seen[Blocker]
	return result, nil
}

// resolve maps one token (shortcut or canonical name, case-insensitive)
// to its canonical name.
func resolve(token string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if full, ok := shortcuts[t]; ok {
		return full, nil
	}
	if canonical[t] {
		return t, nil
	}
	return "", &InvalidTagError{Token: token}
}

// hashtagPattern matches #token hashtags in free text.
var hashtagPattern = regexp.MustCompile(`#([\w-]+)`)

// Extract pulls hashtags out of free text, returning the cleaned text
// and the raw tokens in order of appearance. Tokens are not validated;
// pass them to Classify.
func Extract(text string) (string, []string) {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	var tokens []string
	for _, m := range matches {
		tokens = append(tokens, strings.ToLower(m[1]))
	}

	clean := hashtagPattern.ReplaceAllString(text, "")
	clean = strings.Join(strings.Fields(clean), " ")
	return clean, tokens
}

// ValidShortcuts returns the accepted short tokens in a stable order.
func ValidShortcuts() []string {
	return []string{"blk", "cf", "cr", "ifo", "ilo"}
}

// FormatTags renders canonical tags for display, e.g.
// "[internal-only] [carry-forward]".
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "[" + t + "]"
	}
	return strings.Join(parts, " ")
}

// ForReport returns the canonical tags included in the given report
// audience. Client-facing reports carry only client-report notes;
// internal reports carry everything.
func ForReport(clientFacing bool) []string {
	if clientFacing {
		return []string{ClientReport}
	}
	return []string{InternalOnly, ClientReport, InfoOnly, CarryForward, Blocker}
}
