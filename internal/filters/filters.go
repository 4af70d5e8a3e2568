// Package filters implements the user-defined content filter rules:
// matching is pure ([]Rule + post fields in, matched rule out), while
// Store handles the persisted rule set.
package filters

import (
	"regexp"
	"strings"
)

// Type discriminates what a rule matches against.
type Type string

const (
	Keyword  Type = "keyword"
	Subject  Type = "subject"
	Name     Type = "name"
	Tripcode Type = "tripcode"
	Regex    Type = "regex"
)

// Rule is a single user-defined filter.
type Rule struct {
	ID            string   `json:"id"`
	Type          Type     `json:"type"`
	Value         string   `json:"value"`
	Enabled       bool     `json:"enabled"`
	CaseSensitive bool     `json:"caseSensitive"`
	// HideThread hides the entire thread instead of just the post
	HideThread bool     `json:"hideThread"`
	// Boards scopes the rule; empty means all boards
	Boards    []string `json:"boards"`
	CreatedAt int64    `json:"createdAt"`
	// Seq fixes evaluation order explicitly. Lower runs first; the first
	// matching rule wins, so users can order broad rules before narrow.
	Seq int `json:"seq"`
}

// AppliesTo reports whether the rule is in scope for a board.
func (r Rule) AppliesTo(boardID string) bool {
	if len(r.Boards) == 0 {
		return true
	}
	for _, b := range r.Boards {
		if b == boardID {
			return true
		}
	}
	return false
}

// Fields is the bag of optional text fields extracted from a post or
// catalog entry for matching. Empty strings mean the field is absent.
type Fields struct {
	Comment string
	Subject string
	Name    string
	Trip    string
}

// Evaluate returns the first enabled, board-scoped rule matching the
// fields, or nil when nothing matches. Rules are tried in the order
// supplied; Store.Rules hands them out sorted by Seq. Pure function: no
// side effects, and a malformed regex rule simply never matches.
func Evaluate(f Fields, rules []Rule, boardID string) *Rule {
	for i := range rules {
		r := &rules[i]
		if !r.Enabled || !r.AppliesTo(boardID) {
			continue
		}
		if ruleMatches(f, r) {
			return r
		}
	}
	return nil
}

func ruleMatches(f Fields, r *Rule) bool {
	switch r.Type {
	case Keyword:
		return f.Comment != "" && matchText(f.Comment, r)
	case Subject:
		return f.Subject != "" && matchText(f.Subject, r)
	case Tripcode:
		return f.Trip != "" && matchText(f.Trip, r)
	case Name:
		return f.Name != "" && matchText(f.Name, r)
	case Regex:
		full := joinFields(f)
		return full != "" && matchText(full, r)
	default:
		return false
	}
}

// matchText applies a single rule's matching semantics to one text field.
func matchText(text string, r *Rule) bool {
	if r.Value == "" {
		return false
	}

	searchText := text
	value := r.Value
	if !r.CaseSensitive {
		searchText = strings.ToLower(text)
		value = strings.ToLower(r.Value)
	}

	switch r.Type {
	case Keyword, Subject:
		return strings.Contains(searchText, value)
	case Tripcode:
		// Only patterns that look like a tripcode can match, guarding
		// against plain keyword text accidentally hiding posts.
		return strings.HasPrefix(value, "!") && strings.Contains(searchText, value)
	case Name:
		// Exact match, or prefix followed by a space to tolerate
		// server-appended decorations on display names.
		return searchText == value || strings.HasPrefix(searchText, value+" ")
	case Regex:
		pattern := r.Value
		if !r.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	default:
		return false
	}
}

func joinFields(f Fields) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{f.Comment, f.Name, f.Trip, f.Subject} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Validate reports whether a rule's pattern is well-formed. Only regex
// rules can fail; the result is for edit-time feedback, evaluation never
// errors on a bad pattern.
func Validate(r Rule) error {
	if r.Type != Regex {
		return nil
	}
	pattern := r.Value
	if !r.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	_, err := regexp.Compile(pattern)
	return err
}
