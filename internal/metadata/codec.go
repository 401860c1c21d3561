// Package metadata encodes the structured header embedded at the start of a
// managed issue body. The block is a fixed-order sequence of "key: value"
// lines fenced by two identical delimiter markers, followed by a blank line
// and the free-text description. HTML comment markers keep the block
// invisible in rendered views.
package metadata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Delimiter opens and closes the metadata block. It is part of the wire
// format: changing it orphans every previously written record.
const Delimiter = "<!-- taskplanner:meta -->"

// Keys written by the planner, in encode order. Decoders preserve keys they
// do not recognize so newer writers can add keys without breaking older
// readers.
const (
	KeyPriority = "priority"
	KeyDue      = "due"
	KeyEstimate = "estimate"
	KeySpent    = "spent"
	KeyTags     = "tags"
	KeyMyDay    = "myday"
	KeyParent   = "parent"
)

var keyOrder = []string{KeyPriority, KeyDue, KeyEstimate, KeySpent, KeyTags, KeyMyDay, KeyParent}

// Known reports whether key is one of the fixed keys written above, as
// opposed to a preserved unknown key.
func Known(key string) bool {
	for _, k := range keyOrder {
		if k == key {
			return true
		}
	}
	return false
}

// Fields holds decoded metadata values. Value types are restricted to the
// coercion set: bool, nil, int, float64, []string, string.
type Fields map[string]any

// MalformedMetadataError describes a body whose metadata block could not be
// fully parsed. Decode never returns it; it degrades gracefully instead.
// Diagnose surfaces it for logging.
type MalformedMetadataError struct {
	Line int    // 1-based line number within the body, 0 if not line-specific
	Text string // offending line, empty when the block is unterminated
}

func (e *MalformedMetadataError) Error() string {
	if e.Text == "" {
		return "metadata block is not terminated"
	}
	return fmt.Sprintf("metadata line %d is not key: value: %q", e.Line, e.Text)
}

// Encode serializes fields and description into an issue body. Known keys are
// written in fixed order, unknown keys after them in sorted order. Keys with
// nil values are omitted entirely.
func Encode(fields Fields, description string) string {
	var b strings.Builder
	b.WriteString(Delimiter)
	b.WriteString("\n")

	seen := make(map[string]struct{}, len(keyOrder))
	for _, key := range keyOrder {
		seen[key] = struct{}{}
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		writeLine(&b, key, value)
	}

	extras := make([]string, 0, len(fields))
	for key, value := range fields {
		if _, known := seen[key]; known {
			continue
		}
		if value == nil {
			continue
		}
		extras = append(extras, key)
	}
	sort.Strings(extras)
	for _, key := range extras {
		writeLine(&b, key, fields[key])
	}

	b.WriteString(Delimiter)
	b.WriteString("\n\n")
	b.WriteString(description)
	return b.String()
}

// Decode splits an issue body into metadata fields and the free-text
// description. A body that does not begin with the delimiter has no metadata;
// a block that cannot be parsed is treated the same way rather than erroring.
func Decode(body string) (Fields, string) {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != Delimiter {
		return Fields{}, body
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return Fields{}, body
	}

	fields := Fields{}
	for _, line := range lines[1:closing] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		key, raw, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = coerce(strings.TrimSpace(raw))
	}

	rest := lines[closing+1:]
	if len(rest) > 0 && rest[0] == "" {
		rest = rest[1:]
	}
	return fields, strings.Join(rest, "\n")
}

// Diagnose reports why a body's metadata block is malformed, or nil when the
// body is clean (including bodies with no block at all).
func Diagnose(body string) error {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != Delimiter {
		return nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return &MalformedMetadataError{}
	}

	for i, line := range lines[1:closing] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, _, ok := strings.Cut(trimmed, ":"); !ok {
			return &MalformedMetadataError{Line: i + 2, Text: trimmed}
		}
	}
	return nil
}

// coerce applies the scalar coercion rules in their normative order:
// booleans, null/empty, integers, decimals, bracketed lists, strings.
func coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "", "null":
		return nil
	}
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return value
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		return out
	}
	return raw
}

func writeLine(b *strings.Builder, key string, value any) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(renderValue(value))
	b.WriteString("\n")
}

func renderValue(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatFloat keeps a decimal point on whole numbers so the value decodes
// back as a float, not an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
