package ai

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// RepairStep names the stage at which Repair managed to parse the input.
type RepairStep string

const (
	StepDirect     RepairStep = "direct"
	StepFences     RepairStep = "fences"
	StepSubstring  RepairStep = "substring"
	StepQuoteKeys  RepairStep = "quote_keys"
	StepUnrepaired RepairStep = "unrepaired"
)

// Repaired reports whether output went past a direct parse, including
// output that could not be repaired. The zero value means no output was
// examined.
func (s RepairStep) Repaired() bool { return s != "" && s != StepDirect }

var bareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)

// Repair parses model output into a JSON object, applying progressively
// more aggressive fixes. It never panics; ok is false when nothing worked.
// The result is heuristic and may be wrong on pathological input.
func Repair(raw string) (map[string]interface{}, RepairStep, bool) {
	if m, ok := parseObject(raw); ok {
		return m, StepDirect, true
	}

	step := StepFences
	s := StripFences(raw)
	m, ok := parseObject(s)

	if !ok {
		step = StepSubstring
		if sub, found := outerObject(s); found {
			s = sub
			m, ok = parseObject(s)
		}
	}

	if !ok {
		step = StepQuoteKeys
		s = strings.NewReplacer("\r", "", "\n", " ").Replace(s)
		s = bareKey.ReplaceAllString(s, `$1"$2"$3`)
		m, ok = parseObject(s)
	}

	if !ok {
		slog.Warn("json repair failed", "input_len", len(raw))
		return nil, StepUnrepaired, false
	}
	slog.Warn("json repair applied", "step", string(step), "input_len", len(raw))
	return m, step, true
}

// StripFences removes a leading ``` or ```json fence and a trailing ```.
func StripFences(s string) string {
	clean := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(clean, "```json"):
		clean = strings.TrimPrefix(clean, "```json")
	case strings.HasPrefix(clean, "```JSON"):
		clean = strings.TrimPrefix(clean, "```JSON")
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

func outerObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func parseObject(s string) (map[string]interface{}, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}
