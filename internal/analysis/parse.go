package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"
)

const (
	// DefaultProfileName is used when no name can be recovered from a reply.
	DefaultProfileName = "Perfil Personalizado Rosa Menta"

	placeholderRunes = 500
)

var (
	controlRun = regexp.MustCompile(`[\x00-\x1f]+`)
	nameField  = regexp.MustCompile(`"profileName":\s*"([^"]+)"`)
	descField  = regexp.MustCompile(`"description":\s*"([^"]+)"`)
)

// Tier names which parsing strategy produced an Analysis.
type Tier int

const (
	TierStrict Tier = iota
	TierRegex
)

// ParseReply recovers an Analysis from raw model output. It fails only
// when the output has no {...} span.
func ParseReply(raw string) (Analysis, error) {
	a, _, err := parseReply(raw)
	return a, err
}

func parseReply(raw string) (Analysis, Tier, error) {
	span, ok := jsonSpan(raw)
	if !ok {
		return Analysis{}, 0, &UpstreamError{Code: CodeNoJSON, Body: truncateRunes(raw, placeholderRunes)}
	}

	cleaned := cleanControl(span)
	if a, ok := strictParse(cleaned); ok {
		return a, TierStrict, nil
	}
	return regexParse(raw), TierRegex, nil
}

// jsonSpan returns the greedy span from the first '{' to the last '}'.
func jsonSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// cleanControl escapes a lone newline and drops every other run of
// control characters.
func cleanControl(s string) string {
	return controlRun.ReplaceAllStringFunc(s, func(run string) string {
		if run == "\n" {
			return `\n`
		}
		return ""
	})
}

func strictParse(s string) (Analysis, bool) {
	if err := llm.ValidateJSON(ReplySchema, json.RawMessage(s)); err != nil {
		return Analysis{}, false
	}
	var out struct {
		ProfileName string `json:"profileName"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return Analysis{}, false
	}
	return Analysis{ProfileName: out.ProfileName, Text: out.Description}, true
}

func regexParse(raw string) Analysis {
	a := Analysis{
		ProfileName: DefaultProfileName,
		Text:        truncateRunes(raw, placeholderRunes),
	}
	if m := nameField.FindStringSubmatch(raw); m != nil {
		a.ProfileName = m[1]
	}
	if m := descField.FindStringSubmatch(raw); m != nil {
		a.Text = m[1]
	}
	return a
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
