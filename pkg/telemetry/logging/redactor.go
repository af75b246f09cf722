package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Credential-bearing values must never land in logs verbatim. Two layers:
// attribute keys that always hold secrets are masked wholesale, and string
// values are scanned for known credential shapes.
var (
	secretKeys = map[string]struct{}{
		"api_key":       {},
		"apikey":        {},
		"authorization": {},
		"x-api-key":     {},
	}

	secretPatterns = []*regexp.Regexp{
		// OpenAI-style keys
		regexp.MustCompile(`sk-[a-zA-Z0-9_-]{8,}`),
		// Bearer tokens
		regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	}
)

const mask = "***"

// redactAttr is a slog ReplaceAttr hook masking credential attributes.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, mask)
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactString(a.Value.String()))
	}
	return a
}

// RedactString masks credential shapes embedded in a string value.
func RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range secretPatterns {
		value = pattern.ReplaceAllString(value, mask)
	}
	return value
}
