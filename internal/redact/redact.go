// Package redact masks secrets and internal details in strings before they
// are logged or shown to API clients. Error messages from the database
// driver, the language model providers and AWS can carry connection strings,
// API keys, SQL fragments and learners' email addresses.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order. Provider key formats come before the generic
// key=value rule so that bare keys without a label are still caught.
var rules = []rule{
	// Database connection strings with user info
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb|db|database|connection)://[^@\s]+@`),
		RedactedCredentialPlaceholder},

	// Language model provider keys: Gemini, Groq and OpenAI-style
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{30,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bgsk_[0-9A-Za-z]{20,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bsk-[0-9A-Za-z_-]{20,}`), RedactedKeyPlaceholder},

	// AWS access key IDs
	{regexp.MustCompile(`(AKIA|ASIA|AccessKey(Id)?)([^a-zA-Z0-9])?[A-Z0-9]{8,}`), RedactedKeyPlaceholder},

	// JWTs, before the bearer rule so a signed token keeps its own marker
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), RedactedCredentialPlaceholder},

	// Labelled secrets
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder},

	// Goroutine dumps and panics
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), RedactedStackPlaceholder},

	// Learners' email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},

	// SQL statements echoed by the driver
	{regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|GRANT)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE|SCHEMA|VIEW)(?:[\s\w,*()='"$]+)?`,
	), RedactedSQLPlaceholder},

	// File system paths, including the prompt template and profile files
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},

	// Hostnames of internal services
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder},
}

// String returns input with every sensitive fragment replaced by a placeholder.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts err.Error(). A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
