package logger

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// Maintenance text can name customers and staff, so record fields are
// dropped from logs along with credentials.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"bearer":        true,
	"completion":    true,
	"observation":   true,
	"solution":      true,
	"source":        true,
}

var sensitiveKeyParts = []string{
	"api", "body", "content", "dsn", "key", "password",
	"prompt", "secret", "text", "token", "translat",
}

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsk-[A-Za-z0-9_-]{10,}\b`),
	regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{10,}\b`),
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*`),
	regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|secret)\b\s*[:=]\s*\S+`),
}

// Connection strings keep their host and database; only the password goes.
var (
	urlPassword   = regexp.MustCompile(`(?i)\b((?:postgres|postgresql|mysql|redis|rediss)://[^\s:/@]+):[^\s@]+@`)
	mysqlPassword = regexp.MustCompile(`(^|\s)([^\s:/@]+):[^\s@]+@(tcp|unix)\(`)
	kvPassword    = regexp.MustCompile(`(?i)\bpassword=\S+`)
)

// RedactAttr is a slog ReplaceAttr hook. Sensitive keys lose their value,
// secrets inside other values blank the whole value, and DSN passwords are
// masked in place.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = RedactAttr(nil, ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if sensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}

	var value string
	if a.Value.Kind() == slog.KindString {
		value = a.Value.String()
	} else {
		value = fmt.Sprint(a.Value.Any())
	}
	if value == "" {
		return a
	}
	for _, re := range secretPatterns {
		if re.MatchString(value) {
			return slog.String(a.Key, redacted)
		}
	}
	if masked := maskDSN(value); masked != value {
		return slog.String(a.Key, masked)
	}
	return a
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func maskDSN(s string) string {
	s = urlPassword.ReplaceAllString(s, "$1:***@")
	s = mysqlPassword.ReplaceAllString(s, "$1$2:***@$3(")
	return kvPassword.ReplaceAllString(s, "password=***")
}
