package logutil

import (
	"regexp"
	"strings"
)

var (
	defaultSensitiveRe = regexp.MustCompile(`(?i)(password|pass|secret|token|auth)`)

	// matches the userinfo section of redis://, rediss:// and
	// redis-sentinel:// URIs when a password is present.
	uriPasswordRe = regexp.MustCompile(`(?i)^(redis(?:s|-sentinel)?://[^:@/]*):([^@]+)@`)
)

// RedactURI masks the password part of a Redis URI so it can be logged.
// URIs without a password pass through unchanged.
func RedactURI(uri string) string {
	return uriPasswordRe.ReplaceAllString(uri, "$1:***@")
}

// RedactURIs redacts a batch in one call, for log fields.
func RedactURIs(uris []string) []string {
	if uris == nil {
		return nil
	}
	out := make([]string, len(uris))
	for i, u := range uris {
		out[i] = RedactURI(u)
	}
	return out
}

// SanitizeConfigErrors masks messages for sensitive config fields before a
// validation error map leaves the library. Development environments keep
// the full messages.
func SanitizeConfigErrors(
	fields map[string]string,
	env string,
	sensitiveKeys ...string,
) map[string]string {
	if fields == nil {
		return nil
	}

	e := strings.ToLower(env)
	if e == "development" || e == "debug" {
		return fields
	}

	sens := map[string]struct{}{}
	for _, k := range sensitiveKeys {
		sens[strings.ToLower(k)] = struct{}{}
	}

	sanitized := make(map[string]string, len(fields))
	for field, msg := range fields {
		lk := strings.ToLower(field)
		if _, ok := sens[lk]; ok || defaultSensitiveRe.MatchString(lk) {
			sanitized[field] = "[REDACTED]"
		} else {
			sanitized[field] = msg
		}
	}

	return sanitized
}
