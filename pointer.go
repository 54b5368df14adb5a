package jsondelta

import (
	"strconv"
	"strings"
)

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a single reference token as described by RFC 6901:
// "~" becomes "~0" and "/" becomes "~1".
func EscapeToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return tokenEscaper.Replace(token)
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return tokenUnescaper.Replace(token)
}

// AppendKey returns the pointer addressing property key below prefix.
func AppendKey(prefix, key string) string {
	return prefix + "/" + EscapeToken(key)
}

// AppendIndex returns the pointer addressing array index i below prefix.
func AppendIndex(prefix string, i int) string {
	return prefix + "/" + strconv.Itoa(i)
}
