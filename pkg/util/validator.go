package util

import (
	"regexp"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]{3,150}$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// IsValidUsername verifies if the username format is correct.
// Letters, digits and @ . + - _ are allowed, length 3-150.
// IsValidUsername 验证用户名格式是否正确
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidSlug reports whether s consists of latin letters, digits, hyphens and underscores only.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// IsSafeRedirect reports whether target is a local path that can be used after login.
func IsSafeRedirect(target string) bool {
	if target == "" || target[0] != '/' {
		return false
	}
	// "//host" and "/\host" are protocol-relative
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	return true
}
