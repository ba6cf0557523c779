package validate

import "strings"

// IsSafePath reports whether path may be used as a relative output
// location: non-empty, no leading "/" or "\", no drive letter, no
// backslashes anywhere, and no ".." path segment (spec §6.6).
func IsSafePath(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	if hasDriveLetter(path) {
		return false
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." {
			return false
		}
	}
	return true
}

// hasDriveLetter reports whether path begins with a Windows-style
// drive letter ("C:", "d:", ...).
func hasDriveLetter(path string) bool {
	if len(path) < 2 {
		return false
	}
	c := path[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && path[1] == ':'
}
