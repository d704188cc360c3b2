package safety

import "strings"

// QueryIsReadOnly returns true if the statement appears to be read-only (best-effort classification).
// Multiple statements are rejected.
func QueryIsReadOnly(sql string) bool {
	s := strings.TrimRight(strings.TrimSpace(stripLeadingComments(sql)), "; \t\r\n")
	if strings.Contains(s, ";") {
		return false
	}
	switch strings.ToLower(firstKeyword(s)) {
	case "select", "with", "values":
		return !containsWriteKeyword(s)
	default:
		return false
	}
}

// containsWriteKeyword catches data-modifying CTEs such as WITH x AS (DELETE ...).
func containsWriteKeyword(s string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z')
	}) {
		switch tok {
		case "insert", "update", "delete", "merge", "drop", "alter", "truncate", "create", "grant":
			return true
		}
	}
	return false
}

// firstKeyword strips leading comments/whitespace and returns the first token.
func firstKeyword(sql string) string {
	s := strings.TrimSpace(stripLeadingComments(sql))
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';' {
			return s[:i]
		}
	}
	return s
}

// stripLeadingComments removes leading SQL comments (-- or /* */) and whitespace.
func stripLeadingComments(sql string) string {
	s := sql
	for {
		s = strings.TrimLeft(s, "\t\n\r ")
		if strings.HasPrefix(s, "--") {
			if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
				s = s[idx:]
			} else {
				return ""
			}
			continue
		}
		if strings.HasPrefix(s, "/*") {
			if idx := strings.Index(s, "*/"); idx >= 0 {
				s = s[idx+2:]
				continue
			}
			return ""
		}
		return s
	}
}
