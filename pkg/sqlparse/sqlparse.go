// Package sqlparse provides low-level helpers to extract structural
// information from SQL statements, independent of any benchmark logic.
package sqlparse

import "strings"

// Keyword extracts the primary SQL operation keyword from a statement.
//
// Handles CTEs (WITH clauses), line and block comments, and multiple
// statements (only the first is considered). Returns the keyword in
// uppercase, or an empty string if none is found.
func Keyword(sql string) string {
	if strings.TrimSpace(sql) == "" {
		return ""
	}

	clean := stripComments(sql)

	// Only the first statement matters.
	if idx := strings.Index(clean, ";"); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToUpper(clean), "WITH") {
		if main := mainStatementAfterCTE(clean); main != "" {
			clean = main
		}
	}

	return firstKeyword(clean)
}

// IsRead reports whether the statement's primary keyword produces a
// result set.
func IsRead(sql string) bool {
	switch Keyword(sql) {
	case "SELECT", "WITH", "SHOW", "EXPLAIN":
		return true
	}
	return false
}

// stripComments removes -- and /* */ comments while preserving string
// literals.
func stripComments(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	i := 0
	inString := false
	var stringChar byte

	for i < len(sql) {
		c := sql[i]
		switch {
		case !inString && (c == '\'' || c == '"'):
			inString = true
			stringChar = c
			b.WriteByte(c)
			i++
		case inString:
			b.WriteByte(c)
			if c == stringChar && (i == 0 || sql[i-1] != '\\') {
				inString = false
			}
			i++
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			if i < len(sql) {
				b.WriteByte('\n')
				i++
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i += 2
			for i+1 < len(sql) && !(sql[i] == '*' && sql[i+1] == '/') {
				i++
			}
			if i+1 < len(sql) {
				i += 2
			} else {
				i = len(sql)
			}
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// mainStatementAfterCTE returns the primary statement that follows the
// WITH-clause definitions, found at parenthesis depth zero.
func mainStatementAfterCTE(sql string) string {
	depth := 0
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t', '\n', ',':
			// skip
		default:
			if depth != 0 {
				continue
			}
			rest := strings.ToUpper(strings.TrimSpace(sql[i:]))
			for _, kw := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
				if strings.HasPrefix(rest, kw) {
					return strings.TrimSpace(sql[i:])
				}
			}
		}
	}
	return sql
}

func firstKeyword(sql string) string {
	fields := strings.Fields(strings.TrimSpace(sql))
	if len(fields) == 0 {
		return ""
	}
	kw := strings.ToUpper(fields[0])
	kw = strings.TrimLeft(kw, "(")
	kw = strings.TrimRight(kw, ")")
	return kw
}
