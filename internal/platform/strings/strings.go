// Package strings holds the small string and slice helpers shared across packages
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// SplitList splits s on sep, trims every part and drops empty ones
// the result is never nil
func SplitList(s, sep string) []string {
	out := []string{}
	if std.TrimSpace(s) == "" {
		return out
	}
	for _, p := range std.Split(s, sep) {
		if p = std.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MustString returns s, panicking with name when s is blank
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to one leading slash and no trailing one
// the root itself is rejected
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}
