// Package pattern compiles folder wildcard patterns into matchers.
//
// The dialect is intentionally small:
//   - `**` matches any sequence of characters, including path separators.
//   - `*` matches any sequence of characters within one path segment.
//   - `?` matches exactly one character.
//   - `|` separates alternatives, e.g. `Editor|Tools`.
//
// Every other character is matched literally, and matching is always
// anchored and case-insensitive.
package pattern
