// Package textmatch provides the string and date similarity scoring used by
// the linking engine.
//
// Scores are normalized to [0,1] and deterministic:
//   - Score compares two strings after lowercasing and separator cleanup,
//     giving full credit for equal or phrase-contained names and partial
//     credit for token overlap.
//   - DateScore compares two dates with linear decay inside a tolerance
//     window measured in days.
//
// Both functions are pure and safe on empty inputs.
package textmatch
