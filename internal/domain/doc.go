// Package domain models the WWFF (World Wide Flora & Fauna) directory.
//
// # Data Source
//
// The directory is published as a single CSV file at
// https://wwff.co/wwff-data/wwff_directory.csv, one row per WWFF entity.
// Rows are identified by a reference such as "ONFF-0010": a national program
// prefix followed by a four-digit number, at most 12 ASCII characters.
// References are compared case-insensitively; the directory key is the
// uppercased form.
//
// # CSV Conventions
//
// Absence markers:
//
//	Optional cells use "", "-" or "n/a" (exact, case-sensitive) to mean
//	"no value". Anything else is taken verbatim for free-text fields.
//
// Short code fields (program, dxcc, iota, locator, ...):
//
//	Bounded-length printable-ASCII tokens. A non-empty cell that cannot be
//	encoded (too long, non-ASCII) marks the whole row as corrupted and the
//	row is rejected. One known-bad upstream value, "Región 1", leaked into a
//	code column years ago and is treated as absent. It is matched exactly,
//	as a named special case, not generalized into fuzzy matching.
//
// Numeric and date fields (latitude, validFrom, lastAct, ...):
//
//	Parsed strictly, but a cell that fails to parse is treated as absent
//	rather than rejecting the row. Malformed coordinates and dates are
//	common upstream noise and should not block an otherwise valid entry.
//
// Status:
//
//	One of "active", "deleted", "national" or "proposed", matched
//	case-insensitively. Any other label rejects the row.
package domain
