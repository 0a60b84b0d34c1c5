package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one tokenized CSV row, keyed by the upstream header names.
// Header names are case-sensitive as published (e.g. "iaruLocator",
// "IUCNcat").
type Row map[string]string

// dateLayout is the calendar-date form used by validFrom/validTo/lastAct.
const dateLayout = "2006-01-02"

// legacyBadToken is a single mis-encoded value that leaked into upstream
// code columns. It is decoded as absent. Matched exactly: this is a patch
// for one known-bad row, not a heuristic.
const legacyBadToken = "Región 1"

// absent reports whether raw is one of the upstream absence markers.
// The match is exact and case-sensitive: "N/A" is a value, "n/a" is not.
func absent(raw string) bool {
	return raw == "" || raw == "-" || raw == "n/a"
}

// optionalString decodes a free-text cell. Absence markers become nil;
// any other text is the value verbatim, without trimming.
func optionalString(raw string) *string {
	if absent(raw) {
		return nil
	}
	return &raw
}

// optionalToken decodes a bounded code cell. Absence markers (and the one
// legacy bad value) become nil. Anything else is trimmed and validated; a
// non-empty cell that cannot be encoded is a hard error that rejects the
// row, since an unencodable code usually means the row itself is corrupt.
func optionalToken(raw string, maxLen int) (*string, error) {
	if absent(raw) || raw == legacyBadToken {
		return nil, nil
	}
	tok, err := parseToken(strings.TrimSpace(raw), maxLen)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// optionalFloat decodes a numeric cell. Parse failures are swallowed and
// become nil: malformed coordinates are upstream noise, not row corruption.
func optionalFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// optionalDate decodes a calendar-date cell, swallowing parse failures
// like optionalFloat.
func optionalDate(raw string) *time.Time {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// optionalUint decodes an unsigned integer cell of the given bit size.
// An empty cell is nil; a non-empty cell that fails to parse is a hard
// error.
func optionalUint(raw string, bits int) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// fieldSpec binds one upstream column to its decoder. The schema below is
// the single place the column mapping lives; decoding applies it in
// declared order.
type fieldSpec struct {
	header   string
	required bool
	decode   func(e *Entry, raw string) error
}

var schema = []fieldSpec{
	{"reference", true, func(e *Entry, raw string) error {
		ref, err := ParseReference(raw)
		if err != nil {
			return err
		}
		e.Reference = ref
		return nil
	}},
	{"status", true, func(e *Entry, raw string) error {
		st, err := ParseStatus(raw)
		if err != nil {
			return err
		}
		e.Status = st
		return nil
	}},
	{"name", true, func(e *Entry, raw string) error {
		e.Name = raw
		return nil
	}},
	{"program", true, requiredToken(maxProgramLen, func(e *Entry, v string) { e.Program = v })},
	{"dxcc", true, requiredToken(maxAreaCodeLen, func(e *Entry, v string) { e.DXCC = v })},
	{"state", true, requiredToken(maxAreaCodeLen, func(e *Entry, v string) { e.State = v })},
	{"county", true, requiredToken(maxAreaCodeLen, func(e *Entry, v string) { e.County = v })},
	{"continent", true, requiredToken(maxContinentLen, func(e *Entry, v string) { e.Continent = v })},
	{"iota", false, optToken(maxIOTALen, func(e *Entry, v *string) { e.IOTA = v })},
	{"iaruLocator", false, optToken(maxLocatorLen, func(e *Entry, v *string) { e.IARULocator = v })},
	{"latitude", false, func(e *Entry, raw string) error {
		e.Latitude = optionalFloat(raw)
		return nil
	}},
	{"longitude", false, func(e *Entry, raw string) error {
		e.Longitude = optionalFloat(raw)
		return nil
	}},
	{"IUCNcat", false, optToken(maxIUCNLen, func(e *Entry, v *string) { e.IUCNCategory = v })},
	{"validFrom", false, func(e *Entry, raw string) error {
		e.ValidFrom = optionalDate(raw)
		return nil
	}},
	{"validTo", false, func(e *Entry, raw string) error {
		e.ValidTo = optionalDate(raw)
		return nil
	}},
	{"notes", true, func(e *Entry, raw string) error {
		e.Notes = raw
		return nil
	}},
	{"lastMod", true, func(e *Entry, raw string) error {
		e.LastModified = raw
		return nil
	}},
	{"changeLog", false, func(e *Entry, raw string) error {
		e.Changelog = optionalString(raw)
		return nil
	}},
	{"reviewFlag", true, func(e *Entry, raw string) error {
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return fmt.Errorf("review flag: %w", err)
		}
		e.ReviewFlag = uint8(v)
		return nil
	}},
	{"specialFlags", false, func(e *Entry, raw string) error {
		e.SpecialFlags = optionalString(raw)
		return nil
	}},
	{"website", false, func(e *Entry, raw string) error {
		e.Website = optionalString(raw)
		return nil
	}},
	{"country", false, func(e *Entry, raw string) error {
		e.Country = optionalString(raw)
		return nil
	}},
	{"region", false, func(e *Entry, raw string) error {
		e.Region = optionalString(raw)
		return nil
	}},
	{"dxccEnum", false, func(e *Entry, raw string) error {
		v, err := optionalUint(raw, 16)
		if err != nil {
			return err
		}
		if v != nil {
			n := uint16(*v)
			e.DXCCEnum = &n
		}
		return nil
	}},
	{"qsoCount", false, func(e *Entry, raw string) error {
		v, err := optionalUint(raw, 32)
		if err != nil {
			return err
		}
		if v != nil {
			n := uint32(*v)
			e.QSOCount = &n
		}
		return nil
	}},
	{"lastAct", false, func(e *Entry, raw string) error {
		e.LastActivity = optionalDate(raw)
		return nil
	}},
}

func requiredToken(maxLen int, set func(*Entry, string)) func(*Entry, string) error {
	return func(e *Entry, raw string) error {
		tok, err := parseToken(raw, maxLen)
		if err != nil {
			return err
		}
		set(e, tok)
		return nil
	}
}

func optToken(maxLen int, set func(*Entry, *string)) func(*Entry, string) error {
	return func(e *Entry, raw string) error {
		tok, err := optionalToken(raw, maxLen)
		if err != nil {
			return err
		}
		set(e, tok)
		return nil
	}
}

// DecodeRow builds one typed Entry from a tokenized row. A missing required
// column, a bad status label, an unencodable code field or a malformed
// required value rejects the whole row; the caller decides whether to skip
// it or abort.
func DecodeRow(row Row) (Entry, error) {
	var e Entry
	for _, f := range schema {
		raw, ok := row[f.header]
		if !ok {
			if f.required {
				return Entry{}, fmt.Errorf("missing column %q", f.header)
			}
			continue
		}
		if err := f.decode(&e, raw); err != nil {
			return Entry{}, fmt.Errorf("field %q: %w", f.header, err)
		}
	}
	return e, nil
}
