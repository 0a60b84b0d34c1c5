package domain

import (
	"fmt"
	"strings"
	"time"
)

// Maximum lengths of the bounded ASCII code fields, as published upstream.
const (
	MaxReferenceLen = 12
	maxProgramLen   = 12
	maxAreaCodeLen  = 8 // dxcc, state, county
	maxContinentLen = 2
	maxIOTALen      = 8
	maxLocatorLen   = 12
	maxIUCNLen      = 12
)

// Reference is the unique WWFF identifier of an entry, e.g. "ONFF-0010".
// Values produced by ParseReference are uppercase; byte-wise comparison of
// two parsed references is therefore case-insensitive ordering.
type Reference string

// ParseReference validates and normalizes raw into a directory key.
// The input must be a non-empty printable-ASCII token of at most
// MaxReferenceLen bytes; it is uppercased so that "onff-0010" and
// "ONFF-0010" map to the same key.
func ParseReference(raw string) (Reference, error) {
	tok, err := parseToken(raw, MaxReferenceLen)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", fmt.Errorf("empty reference")
	}
	return Reference(strings.ToUpper(tok)), nil
}

// Entry is a single decoded WWFF directory listing. Pointer fields are
// optional: nil means the source cell was absent or carried an absence
// marker.
type Entry struct {
	Reference Reference `json:"reference"`
	Status    Status    `json:"status"`
	Name      string    `json:"name"`
	Program   string    `json:"program"`
	DXCC      string    `json:"dxcc"`
	State     string    `json:"state"`
	County    string    `json:"county"`
	Continent string    `json:"continent"`

	IOTA         *string    `json:"iota,omitempty"`
	IARULocator  *string    `json:"iaru_locator,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	IUCNCategory *string    `json:"iucn_category,omitempty"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidTo      *time.Time `json:"valid_to,omitempty"`

	Notes        string  `json:"notes"`
	LastModified string  `json:"last_modified"`
	Changelog    *string `json:"changelog,omitempty"`
	ReviewFlag   uint8   `json:"review_flag"`
	SpecialFlags *string `json:"special_flags,omitempty"`
	Website      *string `json:"website,omitempty"`
	Country      *string `json:"country,omitempty"`
	Region       *string `json:"region,omitempty"`

	DXCCEnum     *uint16    `json:"dxcc_enum,omitempty"`
	QSOCount     *uint32    `json:"qso_count,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// Equal reports whether two entries carry the same field values.
func (e Entry) Equal(other Entry) bool {
	return e.Reference == other.Reference &&
		e.Status == other.Status &&
		e.Name == other.Name &&
		e.Program == other.Program &&
		e.DXCC == other.DXCC &&
		e.State == other.State &&
		e.County == other.County &&
		e.Continent == other.Continent &&
		eqPtr(e.IOTA, other.IOTA) &&
		eqPtr(e.IARULocator, other.IARULocator) &&
		eqPtr(e.Latitude, other.Latitude) &&
		eqPtr(e.Longitude, other.Longitude) &&
		eqPtr(e.IUCNCategory, other.IUCNCategory) &&
		eqTime(e.ValidFrom, other.ValidFrom) &&
		eqTime(e.ValidTo, other.ValidTo) &&
		e.Notes == other.Notes &&
		e.LastModified == other.LastModified &&
		eqPtr(e.Changelog, other.Changelog) &&
		e.ReviewFlag == other.ReviewFlag &&
		eqPtr(e.SpecialFlags, other.SpecialFlags) &&
		eqPtr(e.Website, other.Website) &&
		eqPtr(e.Country, other.Country) &&
		eqPtr(e.Region, other.Region) &&
		eqPtr(e.DXCCEnum, other.DXCCEnum) &&
		eqPtr(e.QSOCount, other.QSOCount) &&
		eqTime(e.LastActivity, other.LastActivity)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// parseToken validates raw as a bounded printable-ASCII token.
// The empty string is a valid token; callers that require a value check
// for it themselves.
func parseToken(raw string, maxLen int) (string, error) {
	if len(raw) > maxLen {
		return "", fmt.Errorf("token %q exceeds %d bytes", raw, maxLen)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < 0x20 || raw[i] > 0x7e {
			return "", fmt.Errorf("token %q contains non-ASCII byte 0x%02x", raw, raw[i])
		}
	}
	return raw, nil
}
