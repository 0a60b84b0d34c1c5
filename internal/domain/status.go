package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of an Entry.
type Status uint8

const (
	StatusActive Status = iota
	StatusDeleted
	StatusNational
	StatusProposed
)

// ParseStatus decodes an upstream status cell. Labels are matched
// case-insensitively; anything outside the four known labels is an error
// carrying the offending text, which rejects the containing row.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(raw) {
	case "active":
		return StatusActive, nil
	case "deleted":
		return StatusDeleted, nil
	case "national":
		return StatusNational, nil
	case "proposed":
		return StatusProposed, nil
	default:
		return 0, fmt.Errorf("unknown WWFF status %q", raw)
	}
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDeleted:
		return "deleted"
	case StatusNational:
		return "national"
	case StatusProposed:
		return "proposed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// MarshalText renders the status label, so entries serialize to readable
// JSON for the API and change feed.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the same labels as ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
