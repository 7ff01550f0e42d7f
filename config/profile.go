package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// EventProfile describes the event this deployment serves.
type EventProfile struct {
	Name             string   `toml:"name"`
	AttendeeIDPrefix string   `toml:"attendee_id_prefix"`
	Venue            string   `toml:"venue"`
	Interests        []string `toml:"interests"`
}

var prefixRegexp = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,15}$`)

// DefaultProfile is used when EVENT_PROFILE is unset.
func DefaultProfile() *EventProfile {
	return &EventProfile{
		Name:             "NepDent IDS 2025",
		AttendeeIDPrefix: "NEPDENT",
		Interests: []string{
			"Dental Equipment",
			"Materials",
			"Technology",
			"Preventive Care",
			"Aesthetics",
			"Oral Surgery",
		},
	}
}

// LoadProfile reads a TOML event profile. Fields missing from the file keep their defaults.
// An empty path returns DefaultProfile.
func LoadProfile(path string) (*EventProfile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("load event profile %s: %w", path, err)
	}
	p.AttendeeIDPrefix = strings.ToUpper(strings.TrimSpace(p.AttendeeIDPrefix))
	if !prefixRegexp.MatchString(p.AttendeeIDPrefix) {
		return nil, fmt.Errorf("event profile %s: invalid attendee_id_prefix %q", path, p.AttendeeIDPrefix)
	}
	return p, nil
}
