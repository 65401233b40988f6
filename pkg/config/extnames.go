package config

import (
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"
)

var extnameSeparator = regexp.MustCompile(`\s*,\s*`)

// ExtnameList is a list of bare extensions. In JSON it may be written either as
// an array of strings or as a single comma separated string ("js, html").
type ExtnameList []string

// ParseExtnames splits a comma separated extension list. Surrounding whitespace
// around each comma is dropped, anything else is kept as written.
func ParseExtnames(s string) ExtnameList {
	return ExtnameList(extnameSeparator.Split(s, -1))
}

func (l *ExtnameList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = ParseExtnames(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.Wrap(err, "entry_extnames must be a string or an array of strings")
	}
	*l = list
	return nil
}
