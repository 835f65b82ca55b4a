package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tapri-app/tapri-api/internal/apperr"
)

// All is the sentinel filter value meaning "no constraint".
const All = "all"

const maxFilterLength = 100

// Filters is a listing request. Blank or "all" fields do not constrain the
// result.
type Filters struct {
	Search       string `json:"search,omitempty"`
	Category     string `json:"category,omitempty"`
	Stage        string `json:"stage,omitempty"`
	Location     string `json:"location,omitempty"`
	Skill        string `json:"skill,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// Normalize trims every field and clears the "all" sentinel.
func (f Filters) Normalize() Filters {
	return Filters{
		Search:       active(f.Search),
		Category:     active(f.Category),
		Stage:        active(f.Stage),
		Location:     active(f.Location),
		Skill:        active(f.Skill),
		Availability: active(f.Availability),
	}
}

func (f Filters) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"search", f.Search},
		{"category", f.Category},
		{"stage", f.Stage},
		{"location", f.Location},
		{"skill", f.Skill},
		{"availability", f.Availability},
	}
	for _, fld := range fields {
		if utf8.RuneCountInString(fld.value) > maxFilterLength {
			return apperr.Validation(fld.name, fld.name+" filter is too long")
		}
		if !utf8.ValidString(fld.value) {
			return apperr.Validation(fld.name, fld.name+" filter is not valid UTF-8")
		}
		for _, r := range fld.value {
			if unicode.IsControl(r) {
				return apperr.Validation(fld.name, fld.name+" filter contains control characters")
			}
		}
	}
	return nil
}

func active(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, All) {
		return ""
	}
	return v
}
