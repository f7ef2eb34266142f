package domain

import "strings"

// BirthRequest carries the inputs for a birth chart calculation.
// Date and time are mandatory; the location triple is optional but treated
// as all-or-nothing — a partial location is not geocodable.
type BirthRequest struct {
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	BirthTimezone string `json:"birth_timezone,omitempty"`
	BirthCountry  string `json:"birth_country,omitempty"`
	BirthProvince string `json:"birth_province,omitempty"`
	BirthCity     string `json:"birth_city,omitempty"`
}

// HasLocation reports whether all three location fields are present.
func (r BirthRequest) HasLocation() bool {
	return strings.TrimSpace(r.BirthCity) != "" &&
		strings.TrimSpace(r.BirthProvince) != "" &&
		strings.TrimSpace(r.BirthCountry) != ""
}
