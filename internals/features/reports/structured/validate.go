package structured

import (
	"encoding/json"
	"math"

	"bookclub_backend/internals/helpers/apperr"
)

// Validate checks the title, then every required section in template order, and stops at the
// first failure.
func Validate(tpl Template, title string, data Data) error {
	if blank(title) {
		return apperr.ValidationError{Field: "title", Reason: apperr.ReasonRequired}
	}
	return ValidateSections(tpl, data)
}

// ValidateSections applies only the per-section completeness rules.
func ValidateSections(tpl Template, data Data) error {
	for _, sec := range tpl.Sections {
		if err := checkRequired(sec, data); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes raw and validates it like Validate in a single pass over the template.
func Parse(tpl Template, title string, raw map[string]json.RawMessage) (Data, error) {
	if blank(title) {
		return nil, apperr.ValidationError{Field: "title", Reason: apperr.ReasonRequired}
	}
	return ParseSections(tpl, raw)
}

// ParseSections walks the sections in template order and reports the first one that is either
// malformed or required and incomplete. A malformed optional section after a missing required one
// is therefore not the one named.
func ParseSections(tpl Template, raw map[string]json.RawMessage) (Data, error) {
	data, bad := decodeAll(tpl, raw)
	for _, sec := range tpl.Sections {
		if bad[sec.ID] {
			return nil, malformed(sec)
		}
		if err := checkRequired(sec, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func checkRequired(sec Section, data Data) error {
	if !sec.Required {
		return nil
	}
	p, ok := data[sec.ID]
	if !ok || p == nil || p.Kind() != sec.Type || !p.Complete() {
		return apperr.ValidationError{
			SectionID:    sec.ID,
			SectionTitle: sec.Title,
			Reason:       apperr.ReasonRequired,
		}
	}
	return nil
}

// ValidateRating accepts nil (no rating) or an integral value in [1,5].
func ValidateRating(r *float64) (*int, error) {
	if r == nil {
		return nil, nil
	}
	v := *r
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < 1 || v > 5 {
		return nil, apperr.InvalidRatingError{}
	}
	n := int(v)
	return &n, nil
}
