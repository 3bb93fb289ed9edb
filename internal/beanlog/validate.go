package beanlog

import (
	"strings"
	"unicode/utf8"
)

// RequiredFields are the fields a record cannot be saved without.
var RequiredFields = []string{
	FieldShopName,
	FieldCountryName,
	FieldRoastLevel,
	FieldPurchaseDate,
}

// ValidationResult holds the set of fields that failed validation, in
// schema order.
type ValidationResult struct {
	failed []string
}

// OK reports whether no field failed.
func (v ValidationResult) OK() bool { return len(v.failed) == 0 }

// Has reports whether field failed.
func (v ValidationResult) Has(field string) bool {
	for _, f := range v.failed {
		if f == field {
			return true
		}
	}
	return false
}

// Fields returns a copy of the failing field names.
func (v ValidationResult) Fields() []string {
	out := make([]string, len(v.failed))
	copy(out, v.failed)
	return out
}

// Validate checks every required field at once and reports all that are
// empty or whitespace-only. Date fields that are filled in but unparsable are
// reported too.
func Validate(r Record) ValidationResult {
	var res ValidationResult
	for _, f := range RequiredFields {
		if fieldMissing(r, f) {
			res.failed = append(res.failed, f)
		}
	}
	for _, f := range dateFields {
		if res.Has(f) || fieldMissing(r, f) {
			continue
		}
		v, _ := r.Text(f)
		if _, err := ParseCalendarDate(v); err != nil {
			res.failed = append(res.failed, f)
		}
	}
	return res
}

// fieldMissing reports whether a required field is blank.
func fieldMissing(r Record, field string) bool {
	v, _ := r.Text(field)
	return strings.TrimSpace(v) == ""
}

// Normalize prepares a validated record for persistence: strings are trimmed
// at both ends and clipped to their caps, blank roast/expiry dates take the
// purchase date, and numeric fields are clamped.
func Normalize(r Record) Record {
	for _, f := range textFields {
		p := r.textField(f)
		*p = Clip(f, strings.TrimSpace(*p))
	}
	if r.RoastDate == "" {
		r.RoastDate = r.PurchaseDate
	}
	if r.ExpDate == "" {
		r.ExpDate = r.PurchaseDate
	}
	r.Price = ClampNumber(r.Price)
	r.Volume = ClampNumber(r.Volume)
	return r
}

// Clip truncates v to the rune cap of field.
func Clip(field, v string) string {
	n := MaxRunes(field)
	if n > 0 && utf8.RuneCountInString(v) > n {
		return string([]rune(v)[:n])
	}
	return v
}
