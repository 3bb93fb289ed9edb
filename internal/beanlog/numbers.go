package beanlog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// MaxDigits is the longest accepted numeric input.
const MaxDigits = 5

// maxNumber is the largest value with MaxDigits digits.
const maxNumber = 99999

// SanitizeDigits turns free-form numeric input into a non-negative integer.
// Full-width digits are folded to ASCII, every other non-digit is dropped,
// and only the first MaxDigits digits are kept. Empty input yields 0.
//
//	SanitizeDigits("12a3b")  // 123
//	SanitizeDigits("１６００") // 1600
func SanitizeDigits(raw string) int {
	raw = width.Narrow.String(raw)
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == MaxDigits {
			break
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ClampNumber bounds n to [0, 99999].
func ClampNumber(n int) int {
	switch {
	case n < 0:
		return 0
	case n > maxNumber:
		return maxNumber
	}
	return n
}

// Digits is a numeric form value that accepts either a JSON number or a JSON
// string. Both go through SanitizeDigits, so 123456 and "123456" both become
// 12345.
type Digits int

// UnmarshalJSON implements json.Unmarshaler.
func (d *Digits) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Digits(SanitizeDigits(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = Digits(SanitizeDigits(strconv.FormatFloat(f, 'f', -1, 64)))
	return nil
}
