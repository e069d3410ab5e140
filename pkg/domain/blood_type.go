package domain

import (
	"strings"

	dErrors "lifeline/pkg/domain-errors"
	strutil "lifeline/pkg/platform/strings"
)

// BloodType is an ABO group with Rh factor, e.g. "AB-".
// Invariant: the value must be one of the eight supported types.
//
// Usage: construct via ParseBloodType at trust boundaries; direct casting
// bypasses validation.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AllBloodTypes lists the supported types in a stable order.
var AllBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

var validBloodTypes = func() map[BloodType]bool {
	m := make(map[BloodType]bool, len(AllBloodTypes))
	for _, bt := range AllBloodTypes {
		m[bt] = true
	}
	return m
}()

// ParseBloodType accepts the canonical form plus the spelled-out variants the
// original donor forms used ("A_POSITIVE", "o negative").
//
// Errors: returns CodeValidation when the value is empty or unknown.
func ParseBloodType(s string) (BloodType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "blood type is required")
	}
	bt := BloodType(strings.ToUpper(s))
	if bt.IsValid() {
		return bt, nil
	}
	if alias, ok := spelledBloodTypes[strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(s))]; ok {
		return alias, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown blood type %q", s)
}

var spelledBloodTypes = map[string]BloodType{
	"A_POSITIVE":  BloodTypeAPos,
	"A_NEGATIVE":  BloodTypeANeg,
	"B_POSITIVE":  BloodTypeBPos,
	"B_NEGATIVE":  BloodTypeBNeg,
	"AB_POSITIVE": BloodTypeABPos,
	"AB_NEGATIVE": BloodTypeABNeg,
	"O_POSITIVE":  BloodTypeOPos,
	"O_NEGATIVE":  BloodTypeONeg,
}

func (b BloodType) IsValid() bool {
	return validBloodTypes[b]
}

// Group returns the ABO group ("A", "B", "AB", "O").
func (b BloodType) Group() string {
	return strings.TrimRight(string(b), "+-")
}

// RhNegative reports whether the Rh factor is negative.
func (b BloodType) RhNegative() bool {
	return strings.HasSuffix(string(b), "-")
}

func (b BloodType) String() string {
	return string(b)
}

// ParseBloodTypes validates a list and removes blanks and duplicates, keeping
// first-seen order.
func ParseBloodTypes(values []string) ([]BloodType, error) {
	values = strutil.DedupeAndTrim(values)
	out := make([]BloodType, 0, len(values))
	seen := make(map[BloodType]struct{}, len(values))
	for _, v := range values {
		bt, err := ParseBloodType(v)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[bt]; ok {
			continue
		}
		seen[bt] = struct{}{}
		out = append(out, bt)
	}
	return out, nil
}
