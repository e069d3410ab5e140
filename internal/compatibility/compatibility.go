// Package compatibility encodes the ABO/Rh red-cell donation matrix.
//
// O- is the universal donor and AB+ the universal recipient. An Rh-negative
// donor may give to Rh-negative or Rh-positive recipients of a compatible ABO
// group; an Rh-positive donor only to Rh-positive recipients.
package compatibility

import (
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// abo lists, for each recipient ABO group, the donor groups it accepts.
var abo = map[string]map[string]bool{
	"O":  {"O": true},
	"A":  {"A": true, "O": true},
	"B":  {"B": true, "O": true},
	"AB": {"A": true, "B": true, "AB": true, "O": true},
}

// CanDonate reports whether donor blood can be given to recipient.
// Unknown types are a CodeValidation error, never a silent false.
func CanDonate(donor, recipient id.BloodType) (bool, error) {
	if !donor.IsValid() {
		return false, dErrors.Newf(dErrors.CodeValidation, "unknown donor blood type %q", donor)
	}
	if !recipient.IsValid() {
		return false, dErrors.Newf(dErrors.CodeValidation, "unknown recipient blood type %q", recipient)
	}
	if !abo[recipient.Group()][donor.Group()] {
		return false, nil
	}
	if !donor.RhNegative() && recipient.RhNegative() {
		return false, nil
	}
	return true, nil
}

// CompatibleDonors returns every type that can give to recipient, in
// id.AllBloodTypes order.
func CompatibleDonors(recipient id.BloodType) ([]id.BloodType, error) {
	if !recipient.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown recipient blood type %q", recipient)
	}
	var out []id.BloodType
	for _, donor := range id.AllBloodTypes {
		if ok, _ := CanDonate(donor, recipient); ok {
			out = append(out, donor)
		}
	}
	return out, nil
}

// CompatibleRecipients returns every type donor can give to.
func CompatibleRecipients(donor id.BloodType) ([]id.BloodType, error) {
	if !donor.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown donor blood type %q", donor)
	}
	var out []id.BloodType
	for _, recipient := range id.AllBloodTypes {
		if ok, _ := CanDonate(donor, recipient); ok {
			out = append(out, recipient)
		}
	}
	return out, nil
}
