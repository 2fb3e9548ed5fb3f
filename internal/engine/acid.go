package engine

import (
	"context"
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// validAcids is the static customs dataset. Membership decides validity;
// format problems are rejected before the dataset is consulted
var validAcids = map[string]bool{
	"123456789": true,
	"987654321": true,
	"456789123": true,
	"789123456": true,
	"321654987": true,
}

// ValidateAcid checks an ACID number against the customs dataset and
// records the outcome. Both valid and invalid outcomes overwrite the
// stored validation; only malformed input leaves no record
func (e *Engine) ValidateAcid(ctx context.Context, acid string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateAcid(ctx, acid)
}

func (e *Engine) validateAcid(ctx context.Context, acid string) (bool, error) {
	if !isNineDigits(acid) {
		return false, fmt.Errorf("%w: %q", ErrAcidFormat, acid)
	}

	isValid := validAcids[acid]
	validation := api.AcidValidation{
		AcidNumber:     acid,
		IsValid:        isValid,
		ValidationDate: e.clock(),
	}
	if isValid {
		validation.CustomsData = "Simulated customs data"
	}
	if _, _, err := e.acids.Insert(ctx, acid, validation); err != nil {
		return false, err
	}
	return isValid, nil
}

// AcidValidation retrieves the stored validation for an ACID number
func (e *Engine) AcidValidation(
	ctx context.Context, acid string,
) (api.AcidValidation, bool, error) {
	return e.acids.Get(ctx, acid)
}

func isNineDigits(s string) bool {
	if len(s) != 9 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
