// Package license holds the professional ID registry. It is an explicit
// store constructed in main and handed to the handlers that need it;
// there is no package-level state.
package license

import (
	"errors"
	"fmt"
	"strings"

	"telecare/internal/models"
	"telecare/internal/util"

	"gorm.io/gorm"
)

// ErrUnknownLicense means the number is well-formed but the seeded
// registry has no active record for it.
var ErrUnknownLicense = errors.New("license number not found in registry")

// Registry validates professional license numbers for doctor accounts.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// Seed inserts registry rows, ignoring duplicates on the number column.
func (r *Registry) Seed(entries []models.ProfessionalLicense) error {
	for i := range entries {
		e := entries[i]
		e.Number = strings.ToUpper(strings.TrimSpace(e.Number))
		err := r.db.Where("number = ?", e.Number).
			FirstOrCreate(&e).Error
		if err != nil {
			return fmt.Errorf("seed license %s: %w", e.Number, err)
		}
	}
	return nil
}

// Lookup fetches the registry row for a number.
func (r *Registry) Lookup(number string) (*models.ProfessionalLicense, error) {
	var rec models.ProfessionalLicense
	err := r.db.Where("number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownLicense
		}
		return nil, fmt.Errorf("lookup license: %w", err)
	}
	return &rec, nil
}

// Verify checks the number's format, and when the registry has been
// seeded also requires an active matching record. An empty registry
// enforces format only, so a fresh install can register doctors.
func (r *Registry) Verify(number string) error {
	number = strings.ToUpper(strings.TrimSpace(number))
	if err := util.ValidateLicenseNumber(number); err != nil {
		return err
	}

	var count int64
	if err := r.db.Model(&models.ProfessionalLicense{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count licenses: %w", err)
	}
	if count == 0 {
		return nil
	}

	rec, err := r.Lookup(number)
	if err != nil {
		return err
	}
	if !rec.Active {
		return ErrUnknownLicense
	}
	return nil
}
