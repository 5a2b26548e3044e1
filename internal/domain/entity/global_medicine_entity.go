package entity

import "time"

// GlobalMedicine is an entry of the shared medicine reference catalog.
// It has no owner; anyone may read it.
type GlobalMedicine struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	BrandName           string    `json:"brand_name"`
	GenericName         string    `json:"generic_name"`
	DosageForm          string    `json:"dosage_form"`
	Strength            string    `json:"strength"`
	Manufacturer        string    `json:"manufacturer"`
	Description         string    `json:"description"`
	Indications         []string  `json:"indications"`
	SideEffects         []string  `json:"side_effects"`
	Warnings            []string  `json:"warnings"`
	StorageInstructions string    `json:"storage_instructions"`
	Category            string    `json:"category"`
	ATCCode             string    `json:"atc_code"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
