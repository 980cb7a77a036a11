package eligibility

// HousingProfile is the applicant's self-reported situation for a housing
// application notice. One profile is submitted per check; there is no
// history.
type HousingProfile struct {
	IsSeoulResident       bool     `json:"is_seoul_resident"`
	HouseholdType         string   `json:"household_type" validate:"required,oneof=single two three_plus"`
	HouseholdSize         *int     `json:"household_size,omitempty" validate:"omitempty,min=1,max=20"`
	Age                   *int     `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	IsHeadOfHousehold     *bool    `json:"is_head_of_household,omitempty"`
	IncomeLevel           string   `json:"income_level" validate:"required,oneof=under_30m between_30m_50m over_50m unknown"`
	HasHighPriceCar       *bool    `json:"has_high_price_car,omitempty"`
	SpecialQualifications []string `json:"special_qualifications" validate:"dive,oneof=basic_support disabled single_parent national_merit north_korean_defector elderly_parent_support none"`
	IsCurrentPublicRental *bool    `json:"is_current_public_rental,omitempty"`
	IsOtherWaitingList    *bool    `json:"is_other_waiting_list,omitempty"`
}

// HousingStatus is the verdict taxonomy for housing applications.
type HousingStatus string

const (
	StatusEligible   HousingStatus = "eligible"
	StatusLikely     HousingStatus = "likely"
	StatusIneligible HousingStatus = "ineligible"
	StatusUnknown    HousingStatus = "unknown"
)

// HousingResult is the verdict for a housing profile. Ephemeral: overwritten
// by the next submission, discarded with the session.
type HousingResult struct {
	Status         HousingStatus `json:"status"`
	StatusMessage  string        `json:"status_message"`
	EstimatedScore *int          `json:"estimated_score,omitempty"`
	ScoreReference string        `json:"score_reference,omitempty"`
	Checklist      []string      `json:"checklist"`
}
