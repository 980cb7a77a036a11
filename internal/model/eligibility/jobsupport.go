package eligibility

// JobSupportProfile is the applicant's situation for an employment support
// notice. The shape is disjoint from HousingProfile and the two must never
// be sent to each other's endpoint.
type JobSupportProfile struct {
	Age                     int    `json:"age" validate:"min=15,max=120"`
	HouseholdSize           int    `json:"household_size" validate:"min=1,max=20"`
	HouseholdMonthlyIncome  *int64 `json:"household_monthly_income"`
	HouseholdTotalAssets    *int64 `json:"household_total_assets"`
	WorkExperienceDays      *int   `json:"work_experience_days"`
	WorkExperienceHours     *int   `json:"work_experience_hours"`
	IsReceivingUnemployment bool   `json:"is_receiving_unemployment"`
	IsYouth                 *bool  `json:"is_youth"`
	IsSenior                *bool  `json:"is_senior"`
	SpecialCategory         string `json:"special_category" validate:"required,oneof=none career_break_woman special_worker homeless"`
}

// JobSupportType is the verdict taxonomy for employment support.
type JobSupportType string

const (
	JobSupportType1      JobSupportType = "type_1"
	JobSupportType2      JobSupportType = "type_2"
	JobSupportIneligible JobSupportType = "ineligible"
)

// JobSupportResult is the verdict for a job-support profile.
type JobSupportResult struct {
	EligibleType    JobSupportType `json:"eligible_type"`
	StatusMessage   string         `json:"status_message"`
	ExpectedBenefit string         `json:"expected_benefit,omitempty"`
	Checklist       []string       `json:"checklist"`
	Warnings        []string       `json:"warnings"`
}
