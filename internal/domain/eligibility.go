package domain

// ReasonCode identifies which rule decided an eligibility result
type ReasonCode string

const (
	ReasonElderly             ReasonCode = "age_75_or_over"
	ReasonSmallEmployer       ReasonCode = "small_employer"
	ReasonNotYetEnrolled      ReasonCode = "not_yet_enrolled"
	ReasonQualificationLost   ReasonCode = "qualification_lost"
	ReasonChildcareLeave      ReasonCode = "childcare_leave"
	ReasonMaternityLeave      ReasonCode = "maternity_leave"
	ReasonCareLeave           ReasonCode = "care_leave"
	ReasonShortContract       ReasonCode = "short_contract"
	ReasonStudentFullTimeWork ReasonCode = "student_full_time_hours"
	ReasonStudentExcluded     ReasonCode = "student_excluded"
	ReasonStudentShortHours   ReasonCode = "student_short_hours_eligible"
	ReasonFullTime            ReasonCode = "full_time"
	ReasonThreeQuarters       ReasonCode = "three_quarters_rule"
	ReasonFiveFactor          ReasonCode = "short_hours_five_factor"
	ReasonNotEligible         ReasonCode = "not_eligible"
)

var reasonText = map[ReasonCode]string{
	ReasonElderly:             "75歳到達により後期高齢者医療制度へ移行",
	ReasonSmallEmployer:       "従業員5人未満の事業所のため適用除外",
	ReasonNotYetEnrolled:      "資格取得日前のため対象外",
	ReasonQualificationLost:   "資格喪失済み",
	ReasonChildcareLeave:      "育児休業中(保険料免除)",
	ReasonMaternityLeave:      "産前産後休業中(保険料免除)",
	ReasonCareLeave:           "介護休業中(保険料免除なし)",
	ReasonShortContract:       "2か月以内の有期雇用のため適用除外",
	ReasonStudentFullTimeWork: "学生だが4分の3基準を満たすため加入",
	ReasonStudentExcluded:     "昼間学生のため適用除外",
	ReasonStudentShortHours:   "夜間・通信・休学中の学生で短時間労働者の要件を満たすため加入",
	ReasonFullTime:            "正社員として加入",
	ReasonThreeQuarters:       "4分の3基準を満たすため加入",
	ReasonFiveFactor:          "短時間労働者の適用拡大要件を満たすため加入",
	ReasonNotEligible:         "加入要件を満たさない",
}

// Text returns the human-readable description of the reason.
func (r ReasonCode) Text() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return string(r)
}

// EligibilityResult is the outcome of evaluating one employee for one month.
// Month fields use "YYYY-MM" and are empty when not applicable.
type EligibilityResult struct {
	HealthInsurance  bool       `json:"health_insurance" yaml:"health_insurance"`
	NursingInsurance bool       `json:"nursing_insurance" yaml:"nursing_insurance"`
	PensionInsurance bool       `json:"pension_insurance" yaml:"pension_insurance"`
	ReasonCode       ReasonCode `json:"reason_code" yaml:"reason_code"`
	Reason           string     `json:"reason" yaml:"reason"`

	// First and last month nursing premiums are due (age 40 to the month before 65)
	NursingStartMonth string `json:"nursing_start_month,omitempty" yaml:"nursing_start_month,omitempty"`
	NursingEndMonth   string `json:"nursing_end_month,omitempty" yaml:"nursing_end_month,omitempty"`
	// Last month pension premiums are due (month before reaching 70)
	PensionEndMonth string `json:"pension_end_month,omitempty" yaml:"pension_end_month,omitempty"`
	// Last month of health insurance before elder-care insurance takes over
	HealthEndMonth string `json:"health_end_month,omitempty" yaml:"health_end_month,omitempty"`

	LeaveExemptionStartMonth string   `json:"leave_exemption_start_month,omitempty" yaml:"leave_exemption_start_month,omitempty"`
	LeaveExemptionEndMonth   string   `json:"leave_exemption_end_month,omitempty" yaml:"leave_exemption_end_month,omitempty"`
	FourteenDayRuleMonths    []string `json:"fourteen_day_rule_months,omitempty" yaml:"fourteen_day_rule_months,omitempty"`
	BonusExemptionMonths     []string `json:"bonus_exemption_months,omitempty" yaml:"bonus_exemption_months,omitempty"`

	// PremiumExempt is true when the evaluated month's premiums are waived
	PremiumExempt bool `json:"premium_exempt" yaml:"premium_exempt"`
	// AgeUnknown is true when no birth date was available; age rules were skipped
	AgeUnknown bool `json:"age_unknown,omitempty" yaml:"age_unknown,omitempty"`
}

// Insured reports whether any insurance applies.
func (r *EligibilityResult) Insured() bool {
	return r.HealthInsurance || r.NursingInsurance || r.PensionInsurance
}

// IsBonusExempt reports whether a bonus paid in month ("YYYY-MM") is exempt,
// either by the leave bonus rule or because the whole month is exempt.
func (r *EligibilityResult) IsBonusExempt(month string) bool {
	for _, m := range r.BonusExemptionMonths {
		if m == month {
			return true
		}
	}
	for _, m := range r.FourteenDayRuleMonths {
		if m == month {
			return true
		}
	}
	return false
}
