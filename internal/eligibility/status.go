package eligibility

import "github.com/stemsi/transfer-backend/internal/model"

const (
	msgLikelyEligible = "Based on official requirements, you appear to meet the basic transfer eligibility criteria."
	msgConditional    = "You meet some requirements but have missing coursework. Complete the missing courses before applying."
	msgNotYetEligible = "You do not yet meet the transfer requirements. See the issues below."
)

// DetermineStatus maps the three gates to a verdict. GPA and units are hard
// gates: failing either yields not_yet_eligible even with major prep done.
func DetermineStatus(majorPrepComplete, unitsInRange, gpaOK bool) (model.EligibilityStatus, string) {
	switch {
	case majorPrepComplete && unitsInRange && gpaOK:
		return model.StatusLikelyEligible, msgLikelyEligible
	case gpaOK && unitsInRange:
		return model.StatusConditional, msgConditional
	default:
		return model.StatusNotYetEligible, msgNotYetEligible
	}
}
