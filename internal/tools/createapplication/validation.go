package createapplication

// Validation messages are part of the external contract; callers match on
// them verbatim.
const (
	msgRegionRequired    = "Applicant region is required"
	msgAmountNotPositive = "Coverage amount must be positive"
)

// checkRequired applies the presence rules in their fixed order: region
// first, then coverage amount. The first failing rule decides the single
// message returned; there is no multi-field aggregation.
func checkRequired(args map[string]interface{}) *Output {
	if falsy(args["applicant_region"]) {
		return errorOutput(msgRegionRequired)
	}
	if falsy(args["coverage_amount"]) {
		return errorOutput(msgAmountNotPositive)
	}
	return nil
}

// falsy mirrors the loose truthiness the calling clients rely on: absent,
// null, empty string, zero, and false all count as unset.
func falsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	default:
		return false
	}
}

func errorOutput(message string) *Output {
	return &Output{
		Status:        StatusError,
		Message:       message,
		ApplicationID: nil,
	}
}
