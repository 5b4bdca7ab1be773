package createapplication

// Status values carried on every application result.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Input is the validated argument set for one application.
type Input struct {
	ApplicantRegion string  `json:"applicant_region"`
	CoverageAmount  float64 `json:"coverage_amount"`
}

// Output is the result of one create_application invocation. ApplicationID
// is a pointer so a rejected application serializes it as null rather than
// omitting it.
type Output struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	ApplicationID  *string `json:"application_id"`
	CoverageAmount float64 `json:"coverage_amount,omitempty"`
	Region         string  `json:"region,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"` // ISO 8601
}

// Failed reports whether the result carries an error status.
func (o *Output) Failed() bool {
	return o.Status == StatusError
}
