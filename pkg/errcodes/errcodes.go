package errcodes

// Code classifies application errors for transport mapping and client display.
type Code string

func (c Code) String() string {
	return string(c)
}

const (
	InternalServerError   Code = "InternalServerError"
	ValidationError       Code = "ValidationError"
	NotFound              Code = "NotFound"
	ClassifierUnavailable Code = "ClassifierUnavailable"

	// Scoring and loan request module.
	InvalidApplicant     Code = "InvalidApplicant"
	InvalidLoanRequestID Code = "InvalidLoanRequestID"
	InvalidRequestStatus Code = "InvalidRequestStatus"
	LoanRequestNotFound  Code = "LoanRequestNotFound" // ID is well-formed, but no such row
	InvalidAnchorPayload Code = "InvalidAnchorPayload"
)

// BadRequest reports whether the code describes a malformed client request.
func (c Code) BadRequest() bool {
	switch c {
	case ValidationError, InvalidApplicant, InvalidLoanRequestID, InvalidRequestStatus, InvalidAnchorPayload:
		return true
	default:
		return false
	}
}

// Missing reports whether the code describes an absent resource.
func (c Code) Missing() bool {
	switch c {
	case NotFound, LoanRequestNotFound:
		return true
	default:
		return false
	}
}
