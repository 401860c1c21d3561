package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidStatus   = 1005
	ErrCodeInvalidPriority = 1006
	ErrCodeInvalidDate     = 1007
	ErrCodeMissingRequired = 1008

	// Domain state (2xxx)
	ErrCodeTaskNotFound   = 2001
	ErrCodeSprintNotFound = 2002

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeResourceExhausted = 3002

	// Upstream & system (4xxx)
	ErrCodeInternal           = 4001
	ErrCodeRemoteStoreFailure = 4002
	ErrCodePlannerFailure     = 4003
	ErrCodeNotImplemented     = 4004
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeTaskNotFound
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	case 501:
		return ErrCodeNotImplemented
	case 502:
		return ErrCodeRemoteStoreFailure
	default:
		return 0
	}
}
