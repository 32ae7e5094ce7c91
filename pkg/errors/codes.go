package errors

// Generic codes.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeValidation      = "VALIDATION_ERROR"
)

// Review submission codes.
const (
	CodeSelfReview                 = "SELF_REVIEW"
	CodeUserNotFound               = "USER_NOT_FOUND"
	CodeAlreadyReviewed            = "ALREADY_REVIEWED"
	CodeEmergencyAlreadyUsed       = "EMERGENCY_ALREADY_USED"
	CodePhoneRequired              = "PHONE_REQUIRED"
	CodeInsufficientMessageHistory = "INSUFFICIENT_MESSAGE_HISTORY"
	CodeWeeklyQuotaExceeded        = "WEEKLY_QUOTA_EXCEEDED"
	CodeRatingOutOfRange           = "RATING_OUT_OF_RANGE"
	CodeContentFlagged             = "CONTENT_FLAGGED"
)
