package services

// Kind classifies service errors so the HTTP layer can map them to a status
// without inspecting messages.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindConflict
	KindDeliveryFailed
	KindInternal
)

// Error is a service failure with a stable kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidPhone  = &Error{KindInvalidInput, "Please enter a valid 10-digit phone number"}
	ErrInvalidEmail  = &Error{KindInvalidInput, "Please enter a valid email address"}
	ErrMissingFields = &Error{KindInvalidInput, "Missing required fields"}
	ErrInvalidOrder  = &Error{KindInvalidInput, "Customer ID, items, and total amount are required"}
	ErrInvalidStatus = &Error{KindInvalidInput, "Invalid order status"}

	// ErrNoActiveChallenge covers never-requested, expired, and already
	// consumed challenges alike; callers cannot probe which phones have
	// codes outstanding.
	ErrNoActiveChallenge = &Error{KindNotFound, "Invalid or expired OTP"}
	ErrCustomerNotFound  = &Error{KindNotFound, "Customer not found"}
	ErrOrderNotFound     = &Error{KindNotFound, "Order not found"}

	ErrInvalidCode     = &Error{KindInvalidInput, "Invalid verification code"}
	ErrTooManyAttempts = &Error{KindConflict, "Too many failed attempts. Please request a new OTP"}

	ErrDeliveryFailed = &Error{KindDeliveryFailed, "Failed to send OTP"}
)
