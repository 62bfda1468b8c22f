package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "aura-backend context key " + string(c)
}

// UserIDKey holds the verified caller id set by the auth middleware.
const UserIDKey = contextKey("userID")

// PhoneKey holds the verified caller phone number.
const PhoneKey = contextKey("phoneNo")

// TokenIDKey holds the jti of the token that authenticated the request.
const TokenIDKey = contextKey("tokenID")

// RequestIDKey is the key for the X-Request-ID value.
const RequestIDKey = contextKey("requestID")

// ComponentKey and OperationKey annotate log lines.
const (
	ComponentKey = contextKey("component")
	OperationKey = contextKey("operation")
)
