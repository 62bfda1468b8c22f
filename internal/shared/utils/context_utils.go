package utils

import (
	"context"
	"errors"

	"aura-backend/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound    = errors.New("userID not found in context")
	ErrUserIDNotString   = errors.New("userID in context is not a string")
	ErrRequestIDNotFound = errors.New("requestID not found in context")
	ErrTokenIDNotFound   = errors.New("tokenID not found in context")
)

func stringValue(ctx context.Context, key interface{}) (string, bool) {
	val := ctx.Value(key)
	if val == nil {
		return "", false
	}
	s, ok := val.(string)
	return s, ok && s != ""
}

// GetUserIDFromContext retrieves the verified caller id from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	if userID == "" {
		return "", ErrUserIDNotFound
	}
	return userID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	if v, ok := stringValue(ctx, contextkeys.RequestIDKey); ok {
		return v, nil
	}
	return "", ErrRequestIDNotFound
}

// GetTokenIDFromContext retrieves the jti of the authenticating token.
func GetTokenIDFromContext(ctx context.Context) (string, error) {
	if v, ok := stringValue(ctx, contextkeys.TokenIDKey); ok {
		return v, nil
	}
	return "", ErrTokenIDNotFound
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithPhone adds the caller phone number to context
func WithPhone(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, contextkeys.PhoneKey, phone)
}

// WithTokenID adds the token jti to context
func WithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, contextkeys.TokenIDKey, tokenID)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasUserID reports whether the context carries a caller id.
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}
