package repository

import "errors"

var (
	// ErrOTPNotFound means no OTP is pending for the phone, usually because it expired.
	ErrOTPNotFound = errors.New("otp not found")
	// ErrDuplicatePhone is returned by Create when the phone number is taken.
	ErrDuplicatePhone = errors.New("phone number already registered")
)
