/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat and Message Business Logic Errors
	ErrEmptyMessage:    {Code: ErrEmptyMessage, Message: "Message cannot be empty.", Status: http.StatusBadRequest},
	ErrMessageNotFound: {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrInvalidScreen:   {Code: ErrInvalidScreen, Message: "Unknown screen.", Status: http.StatusBadRequest},

	// 3xxx: User and Session Errors
	ErrInvalidUsername: {Code: ErrInvalidUsername, Message: "กรุณากรอกชื่อผู้ใช้", Status: http.StatusBadRequest},
	ErrUsernameTaken:   {Code: ErrUsernameTaken, Message: "ชื่อผู้ใช้นี้ถูกใช้งานแล้ว", Status: http.StatusConflict},
	ErrUserNotFound:    {Code: ErrUserNotFound, Message: "ไม่พบชื่อผู้ใช้นี้ กรุณาสมัครสมาชิกก่อน", Status: http.StatusNotFound},
	ErrSessionRequired: {Code: ErrSessionRequired, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidAvatar:   {Code: ErrInvalidAvatar, Message: "Invalid profile picture.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
