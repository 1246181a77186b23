/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template. Templates containing
formatting verbs are filled in by NewError.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: Transport and Envelope Errors
	ErrInvalidEnvelope:   {Code: ErrInvalidEnvelope, Message: "Invalid message format.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please slow down.", Status: http.StatusTooManyRequests},

	// 2xxx: Session Errors
	ErrNameConflict:      {Code: ErrNameConflict, Message: "Choose a new logon name. %s is already used."},
	ErrUnknownUser:       {Code: ErrUnknownUser, Message: "You (somehow) do not exist in the server..."},
	ErrAlreadyRegistered: {Code: ErrAlreadyRegistered, Message: "You are already logged on as %s."},
	ErrInvalidName:       {Code: ErrInvalidName, Message: "Logon name must not be empty."},

	// 3xxx: Friend and Ledger Errors
	ErrFriendNotFound:    {Code: ErrFriendNotFound, Message: "%s is not present in friend list"},
	ErrInsufficientFunds: {Code: ErrInsufficientFunds, Message: "Transfer failed: Insufficient GP in reserve"},
	ErrInvalidAmount:     {Code: ErrInvalidAmount, Message: "Transfer failed: Negative transfer amount"},

	// 4xxx: Combat Errors
	ErrNoPendingEncounter: {Code: ErrNoPendingEncounter, Message: "There is no mob to fight."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
