/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific protocol, session, social, ledger and combat
failures both inside the server and in the error envelopes sent to clients.
*/
package errs

// 1xxx: Transport and Envelope Errors
const (
	// ErrInvalidEnvelope indicates that an inbound envelope was not valid JSON or carried a wrongly-typed field.
	ErrInvalidEnvelope = 1001

	// ErrRateLimitExceeded indicates that the connection or request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Session Errors
const (
	// ErrNameConflict indicates that the requested display name is already in use.
	ErrNameConflict = 2001

	// ErrUnknownUser indicates that the connection has not registered a name yet.
	ErrUnknownUser = 2002

	// ErrAlreadyRegistered indicates that the connection already owns a user record.
	ErrAlreadyRegistered = 2003

	// ErrInvalidName indicates that the requested display name is empty.
	ErrInvalidName = 2004
)

// 3xxx: Friend and Ledger Errors
const (
	// ErrFriendNotFound indicates that the referenced name is not in the user's friend list.
	ErrFriendNotFound = 3001

	// ErrInsufficientFunds indicates that a transfer exceeds the sender's balance.
	ErrInsufficientFunds = 3002

	// ErrInvalidAmount indicates a negative transfer amount.
	ErrInvalidAmount = 3003
)

// 4xxx: Combat Errors
const (
	// ErrNoPendingEncounter indicates a kill attempt without a detected mob.
	ErrNoPendingEncounter = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
