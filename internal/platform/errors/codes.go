// Package errors provides structured error handling for game actions.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeConfigLookup Code = "CONFIG_LOOKUP"

	// Player state errors
	CodeInvalidState           Code = "INVALID_STATE"
	CodeInsufficientExperience Code = "INSUFFICIENT_EXPERIENCE"

	// Economy errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeOutOfStock        Code = "OUT_OF_STOCK"
	CodeHoldPeriod        Code = "HOLD_PERIOD"

	// Storage errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeAlreadyExists       Code = "ALREADY_EXISTS"
	CodePersistenceConflict Code = "PERSISTENCE_CONFLICT"

	// Validation errors
	CodePlayerNameInvalid Code = "PLAYER_NAME_INVALID"
	CodePlayerNameTaken   Code = "PLAYER_NAME_TAKEN"
)

// UserFacing reports whether the code describes a user-correctable
// precondition rather than an internal failure. Actions convert these into
// failure result messages instead of escalating.
func (c Code) UserFacing() bool {
	switch c {
	case CodeInvalidState,
		CodeInsufficientExperience,
		CodeInsufficientFunds,
		CodeOutOfStock,
		CodeHoldPeriod,
		CodePlayerNameInvalid,
		CodePlayerNameTaken:
		return true
	}
	return false
}
