// Package id mints identifiers for persisted game records.
//
// An identifier is the 16 bytes of a UUIDv4 rendered through a lowercase
// unpadded base32 alphabet: 26 characters, safe in URLs and chat commands.
package id

import (
	"encoding/base32"
	"fmt"

	"github.com/google/uuid"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz234567"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// NewID returns a fresh random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return encoding.EncodeToString(value[:]), nil
}
