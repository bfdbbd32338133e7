package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// CodeLength is the number of characters in a confirmation or reset code.
const CodeLength = 6

// GenerateCode returns a 6-character uppercase hex code from a
// cryptographically secure source. Calls are independent; the newest code
// for a user simply overwrites the previous one.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
