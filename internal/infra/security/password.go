package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	passwordMinLength = 8
	passwordMinScore  = 2
)

// ValidatePassword enforces the account password policy: a minimum length
// plus an estimated strength score. userInputs carry account attributes such
// as the name and email so passwords derived from them score low.
func ValidatePassword(password string, userInputs ...string) error {
	if len([]rune(password)) < passwordMinLength {
		return fmt.Errorf("password must be at least %d characters long", passwordMinLength)
	}

	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < passwordMinScore {
		return fmt.Errorf("password is too weak, choose a less guessable value")
	}
	return nil
}
