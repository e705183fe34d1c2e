package service

import (
	"fmt"

	"blogger-api/logger"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

// PasswordPolicy is checked before a credential is created.
type PasswordPolicy struct {
	MinLength              int
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
}

// DefaultPasswordPolicy requires six characters with a digit, both cases and a symbol.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:              6,
		RequireDigit:           true,
		RequireLowercase:       true,
		RequireUppercase:       true,
		RequireNonAlphanumeric: true,
	}
}

// Validate returns one message per violated rule; nil means the password is acceptable.
func (p PasswordPolicy) Validate(password string) []string {
	var problems []string

	if len([]rune(password)) < p.MinLength {
		problems = append(problems, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, fmt.Sprintf("Passwords must be at most %d bytes.", maxPasswordBytes))
	}

	// Character classes are ASCII only; any other rune counts as a symbol.
	var digit, lower, upper, symbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		default:
			symbol = true
		}
	}

	if p.RequireNonAlphanumeric && !symbol {
		problems = append(problems, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !lower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !upper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return problems
}

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
