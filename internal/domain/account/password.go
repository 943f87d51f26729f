package account

import "strings"

const (
	minPasswordLength   = 8
	minPasswordStrength = 3
	passwordSpecials    = `!@#$%^&*(),.?":{}|<>`
)

// Strength scores a password from 0 to 5.
type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// PasswordStrength awards one point each for length, upper case, lower case,
// digits and special characters.
func PasswordStrength(password string) Strength {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	score := 0
	for _, ok := range []bool{len(password) >= minPasswordLength, upper, lower, digit, special} {
		if ok {
			score++
		}
	}
	return Strength{Score: score, Label: strengthLabel(score)}
}

func strengthLabel(score int) string {
	switch {
	case score <= 2:
		return "Lemah"
	case score == 3:
		return "Sedang"
	case score == 4:
		return "Kuat"
	default:
		return "Sangat Kuat"
	}
}
