package testutil

import (
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

// NewTestLogger returns a logger that only reports errors
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", OutputPath: "stderr"})
}

// ValidSignUpValues returns a complete sign-up submission that passes validation
func ValidSignUpValues() map[string]string {
	return map[string]string{
		"firstName":        "Ishaan",
		"lastName":         "Yeole",
		"address":          "12 MG Road",
		"city":             "Nashik",
		"state":            "MH",
		"postalCode":       "422001",
		"dateOfBirth":      "1999-04-12",
		"nationalIdNumber": "123412341234",
		"email":            "ishaan@example.com",
		"password":         "secret1",
	}
}
