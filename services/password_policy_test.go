package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{"valid", "slaptazodis1", ""},
		{"lithuanian letters", "žąsis2024", ""},
		{"too short", "abc123", "must be at least 8 characters long"},
		{"no digit", "slaptazodis", "must contain at least one number"},
		{"no letter", "12345678", "must contain at least one letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}
