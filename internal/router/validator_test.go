package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrongPassword(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"strongpwd"`
	}
	v := NewValidator()

	tests := map[string]bool{
		"Secret#1A": true,
		"AAAA1111!": true,
		"secret#1a": false,
		"Secret#AA": false,
		"Secret11A": false,
		"":          false,
	}
	for pwd, ok := range tests {
		err := v.Validate(&form{Password: pwd})
		if ok {
			assert.NoError(t, err, pwd)
		} else {
			assert.Error(t, err, pwd)
		}
	}
}
