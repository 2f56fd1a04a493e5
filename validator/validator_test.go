package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/go-redisconn/validator"
)

type sample struct {
	Addr string `validate:"required,hostname_port"`
	Mode string `validate:"omitempty,oneof=standalone sentinel cluster"`
	DB   int    `validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	got := validator.Validate(sample{Addr: "127.0.0.1:6379", Mode: "standalone"})
	assert.Nil(t, got)
}

func TestValidate_FieldCodes(t *testing.T) {
	got := validator.Validate(sample{Addr: "", Mode: "tree", DB: -1})
	assert.Equal(t, map[string]string{
		"Addr": "required",
		"Mode": "invalid_choice",
		"DB":   "too_small_or_equal",
	}, got)
}

func TestValidate_UnknownTagFallsBack(t *testing.T) {
	type s struct {
		V string `validate:"uuid4"`
	}
	got := validator.Validate(s{V: "nope"})
	assert.Equal(t, map[string]string{"V": "invalid"}, got)
}

func TestInstance_SharedValidator(t *testing.T) {
	assert.NotNil(t, validator.Instance())
	assert.Same(t, validator.Instance(), validator.Instance())
}
