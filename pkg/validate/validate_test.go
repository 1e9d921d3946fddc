package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{
		"joao@example.com",
		"maria.silva@barber.com.br",
		"x@y.io",
	}
	for _, addr := range valid {
		assert.True(t, Email(addr), addr)
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@domain",
		"spaces in@example.com",
		"@example.com",
		"user@",
	}
	for _, addr := range invalid {
		assert.False(t, Email(addr), addr)
	}
}

func TestName(t *testing.T) {
	assert.True(t, Name("Ana"))
	assert.True(t, Name("  João  "))

	assert.False(t, Name(""))
	assert.False(t, Name("ab"))
	assert.False(t, Name("   a   "))
}
