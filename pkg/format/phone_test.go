package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone_Formatting(t *testing.T) {
	t.Run("mobile with leading 9", func(t *testing.T) {
		assert.Equal(t, "(11) 98765-4321", Phone("11987654321"))
	})

	t.Run("landline", func(t *testing.T) {
		assert.Equal(t, "(11) 3456-7890", Phone("1134567890"))
	})

	t.Run("partial input", func(t *testing.T) {
		assert.Equal(t, "(11", Phone("11"))
		assert.Equal(t, "(11) 9876", Phone("119876"))
	})

	t.Run("already formatted input is normalized", func(t *testing.T) {
		assert.Equal(t, "(11) 98765-4321", Phone("(11) 98765-4321"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Phone(""))
	})
}

func TestPhone_FormatCleanRoundTrip(t *testing.T) {
	// Formatting then cleaning must reproduce the digit sequence exactly.
	for _, digits := range []string{"11987654321", "1134567890"} {
		assert.Equal(t, digits, CleanPhone(Phone(digits)))
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "11987654321", CleanPhone("(11) 98765-4321"))
	assert.Equal(t, "1134567890", CleanPhone("(11) 3456-7890"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("(11) 98765-4321"))
	assert.True(t, ValidPhone("1134567890"))
	assert.False(t, ValidPhone("123456789"))
	assert.False(t, ValidPhone("123456789012"))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "R$ 35,50", Currency(35.5))
	assert.Equal(t, "R$ 1.234,56", Currency(1234.56))
	assert.Equal(t, "R$ 1.234.567,00", Currency(1234567))
	assert.Equal(t, "R$ 0,00", Currency(0))
	assert.Equal(t, "-R$ 10,00", Currency(-10))
}
