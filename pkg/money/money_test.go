package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("thb")
	require.NoError(t, err)

	assert.Equal(t, "THB", f.Currency())
	assert.Equal(t, "THB 1,234.50", f.Format(1234.5))
	assert.Equal(t, "THB 0.00", f.Format(0))
}

func TestNewFormatter_Default(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, f.Currency())
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("NOPE")
	assert.Error(t, err)
	assert.Equal(t, "12.30", Format(12.3, "NOPE"))
}
