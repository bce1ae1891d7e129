package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ValueScanRoundTrip(t *testing.T) {
	in := StringList{"Register with SIRS", "Keep records, receipts", `File "annual" returns`}

	v, err := in.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringList_ScanBytesAndNil(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`{salary_earner,freelancer}`)))
	assert.Equal(t, StringList{"salary_earner", "freelancer"}, l)
	assert.True(t, l.Contains("freelancer"))
	assert.False(t, l.Contains("small_business"))

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
}

func TestStringList_NilValueIsEmptyArray(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
