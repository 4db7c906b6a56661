package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("08:00")
	require.NoError(t, err)
	assert.Equal(t, "0 0 8 * * *", spec)

	spec, err = buildDailySpec("23:59")
	require.NoError(t, err)
	assert.Equal(t, "0 59 23 * * *", spec)

	for _, bad := range []string{"8", "24:00", "12:60", "aa:bb", ""} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
