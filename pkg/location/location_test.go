package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	info := Parse("A-1-01")
	require.NotNil(t, info)
	assert.Equal(t, "A", info.Zone)
	assert.Equal(t, "1", info.SubZone)
	assert.Equal(t, 1, info.Floor)

	info = Parse("AB-12-3")
	require.NotNil(t, info)
	assert.Equal(t, "AB", info.Zone)
	assert.Equal(t, "12", info.SubZone)
	assert.Equal(t, 3, info.Floor)
}

func TestParseRejectsMalformedCodes(t *testing.T) {
	for _, code := range []string{"", "A", "A-1", "a-1-1", "A-1-1-1", "1-A-1", "A-1-x", "위치없음"} {
		assert.Nil(t, Parse(code), code)
	}
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("D-5-05"))
	assert.False(t, Validate("D5-05"))
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()

	// 4 zones x 5 sub-zones
	require.Len(t, layout, 20)
	assert.Equal(t, "구역-A", layout[0].ZoneName)
	assert.Equal(t, "A-1", layout[0].SubZoneName)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, layout[0].Floors)
	assert.Equal(t, "구역-D", layout[19].ZoneName)
	assert.Equal(t, "D-5", layout[19].SubZoneName)
}
