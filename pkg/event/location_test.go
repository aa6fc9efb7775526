package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocations(t *testing.T) {
	t.Run("single room", func(t *testing.T) {
		locs := ParseLocations("GLA.L129")
		require.Len(t, locs, 1)
		assert.Equal(t, Location{Campus: "GLA", Building: "L", Floor: "1", Room: "29"}, locs[0])
	})

	t.Run("ampersand shorthand", func(t *testing.T) {
		locs := ParseLocations("GLA.C117 & C122")
		require.Len(t, locs, 2)
		assert.Equal(t, "C117", locs[0].Building+locs[0].Floor+locs[0].Room)
		assert.Equal(t, "C122", locs[1].Building+locs[1].Floor+locs[1].Room)
	})

	t.Run("comma separated list", func(t *testing.T) {
		locs := ParseLocations("GLA.SA101, SPC.E203")
		require.Len(t, locs, 2)
		assert.Equal(t, "GLA", locs[0].Campus)
		assert.Equal(t, "SA", locs[0].Building)
		assert.Equal(t, "SPC", locs[1].Campus)
	})

	t.Run("two letter building", func(t *testing.T) {
		locs := ParseLocations("GLA.VB203")
		require.Len(t, locs, 1)
		assert.Equal(t, "VB", locs[0].Building)
		assert.Equal(t, "2", locs[0].Floor)
		assert.Equal(t, "03", locs[0].Room)
	})

	t.Run("ground floor", func(t *testing.T) {
		locs := ParseLocations("SPC.AG01")
		require.Len(t, locs, 1)
		assert.Equal(t, "A", locs[0].Building)
		assert.Equal(t, "G", locs[0].Floor)
		assert.Equal(t, "01", locs[0].Room)
	})

	t.Run("unparseable keeps original", func(t *testing.T) {
		locs := ParseLocations("Online via Zoom")
		require.Len(t, locs, 1)
		assert.Equal(t, "Online via Zoom", locs[0].Original)
		assert.Empty(t, locs[0].Campus)
	})
}

func TestLocation_Code(t *testing.T) {
	assert.Equal(t, "GLA.L129", Location{Campus: "GLA", Building: "L", Floor: "1", Room: "29"}.Code())
	assert.Equal(t, "The Hub", Location{Original: "The Hub"}.Code())
}

func TestLocation_Names(t *testing.T) {
	loc := Location{Campus: "GLA", Building: "L", Floor: "1", Room: "29"}
	assert.Equal(t, "McNulty Building", loc.BuildingName())
	assert.Equal(t, "Glasnevin", loc.CampusName())

	unknown := Location{Campus: "GLA", Building: "ZZ"}
	assert.Equal(t, "[unknown]", unknown.BuildingName())
}
