package transitrouter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/transitrouter"
)

func buildABC(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	cat := catalogue.New()
	_, err := cat.AddStop("A", 0, 0)
	require.NoError(t, err)
	_, err = cat.AddStop("B", 0, 0)
	require.NoError(t, err)
	_, err = cat.AddStop("C", 0, 0)
	require.NoError(t, err)

	require.NoError(t, cat.AddDistance("B", "A", 600))
	require.NoError(t, cat.AddDistance("A", "B", 600))
	require.NoError(t, cat.AddDistance("B", "C", 600))
	require.NoError(t, cat.AddDistance("C", "B", 600))

	_, err = cat.AddBus("1", false, []string{"A", "B", "C"})
	require.NoError(t, err)
	return cat
}

func TestRouteNonCyclic(t *testing.T) {
	cat := buildABC(t)
	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})

	a, _ := cat.FindStop("A")
	c, _ := cat.FindStop("C")

	it, ok := tr.Route(a, c)
	require.True(t, ok)
	assert.InDelta(t, 7.8, it.TotalTime, 1e-9)
	require.Len(t, it.Steps, 2)

	assert.Equal(t, transitrouter.Wait, it.Steps[0].Kind)
	assert.Equal(t, a, it.Steps[0].Stop)
	assert.InDelta(t, 6, it.Steps[0].Time, 1e-9)

	assert.Equal(t, transitrouter.Ride, it.Steps[1].Kind)
	assert.Equal(t, 2, it.Steps[1].SpanCount)
	assert.InDelta(t, 1.8, it.Steps[1].Time, 1e-9)
}

func TestRouteSameStopIsFree(t *testing.T) {
	cat := buildABC(t)
	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})

	a, _ := cat.FindStop("A")
	it, ok := tr.Route(a, a)
	require.True(t, ok)
	assert.Equal(t, 0.0, it.TotalTime)
	assert.Empty(t, it.Steps)
}

func TestRouteNoPathBetweenDisjointNetworks(t *testing.T) {
	cat := catalogue.New()
	_, err := cat.AddStop("A", 0, 0)
	require.NoError(t, err)
	_, err = cat.AddStop("B", 0, 0)
	require.NoError(t, err)
	_, err = cat.AddStop("X", 0, 0)
	require.NoError(t, err)
	_, err = cat.AddStop("Y", 0, 0)
	require.NoError(t, err)

	require.NoError(t, cat.AddDistance("A", "B", 100))
	require.NoError(t, cat.AddDistance("X", "Y", 100))

	_, err = cat.AddBus("1", false, []string{"A", "B"})
	require.NoError(t, err)
	_, err = cat.AddBus("2", false, []string{"X", "Y"})
	require.NoError(t, err)

	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 1, BusVelocityKmh: 40})

	a, _ := cat.FindStop("A")
	x, _ := cat.FindStop("X")
	_, ok := tr.Route(a, x)
	assert.False(t, ok)

	// Two disjoint bus networks are valid input, not a build failure: Build
	// must still succeed and report both components rather than reject one.
	stats := tr.Components()
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, uint32(4), stats.LargestSize) // each network: two stops, each with a wait_begin/wait_end pair
}

func TestVertexIDsForDistinctPerStop(t *testing.T) {
	cat := buildABC(t)
	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 1, BusVelocityKmh: 40})

	seen := make(map[uint32]bool)
	for _, name := range []string{"A", "B", "C"} {
		id, _ := cat.FindStop(name)
		pair, ok := tr.VertexIDsFor(id)
		require.True(t, ok)
		assert.NotEqual(t, pair.WaitBegin, pair.WaitEnd)
		assert.False(t, seen[uint32(pair.WaitBegin)])
		assert.False(t, seen[uint32(pair.WaitEnd)])
		seen[uint32(pair.WaitBegin)] = true
		seen[uint32(pair.WaitEnd)] = true
	}
}
