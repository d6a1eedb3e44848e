package catalogue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/catalogue"
)

func TestAddStopDuplicateName(t *testing.T) {
	c := catalogue.New()
	_, err := c.AddStop("A", 55.6, 37.2)
	require.NoError(t, err)

	_, err = c.AddStop("A", 1, 1)
	assert.ErrorIs(t, err, catalogue.ErrDuplicateName)
}

func TestAddBusDuplicateName(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	_, err := c.AddBus("256", true, []string{"A"})
	require.NoError(t, err)

	_, err = c.AddBus("256", true, []string{"A"})
	assert.ErrorIs(t, err, catalogue.ErrDuplicateName)
}

func TestAddBusUnknownStop(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	_, err := c.AddBus("256", true, []string{"A", "Ghost"})
	assert.ErrorIs(t, err, catalogue.ErrUnknownStop)
}

func TestAddDistanceUnknownStop(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	err := c.AddDistance("A", "Ghost", 100)
	assert.ErrorIs(t, err, catalogue.ErrUnknownStop)
}

func TestRoadDistanceFallback(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	mustAddStop(t, c, "B", 0, 0)
	a, _ := c.FindStop("A")
	b, _ := c.FindStop("B")

	require.NoError(t, c.AddDistance("A", "B", 3900))
	assert.Equal(t, uint64(3900), c.RoadDistance(a, b))
	assert.Equal(t, uint64(3900), c.RoadDistance(b, a), "falls back to the (a,b) entry when (b,a) is absent")

	require.NoError(t, c.AddDistance("B", "A", 1200))
	assert.Equal(t, uint64(3900), c.RoadDistance(a, b))
	assert.Equal(t, uint64(1200), c.RoadDistance(b, a), "once both directions exist, each returns its own value")
}

func TestBusStatLinear(t *testing.T) {
	// S1 from the spec: non-cyclic bus 256 over two stops 3900m apart each way.
	c := catalogue.New()
	mustAddStop(t, c, "A", 55.611087, 37.20829)
	mustAddStop(t, c, "B", 55.595884, 37.209755)
	require.NoError(t, c.AddDistance("A", "B", 3900))
	require.NoError(t, c.AddDistance("B", "A", 3900))

	busID, err := c.AddBus("256", false, []string{"A", "B"})
	require.NoError(t, err)

	stat := c.BusStat(busID)
	assert.Equal(t, 3, stat.StopCount)
	assert.Equal(t, 2, stat.UniqueStopCount)
	assert.Equal(t, uint64(7800), stat.RouteLength)
	assert.InDelta(t, 2.30, stat.Curvature, 0.05)
}

func TestBusStatCyclic(t *testing.T) {
	// S2 from the spec.
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	mustAddStop(t, c, "B", 0, 0.01)
	mustAddStop(t, c, "C", 0.01, 0.01)
	require.NoError(t, c.AddDistance("A", "B", 1000))
	require.NoError(t, c.AddDistance("B", "C", 1000))
	require.NoError(t, c.AddDistance("C", "A", 1000))

	busID, err := c.AddBus("11", true, []string{"A", "B", "C", "A"})
	require.NoError(t, err)

	stat := c.BusStat(busID)
	assert.Equal(t, 4, stat.StopCount)
	assert.Equal(t, 3, stat.UniqueStopCount)
	assert.Equal(t, uint64(3000), stat.RouteLength)
	assert.False(t, math.IsNaN(stat.Curvature))
}

func TestStopInfoEmptyForUnusedStop(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "Z", 0, 0)
	id, _ := c.FindStop("Z")

	buses, ok := c.StopInfo(id)
	require.True(t, ok)
	assert.Empty(t, buses)
}

func TestNonEmptySortedStopsExcludesUnusedStops(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "B", 0, 0)
	mustAddStop(t, c, "A", 0, 0)
	mustAddStop(t, c, "Z", 0, 0) // unused
	_, err := c.AddBus("1", true, []string{"A", "B"})
	require.NoError(t, err)

	stops := c.NonEmptySortedStops()
	require.Len(t, stops, 2)
	assert.Equal(t, "A", stops[0].Name)
	assert.Equal(t, "B", stops[1].Name)
}

func TestSortedBusesOrder(t *testing.T) {
	c := catalogue.New()
	mustAddStop(t, c, "A", 0, 0)
	_, err := c.AddBus("9", true, []string{"A"})
	require.NoError(t, err)
	_, err = c.AddBus("100", true, []string{"A"})
	require.NoError(t, err)
	_, err = c.AddBus("2", true, []string{"A"})
	require.NoError(t, err)

	buses := c.SortedBuses()
	require.Len(t, buses, 3)
	assert.Equal(t, []string{"100", "2", "9"}, []string{buses[0].Name, buses[1].Name, buses[2].Name})
}

func mustAddStop(t *testing.T, c *catalogue.Catalogue, name string, lat, lng float64) catalogue.StopID {
	t.Helper()
	id, err := c.AddStop(name, lat, lng)
	if err != nil {
		t.Fatalf("AddStop(%q): %v", name, err)
	}
	return id
}

func TestErrorsAreWrapped(t *testing.T) {
	c := catalogue.New()
	_, err := c.AddBus("1", true, []string{"Ghost"})
	if !errors.Is(err, catalogue.ErrUnknownStop) {
		t.Fatalf("expected ErrUnknownStop, got %v", err)
	}
}
