package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/renderer"
	"transitcat/pkg/snapshot"
	"transitcat/pkg/transitrouter"
)

func buildBundle(t *testing.T) snapshot.Bundle {
	t.Helper()
	cat := catalogue.New()
	_, err := cat.AddStop("A", 55.611087, 37.20829)
	require.NoError(t, err)
	_, err = cat.AddStop("B", 55.595884, 37.209755)
	require.NoError(t, err)
	_, err = cat.AddStop("Z", 10, 10)
	require.NoError(t, err)
	require.NoError(t, cat.AddDistance("A", "B", 3900))
	require.NoError(t, cat.AddDistance("B", "A", 3900))
	_, err = cat.AddBus("256", false, []string{"A", "B"})
	require.NoError(t, err)

	settings := renderer.Settings{
		Width: 600, Height: 400, Padding: 50,
		StopRadius: 5, LineWidth: 14,
		BusLabelFontSize: 20, StopLabelFontSize: 18,
		UnderlayerColor: renderer.RGBA(255, 255, 255, 0.85),
		UnderlayerWidth: 3,
		Palette:         []renderer.Color{renderer.NamedColor("green"), renderer.RGB(255, 160, 0)},
	}
	_, polylines, circles := renderer.RenderMap(cat, settings)

	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})

	return snapshot.Bundle{
		Catalogue:      cat,
		RenderSettings: settings,
		Polylines:      polylines,
		Circles:        circles,
		TransitRouter:  tr,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bundle := buildBundle(t)
	path := filepath.Join(t.TempDir(), "snapshot.bin")

	require.NoError(t, snapshot.Save(path, bundle))

	loaded, err := snapshot.Load(path)
	require.NoError(t, err)

	require.Equal(t, bundle.Catalogue.StopCount(), loaded.Catalogue.StopCount())
	require.Equal(t, bundle.Catalogue.BusCount(), loaded.Catalogue.BusCount())

	busID, ok := loaded.Catalogue.FindBus("256")
	require.True(t, ok)
	originalID, _ := bundle.Catalogue.FindBus("256")
	assert.Equal(t, bundle.Catalogue.BusStat(originalID), loaded.Catalogue.BusStat(busID))

	assert.Equal(t, bundle.RenderSettings.Width, loaded.RenderSettings.Width)
	assert.Equal(t, bundle.RenderSettings.Palette[0].String(), loaded.RenderSettings.Palette[0].String())
	assert.Equal(t, bundle.RenderSettings.UnderlayerColor.String(), loaded.RenderSettings.UnderlayerColor.String())

	require.Len(t, loaded.Polylines, len(bundle.Polylines))
	assert.Equal(t, bundle.Polylines[0].Points, loaded.Polylines[0].Points)

	a, _ := loaded.Catalogue.FindStop("A")
	b, _ := loaded.Catalogue.FindStop("B")
	it, ok := loaded.TransitRouter.Route(a, b)
	require.True(t, ok)
	assert.InDelta(t, 6+3900.0/(40*1000.0/60), it.TotalTime, 1e-9)
}

func TestSaveLoadEmptyCatalogue(t *testing.T) {
	cat := catalogue.New()
	settings := renderer.Settings{Width: 100, Height: 100, Padding: 10}
	_, polylines, circles := renderer.RenderMap(cat, settings)
	tr := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 1, BusVelocityKmh: 10})

	bundle := snapshot.Bundle{
		Catalogue:      cat,
		RenderSettings: settings,
		Polylines:      polylines,
		Circles:        circles,
		TransitRouter:  tr,
	}
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, snapshot.Save(path, bundle))

	loaded, err := snapshot.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Catalogue.StopCount())
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot at all"), 0o644))

	_, err := snapshot.Load(path)
	assert.Error(t, err)
}
