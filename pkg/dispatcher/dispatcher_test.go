package dispatcher_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/dispatcher"
	"transitcat/pkg/requestdoc"
	"transitcat/pkg/transitrouter"
)

func buildLinearCatalogue(t *testing.T) *catalogue.Catalogue {
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
	return cat
}

func TestAnswerBusFound(t *testing.T) {
	cat := buildLinearCatalogue(t)
	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "<svg/>")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 1, Type: requestdoc.StatBus, Name: "256"}})
	require.NoError(t, err)
	require.Len(t, answers, 1)

	out, err := json.Marshal(answers[0])
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, float64(1), got["request_id"])
	assert.Equal(t, float64(3), got["stop_count"])
	assert.Equal(t, float64(2), got["unique_stop_count"])
	assert.Equal(t, float64(7800), got["route_length"])
	assert.NotContains(t, got, "error_message")
}

func TestAnswerBusNotFound(t *testing.T) {
	cat := buildLinearCatalogue(t)
	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 7, Type: requestdoc.StatBus, Name: "Ghost"}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "not found", got["error_message"])
	assert.NotContains(t, got, "stop_count")
}

func TestAnswerStopWithNoBuses(t *testing.T) {
	cat := buildLinearCatalogue(t)
	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 3, Type: requestdoc.StatStop, Name: "Z"}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []any{}, got["buses"])
}

func TestAnswerStopNotFound(t *testing.T) {
	cat := buildLinearCatalogue(t)
	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 9, Type: requestdoc.StatStop, Name: "Q"}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "not found", got["error_message"])
}

func TestAnswerRouteScenarioS5(t *testing.T) {
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

	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 5, Type: requestdoc.StatRoute, From: "A", To: "C"}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.InDelta(t, 7.8, got["total_time"], 1e-9)
	items := got["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Wait", first["type"])
	assert.Equal(t, "A", first["stop_name"])
	second := items[1].(map[string]any)
	assert.Equal(t, "Bus", second["type"])
	assert.Equal(t, "1", second["bus"])
	assert.Equal(t, float64(2), second["span_count"])
}

func TestAnswerRouteNoPathBetweenDisjointNetworks(t *testing.T) {
	cat := catalogue.New()
	for _, name := range []string{"A", "B", "X", "Y"} {
		_, err := cat.AddStop(name, 0, 0)
		require.NoError(t, err)
	}
	require.NoError(t, cat.AddDistance("A", "B", 100))
	require.NoError(t, cat.AddDistance("X", "Y", 100))
	_, err := cat.AddBus("ab", false, []string{"A", "B"})
	require.NoError(t, err)
	_, err = cat.AddBus("xy", false, []string{"X", "Y"})
	require.NoError(t, err)

	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 1, BusVelocityKmh: 10})
	disp := dispatcher.New(cat, router, "")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 6, Type: requestdoc.StatRoute, From: "A", To: "X"}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "not found", got["error_message"])
}

func TestAnswerMapReturnsSuppliedSVG(t *testing.T) {
	cat := buildLinearCatalogue(t)
	router := transitrouter.Build(cat, transitrouter.RoutingSettings{BusWaitTimeMin: 6, BusVelocityKmh: 40})
	disp := dispatcher.New(cat, router, "<svg>hello</svg>")

	answers, err := disp.Dispatch([]requestdoc.StatRequest{{ID: 4, Type: requestdoc.StatMap}})
	require.NoError(t, err)

	out, _ := json.Marshal(answers[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "<svg>hello</svg>", got["map"])
}
