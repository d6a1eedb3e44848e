// Package dispatcher matches a parsed stat_requests array against a
// Catalogue, TransitRouter and rendered map, producing the JSON response
// document. It never returns a Go error for a query-time miss: an unknown
// stop, bus or route becomes an error_message:"not found" field in the
// answer, exactly as json_reader.cpp's make_stat::* functions do.
package dispatcher

import (
	"encoding/json"
	"fmt"
	"sort"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/requestdoc"
	"transitcat/pkg/transitrouter"
)

// Dispatcher answers stat_requests against a built or restored snapshot.
type Dispatcher struct {
	cat    *catalogue.Catalogue
	router *transitrouter.TransitRouter
	mapSVG string
}

// New builds a Dispatcher. mapSVG is the already-rendered map document
// text, computed once up front since every Map query returns the same
// string.
func New(cat *catalogue.Catalogue, router *transitrouter.TransitRouter, mapSVG string) *Dispatcher {
	return &Dispatcher{cat: cat, router: router, mapSVG: mapSVG}
}

// errorAnswer is the shared not-found shape for every request kind.
type errorAnswer struct {
	RequestID    int    `json:"request_id"`
	ErrorMessage string `json:"error_message"`
}

type busAnswer struct {
	Curvature       float64 `json:"curvature"`
	RequestID       int     `json:"request_id"`
	RouteLength     uint64  `json:"route_length"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
}

type stopAnswer struct {
	Buses     []string `json:"buses"`
	RequestID int      `json:"request_id"`
}

type mapAnswer struct {
	Map       string `json:"map"`
	RequestID int    `json:"request_id"`
}

type routeAnswer struct {
	RequestID int     `json:"request_id"`
	TotalTime float64 `json:"total_time"`
	Items     []Step  `json:"items"`
}

// Step is one leg of a Route answer's items array: a Wait step carries
// stop_name, a Bus step carries bus and span_count. Exactly one of the
// two shapes is populated, selected by Type.
type Step struct {
	Type      string  `json:"type"`
	StopName  string  `json:"stop_name,omitempty"`
	Bus       string  `json:"bus,omitempty"`
	SpanCount int     `json:"span_count,omitempty"`
	Time      float64 `json:"time"`
}

const notFound = "not found"

// Dispatch answers every request in order, building the full response
// array before returning it; nothing is emitted incrementally, per the
// "whole response is built then printed" rule. Each element's concrete
// type depends on the request kind, so the slice is []any rather than a
// single catch-all struct — json.Marshal encodes each element with its
// own struct tags.
func (d *Dispatcher) Dispatch(requests []requestdoc.StatRequest) ([]any, error) {
	answers := make([]any, len(requests))
	for i, req := range requests {
		switch req.Type {
		case requestdoc.StatBus:
			answers[i] = d.answerBus(req)
		case requestdoc.StatStop:
			answers[i] = d.answerStop(req)
		case requestdoc.StatMap:
			answers[i] = d.answerMap(req)
		case requestdoc.StatRoute:
			answers[i] = d.answerRoute(req)
		default:
			return nil, fmt.Errorf("dispatcher: stat_requests[%d]: unknown type %q", i, req.Type)
		}
	}
	return answers, nil
}

func (d *Dispatcher) answerBus(req requestdoc.StatRequest) any {
	id, ok := d.cat.FindBus(req.Name)
	if !ok {
		return errorAnswer{RequestID: req.ID, ErrorMessage: notFound}
	}
	stat := d.cat.BusStat(id)
	return busAnswer{
		RequestID:       req.ID,
		Curvature:       stat.Curvature,
		RouteLength:     stat.RouteLength,
		StopCount:       stat.StopCount,
		UniqueStopCount: stat.UniqueStopCount,
	}
}

func (d *Dispatcher) answerStop(req requestdoc.StatRequest) any {
	id, ok := d.cat.FindStop(req.Name)
	if !ok {
		return errorAnswer{RequestID: req.ID, ErrorMessage: notFound}
	}
	incident, _ := d.cat.StopInfo(id)
	names := make([]string, 0, len(incident))
	for busID := range incident {
		names = append(names, d.cat.Bus(busID).Name)
	}
	sort.Strings(names)
	return stopAnswer{RequestID: req.ID, Buses: names}
}

func (d *Dispatcher) answerMap(req requestdoc.StatRequest) any {
	return mapAnswer{RequestID: req.ID, Map: d.mapSVG}
}

func (d *Dispatcher) answerRoute(req requestdoc.StatRequest) any {
	from, ok := d.cat.FindStop(req.From)
	if !ok {
		return errorAnswer{RequestID: req.ID, ErrorMessage: notFound}
	}
	to, ok := d.cat.FindStop(req.To)
	if !ok {
		return errorAnswer{RequestID: req.ID, ErrorMessage: notFound}
	}
	itinerary, ok := d.router.Route(from, to)
	if !ok {
		return errorAnswer{RequestID: req.ID, ErrorMessage: notFound}
	}

	items := make([]Step, len(itinerary.Steps))
	for i, step := range itinerary.Steps {
		switch step.Kind {
		case transitrouter.Wait:
			items[i] = Step{Type: "Wait", StopName: d.cat.Stop(step.Stop).Name, Time: step.Time}
		case transitrouter.Ride:
			items[i] = Step{Type: "Bus", Bus: d.cat.Bus(step.Bus).Name, SpanCount: step.SpanCount, Time: step.Time}
		}
	}
	return routeAnswer{RequestID: req.ID, TotalTime: itinerary.TotalTime, Items: items}
}

// MarshalAnswers renders the final answer array as the response document.
func MarshalAnswers(answers []any) ([]byte, error) {
	return json.Marshal(answers)
}
