// Command transitcat is the single entry point for both phases of the
// transport-catalogue engine: "make_base" reads a request document on
// stdin and writes a binary snapshot; "process_requests" reads the
// snapshot plus a request document on stdin and writes a JSON response
// array to stdout. The mode is the single positional argument; there is
// no flag parsing, since both phases take all their settings from the
// same request document shape.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/dispatcher"
	"transitcat/pkg/renderer"
	"transitcat/pkg/requestdoc"
	"transitcat/pkg/snapshot"
	"transitcat/pkg/transitrouter"
)

func main() {
	if len(os.Args) != 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "make_base":
		if err := makeBase(os.Stdin); err != nil {
			log.Fatalf("make_base: %v", err)
		}
	case "process_requests":
		if err := processRequests(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("process_requests: %v", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: transitcat make_base|process_requests  (request document on stdin)")
}

func readDocument(r io.Reader) (requestdoc.Document, error) {
	var doc requestdoc.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return requestdoc.Document{}, fmt.Errorf("parse request document: %w", err)
	}
	return doc, nil
}

func makeBase(r io.Reader) error {
	doc, err := readDocument(r)
	if err != nil {
		return err
	}

	log.Println("Parsing base requests...")
	cat := catalogue.New()
	if err := requestdoc.IngestBaseRequests(cat, doc.BaseRequests); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	log.Printf("Catalogue: %d stops, %d buses", cat.StopCount(), cat.BusCount())

	log.Println("Projecting map...")
	renderSettings := doc.RenderSettings.ToRendererSettings()
	_, polylines, circles := renderer.RenderMap(cat, renderSettings)

	log.Println("Building routing graph and all-pairs table...")
	routingSettings := doc.RoutingSettings.ToTransitRouterSettings()
	router := transitrouter.Build(cat, routingSettings)
	stats := router.Components()
	log.Printf("Routing graph: %d weakly-connected components, largest covers %d/%d vertices",
		stats.Count, stats.LargestSize, 2*cat.StopCount())

	bundle := snapshot.Bundle{
		Catalogue:      cat,
		RenderSettings: renderSettings,
		Polylines:      polylines,
		Circles:        circles,
		TransitRouter:  router,
	}

	log.Printf("Writing snapshot to %s...", doc.SerializationSettings.File)
	if err := snapshot.Save(doc.SerializationSettings.File, bundle); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Println("Done.")
	return nil
}

func processRequests(r io.Reader, w io.Writer) error {
	doc, err := readDocument(r)
	if err != nil {
		return err
	}

	bundle, err := snapshot.Load(doc.SerializationSettings.File)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	mapDoc := renderer.RenderFromProjection(bundle.Catalogue, bundle.Polylines, bundle.Circles, bundle.RenderSettings)

	requests, err := requestdoc.ParseStatRequests(doc.StatRequests)
	if err != nil {
		return err
	}

	disp := dispatcher.New(bundle.Catalogue, bundle.TransitRouter, mapDoc.Render())
	answers, err := disp.Dispatch(requests)
	if err != nil {
		return err
	}

	out, err := dispatcher.MarshalAnswers(answers)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = w.Write(out)
	return err
}
