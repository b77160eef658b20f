// Command crosscheck runs a one-shot overlap scan between two text files
// and prints the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crosscheck-io/crosscheck/internal/engine"
	"github.com/crosscheck-io/crosscheck/pkg/config"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
)

func main() {
	refPath := flag.String("ref", "", "path to the reference document")
	suspectPath := flag.String("suspect", "", "path to the suspect document")
	shingleLen := flag.Int("n", 3, "tokens per shingle")
	window := flag.Int("w", 3, "winnowing window size")
	topK := flag.Int("k", 5, "number of top phrases to report")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(*logLevel, "text")

	if *refPath == "" || *suspectPath == "" {
		fmt.Fprintln(os.Stderr, "usage: crosscheck -ref <file> -suspect <file> [-n N] [-w W] [-k K]")
		os.Exit(2)
	}

	reference, err := os.ReadFile(*refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read reference document: %v\n", err)
		os.Exit(1)
	}
	suspect, err := os.ReadFile(*suspectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read suspect document: %v\n", err)
		os.Exit(1)
	}

	cfg := config.EngineConfig{
		ShingleLen:    *shingleLen,
		WinnowWindow:  *window,
		TopK:          *topK,
		BloomBits:     1_000_000,
		IndexCapacity: 100_003,
	}
	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid parameters: %v\n", err)
		os.Exit(2)
	}

	report, err := eng.Scan(context.Background(), string(reference), string(suspect))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("overlap score:    %.1f%%\n", report.ScorePercent)
	fmt.Printf("total matches:    %d\n", report.TotalMatches)
	fmt.Printf("distinct matches: %d\n", report.DistinctMatches)
	fmt.Printf("index size:       %d\n", report.IndexSize)
	fmt.Printf("bloom rejects:    %d\n", report.BloomRejects)

	if len(report.Ranked) == 0 {
		fmt.Println("\nno matching phrases")
		return
	}
	fmt.Println("\ntop matching phrases:")
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  COUNT\tPHRASE")
	for _, p := range report.Ranked {
		fmt.Fprintf(tw, "  %d\t%q\n", p.Count, p.Text)
	}
	tw.Flush()
}
