// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Command mpsibench runs the delegated approximate MPSI protocol
// end-to-end over an in-memory mesh and reports the querier's timing to
// a CSV file.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/approxmpsi/delegated-mpsi/mpsi"
	"github.com/approxmpsi/delegated-mpsi/netsim"
	"github.com/approxmpsi/delegated-mpsi/setgen"
	"github.com/approxmpsi/delegated-mpsi/stats"
)

func main() {
	partyCount := flag.Int("n", 5, "total party count (server + querier + clients)")
	setSize := flag.Int("k", 32, "per-party set size")
	domainSize := flag.Int("u", 256, "domain size")
	binCount := flag.Int("m", 1024, "minimum bin count (rounded up to a multiple of 64)")
	hashCount := flag.Int("h", 4, "hash count")
	intersectionSize := flag.Int("i", 4, "size of the guaranteed common intersection")
	repetitions := flag.Int("r", 1, "number of repetitions")
	resultsFile := flag.String("f", "results.csv", "CSV output path")
	flag.Parse()

	logger := log.New(os.Stderr, "mpsibench: ", log.LstdFlags)

	if *partyCount < 3 {
		logger.Fatalf("party count must be >= 3, got %d", *partyCount)
	}

	params := mpsi.NewParams(*binCount, *hashCount, *domainSize, *setSize)
	timings := stats.NewTimings()

	for rep := 0; rep < *repetitions; rep++ {
		out, elapsed, err := runOnce(logger, params, *partyCount, *setSize, *domainSize, *intersectionSize, int64(rep))
		if err != nil {
			logger.Fatalf("repetition %d: %v", rep, err)
		}
		timings.Record(rep, 1, elapsed)
		logger.Printf("repetition %d: querier recovered %d elements in %v", rep, out, elapsed)
	}

	if err := stats.WriteCSV(*resultsFile, 1, timings); err != nil {
		logger.Fatalf("writing results: %v", err)
	}
}

func runOnce(logger *log.Logger, params mpsi.Params, n, setSize, domainSize, intersectionSize int, repSeed int64) (int, time.Duration, error) {
	sets, err := setgen.UniformIntersection(n-1, setSize, domainSize, intersectionSize, repSeed)
	if err != nil {
		return 0, 0, fmt.Errorf("generating sets: %w", err)
	}

	seeds, err := mpsi.Setup(n, rand.Reader)
	if err != nil {
		return 0, 0, fmt.Errorf("protocol setup: %w", err)
	}

	mesh := netsim.NewMesh(n)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, n)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Printf("starting server role")
		server := &mpsi.Party{ID: 0, Params: params, Seeds: seeds[0]}
		if err := server.RunServer(ctx, n, mesh.For(0)); err != nil {
			errs <- fmt.Errorf("server: %w", err)
		}
	}()

	for id := 2; id < n; id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &mpsi.Party{ID: id, Params: params, Seeds: seeds[id]}
			if err := client.RunClient(ctx, sets[id-1], mesh.For(id), rand.Reader); err != nil {
				errs <- fmt.Errorf("client %d: %w", id, err)
			}
		}()
	}

	start := time.Now()
	querier := &mpsi.Party{ID: 1, Params: params, Seeds: seeds[1]}
	out, err := querier.RunQuerier(ctx, sets[0], mesh.For(1), rand.Reader)
	elapsed := time.Since(start)
	if err != nil {
		return 0, 0, fmt.Errorf("querier: %w", err)
	}

	wg.Wait()
	close(errs)
	for e := range errs {
		if e != nil {
			return 0, 0, e
		}
	}

	logger.Printf("aggregated %d client shares, query returned %d positive", n-2, out.Len())
	return out.Len(), elapsed, nil
}
