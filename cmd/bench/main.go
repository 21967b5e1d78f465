package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"rostersearch/internal/engine"
	"rostersearch/internal/record"
)

const defaultNumRecords = 50000

func main() {
	numRecords := defaultNumRecords
	if len(os.Args) >= 2 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			numRecords = n
		}
	}

	fmt.Println("Roster Search Benchmark")
	fmt.Println("=======================")
	fmt.Println()

	benchStart := time.Now()

	raws := generateRecords(numRecords)
	fmt.Printf("Generated %d synthetic records\n\n", len(raws))

	eng := runPrepareBenchmark(raws)

	runAllQueryBenchmarks(eng)

	fmt.Printf("Total time: %.2f seconds\n", time.Since(benchStart).Seconds())
}

func runPrepareBenchmark(raws []record.Raw) *engine.Engine {
	fmt.Println("PREPARE + LOAD")
	fmt.Println("--------------")

	// Cache disabled so query timings below measure evaluation, not lookups.
	cfg := engine.DefaultConfig()
	cfg.CacheSize = 0

	// Warm up run
	warm := engine.New(cfg)
	warm.SetRecords(record.Prepare(raws[:min(1000, len(raws))]))

	var totalTime time.Duration
	runs := 3

	var eng *engine.Engine
	for i := 0; i < runs; i++ {
		start := time.Now()

		e := engine.New(cfg)
		if err := e.SetRecords(record.Prepare(raws)); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		totalTime += time.Since(start)
		eng = e
	}

	avgTime := totalTime / time.Duration(runs)
	throughput := float64(len(raws)) / avgTime.Seconds()

	fmt.Printf("  Records:    %d\n", len(raws))
	fmt.Printf("  Time:       %v\n", avgTime.Round(time.Millisecond))
	fmt.Printf("  Throughput: %.0f records/sec\n", throughput)
	fmt.Println()

	return eng
}

func runAllQueryBenchmarks(eng *engine.Engine) {
	fmt.Println("TERM QUERIES")
	fmt.Println("------------")
	runQueries(eng, []string{
		// Common surname (substring match across many records)
		"smith",
		"johnson",
		"anderson",
		// Short term, narrow fuzzy radius
		"zoe",
		// Typos at increasing edit distance
		"smtih",
		"johnsn",
		"andersson",
		// Multi-token
		"alice johnson",
		"maria rodriguez",
	})

	fmt.Println("FIELD QUERIES")
	fmt.Println("-------------")
	runQueries(eng, []string{
		"name:smith",
		"role:professor",
		"role:nurse",
		`role:"assistant professor"`,
		"org:athletics",
		"org:medical",
		`org:"wexner medical center"`,
		"type:classified",
		"status:active",
	})

	fmt.Println("PAY QUERIES")
	fmt.Println("-----------")
	runQueries(eng, []string{
		"pay:>100k",
		"pay:<30000",
		"pay:50k-80k",
		"professor pay:>150000",
	})

	fmt.Println("NEGATION + DIRECTIVES")
	fmt.Println("---------------------")
	runQueries(eng, []string{
		"smith -johnson",
		"professor -role:assistant",
		"nurse sort:salary",
		"smith sort:tenure",
		"org:athletics sort:recent",
	})

	fmt.Println("REGEX QUERIES")
	fmt.Println("-------------")
	runQueries(eng, []string{
		"/sm[iy]th/",
		"/anders(o|e)n/i",
		"/^alice/",
		"/professor$/",
	})
}

func runQueries(eng *engine.Engine, queries []string) {
	now := time.Now().UnixMilli()
	for _, q := range queries {
		latency, hits := benchmarkQuery(eng, q, now)
		fmt.Printf("  %-40s %s  (%d hits)\n", q, formatLatency(latency), hits)
	}
	fmt.Println()
}

func benchmarkQuery(eng *engine.Engine, query string, now int64) (time.Duration, int) {
	var hits int

	// Warm up
	for i := 0; i < 5; i++ {
		res := eng.Search(engine.Request{Query: query, NowTs: now})
		hits = len(res.Names)
	}

	iterations := 200
	start := time.Now()
	for i := 0; i < iterations; i++ {
		eng.Search(engine.Request{Query: query, NowTs: now})
	}
	return time.Since(start) / time.Duration(iterations), hits
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%8.2f µs", float64(d.Nanoseconds())/1000)
}
