// README: Benchmark runner for the transform pipeline; writes a JSON report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	reports, err := bench.RunAll(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench failed:", err)
		os.Exit(1)
	}

	fmt.Println("\n== Summary ==")
	for _, r := range reports {
		fmt.Printf("%-40s n=%-8d p50=%8.3fms p95=%8.3fms %12.0f pts/s  %s\n",
			r.Name, r.N, r.P50Ms, r.P95Ms, r.ThroughputPtsPerS, r.Notes)
	}

	if cfg.Out != "" {
		raw, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal report:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(cfg.Out, raw, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "write report:", err)
			os.Exit(1)
		}
		fmt.Println("report written to", cfg.Out)
	}
}

type Config struct {
	Out        string
	Iterations int
	Timeout    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.Out, "out", envOrDefault("BRIDGET_BENCH_OUT", "bench.json"), "JSON report output path (empty to skip)")
	flag.IntVar(&cfg.Iterations, "iterations", envOrDefaultInt("BRIDGET_BENCH_ITERATIONS", 20), "Runs per case")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("BRIDGET_BENCH_TIMEOUT", 5*time.Minute), "Total timeout")
	flag.Parse()
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
