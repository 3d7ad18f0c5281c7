// Package benchmark measures in-process command throughput and latency
// against a client, one command family at a time.
package benchmark

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"redmock"
)

// Result represents the outcome of one benchmarked command.
type Result struct {
	Command    string
	Requests   int64
	Duration   time.Duration
	Latencies  []time.Duration
	Errors     int64
	Throughput float64
	P50Latency time.Duration
	P95Latency time.Duration
	P99Latency time.Duration
}

// Config holds the configuration for a benchmark run.
type Config struct {
	Requests    int
	Concurrency int
	KeySpace    int
	Commands    []string
	Quiet       bool
}

// Run benchmarks each configured command against a fresh client.
func Run(config *Config) []Result {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.KeySpace < 1 {
		config.KeySpace = 1000
	}

	var results []Result
	for _, command := range config.Commands {
		if !config.Quiet {
			fmt.Printf("Testing %s...\n", command)
		}
		results = append(results, runCommand(config, command))
	}
	return results
}

func runCommand(config *Config, command string) Result {
	client := redmock.New()
	result := Result{
		Command:  command,
		Requests: int64(config.Requests),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	start := time.Now()

	requestsPerWorker := config.Requests / config.Concurrency
	remaining := config.Requests % config.Concurrency

	for i := 0; i < config.Concurrency; i++ {
		reqs := requestsPerWorker
		if i < remaining {
			reqs++
		}

		wg.Add(1)
		go func(workerID, reqs int) {
			defer wg.Done()
			latencies := make([]time.Duration, 0, reqs)

			for j := 0; j < reqs; j++ {
				key := "bench:" + strconv.Itoa((workerID+j)%config.KeySpace)
				opStart := time.Now()
				if err := runOp(client, command, key, j); err != nil {
					atomic.AddInt64(&result.Errors, 1)
				}
				latencies = append(latencies, time.Since(opStart))
			}

			mu.Lock()
			result.Latencies = append(result.Latencies, latencies...)
			mu.Unlock()
		}(i, reqs)
	}
	wg.Wait()

	result.Duration = time.Since(start)
	if result.Duration > 0 {
		result.Throughput = float64(config.Requests) / result.Duration.Seconds()
	}
	computePercentiles(&result)
	return result
}

// runOp executes one iteration of the named command family.
func runOp(client *redmock.Client, command, key string, i int) error {
	value := "value-" + strconv.Itoa(i)
	switch command {
	case "SET":
		client.Set(key, value)
		return nil
	case "GET":
		_, err := client.Get(key)
		return err
	case "HSET":
		return client.HSet(key, "field-"+strconv.Itoa(i%16), value)
	case "RPUSH":
		_, err := client.RPush(key, value)
		return err
	case "SADD":
		_, err := client.SAdd(key, value)
		return err
	case "ZADD":
		_, err := client.ZAdd(key, map[string]float64{value: float64(i)})
		return err
	default:
		return fmt.Errorf("unknown benchmark command %q", command)
	}
}

func computePercentiles(result *Result) {
	if len(result.Latencies) == 0 {
		return
	}
	sort.Slice(result.Latencies, func(i, j int) bool {
		return result.Latencies[i] < result.Latencies[j]
	})
	result.P50Latency = percentile(result.Latencies, 50)
	result.P95Latency = percentile(result.Latencies, 95)
	result.P99Latency = percentile(result.Latencies, 99)
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Print renders results in the redis-benchmark text style.
func Print(results []Result) {
	for _, r := range results {
		fmt.Printf("====== %s ======\n", r.Command)
		fmt.Printf("  %d requests completed in %.2f seconds\n", r.Requests, r.Duration.Seconds())
		fmt.Printf("  %.2f requests per second\n", r.Throughput)
		if r.Errors > 0 {
			fmt.Printf("  %d errors\n", r.Errors)
		}
		fmt.Printf("  p50=%v p95=%v p99=%v\n\n", r.P50Latency, r.P95Latency, r.P99Latency)
	}
}
