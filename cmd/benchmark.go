package main

import (
	"strings"

	"github.com/spf13/cobra"

	"redmock/internal/benchmark"
)

// benchmarkCmd measures in-process command throughput
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark store commands in-process",
	Long: `Benchmark store commands against a fresh in-process client.

Examples:
  redmock benchmark
  redmock benchmark -n 100000 -c 8
  redmock benchmark -t SET,GET,ZADD`,
	Run: func(cmd *cobra.Command, args []string) {
		commands := strings.Split(getStringFlag(cmd, "tests", "SET,GET,HSET,RPUSH,SADD,ZADD"), ",")
		for i, c := range commands {
			commands[i] = strings.ToUpper(strings.TrimSpace(c))
		}

		results := benchmark.Run(&benchmark.Config{
			Requests:    getIntFlag(cmd, "requests", 100000),
			Concurrency: getIntFlag(cmd, "concurrency", 4),
			KeySpace:    getIntFlag(cmd, "keyspace", 1000),
			Commands:    commands,
			Quiet:       getBoolFlag(cmd, "quiet"),
		})
		benchmark.Print(results)
	},
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().IntP("requests", "n", 100000, "Total number of requests")
	benchmarkCmd.Flags().IntP("concurrency", "c", 4, "Number of parallel workers")
	benchmarkCmd.Flags().IntP("keyspace", "r", 1000, "Use random keys from this keyspace")
	benchmarkCmd.Flags().StringP("tests", "t", "SET,GET,HSET,RPUSH,SADD,ZADD", "Comma-separated command families to run")
	benchmarkCmd.Flags().BoolP("quiet", "q", false, "Only show results")
}

func getIntFlag(cmd *cobra.Command, name string, defaultValue int) int {
	if value, err := cmd.Flags().GetInt(name); err == nil {
		return value
	}
	return defaultValue
}

func getBoolFlag(cmd *cobra.Command, name string) bool {
	if value, err := cmd.Flags().GetBool(name); err == nil {
		return value
	}
	return false
}
