package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllFamilies(t *testing.T) {
	results := Run(&Config{
		Requests:    200,
		Concurrency: 4,
		KeySpace:    16,
		Commands:    []string{"SET", "GET", "HSET", "RPUSH", "SADD", "ZADD"},
		Quiet:       true,
	})

	require.Len(t, results, 6)
	for _, r := range results {
		assert.Equal(t, int64(200), r.Requests)
		assert.Equal(t, int64(0), r.Errors, "command %s reported errors", r.Command)
		assert.Len(t, r.Latencies, 200)
		assert.Greater(t, r.Throughput, 0.0)
		assert.GreaterOrEqual(t, r.P99Latency, r.P50Latency)
	}
}

func TestRunUnknownCommandCountsErrors(t *testing.T) {
	results := Run(&Config{
		Requests:    10,
		Concurrency: 1,
		Commands:    []string{"BOGUS"},
		Quiet:       true,
	})

	require.Len(t, results, 1)
	assert.Equal(t, int64(10), results[0].Errors)
}

func TestConfigDefaultsApplied(t *testing.T) {
	results := Run(&Config{
		Requests:    5,
		Concurrency: 0, // clamped to 1
		Commands:    []string{"SET"},
		Quiet:       true,
	})

	require.Len(t, results, 1)
	assert.Equal(t, int64(0), results[0].Errors)
}
