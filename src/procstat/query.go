// Package procstat renders and executes the process usage summary query
// against the procstat measurement.
package procstat

import (
	"fmt"
	"strings"
)

const (
	// Measurement is the InfluxDB measurement holding per-process usage samples.
	Measurement = "procstat"

	// BucketWidth is the interval samples are grouped into before summation.
	BucketWidth = "10s"

	// PercentileLevel is applied to the per-bucket sums across the window.
	PercentileLevel = 90

	nanosecondsPerSecond = 1_000_000_000
)

// usageQueryFormat sums cpu_usage/memory_usage per time bucket in the inner
// statement and takes the percentile of those sums in the outer one. The
// max_* aliases are kept for compatibility with existing consumers even
// though the values are percentiles, not maxima.
const usageQueryFormat = "SELECT percentile(sum_cpu_usage, %d) AS max_cpu_usage, percentile(sum_memory_usage, %d) AS max_mem_usage " +
	"FROM (SELECT SUM(cpu_usage) AS sum_cpu_usage, SUM(memory_usage) AS sum_memory_usage " +
	"FROM %s WHERE pattern = %s AND time >= %d AND time <= %d GROUP BY time(%s))"

// SecondsToNanoseconds converts a timestamp in whole seconds to the
// store's native nanosecond resolution.
func SecondsToNanoseconds(seconds int64) int64 {
	return seconds * nanosecondsPerSecond
}

// BuildUsageQuery renders the usage summary query for processName over the
// inclusive [startSeconds, endSeconds] window.
func BuildUsageQuery(processName string, startSeconds, endSeconds int64) string {
	return fmt.Sprintf(usageQueryFormat,
		PercentileLevel, PercentileLevel,
		Measurement,
		quoteStringLiteral(processName),
		SecondsToNanoseconds(startSeconds),
		SecondsToNanoseconds(endSeconds),
		BucketWidth,
	)
}

// quoteStringLiteral renders s as a single-quoted InfluxQL string literal,
// escaping backslashes and embedded quotes so the value cannot break out of
// the literal.
func quoteStringLiteral(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// QuoteIdentifier renders s as a double-quoted InfluxQL identifier.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
