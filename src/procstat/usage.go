package procstat

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/influxdata/influxdb1-client/models"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

// ErrEmptyProcessName is returned when a usage summary is requested without
// a process pattern.
var ErrEmptyProcessName = errors.New("process name must not be empty")

// UsageSummary holds the usage percentiles for one process pattern over a
// window. The max_* keys are kept for compatibility with the procstat
// consumers; the values are 90th percentiles of 10-second bucketed sums,
// not true maxima.
type UsageSummary struct {
	MaxCPUUsage float64 `json:"max_cpu_usage"`
	MaxMemUsage float64 `json:"max_mem_usage"`
}

// Querier executes an InfluxQL statement and returns its rows.
// connection.InfluxConnection satisfies it; tests substitute fakes.
type Querier interface {
	Query(command string) ([]models.Row, error)
}

// UsageSummaryFor returns the usage summary for processName between
// startSeconds and endSeconds, both inclusive. A nil summary with a nil
// error means the window holds no data.
func UsageSummaryFor(q Querier, processName string, startSeconds, endSeconds int64) (*UsageSummary, error) {
	if processName == "" {
		return nil, ErrEmptyProcessName
	}

	rows, err := q.Query(BuildUsageQuery(processName, startSeconds, endSeconds))
	if err != nil {
		return nil, fmt.Errorf("querying usage summary for pattern '%s': %w", processName, err)
	}

	return firstSummary(rows)
}

// LookupUsageSummary preserves the legacy merged contract: a failed query is
// logged once and reported as the same nil result an empty window produces.
// Callers that need to tell the two apart use UsageSummaryFor.
func LookupUsageSummary(q Querier, processName string, startSeconds, endSeconds int64) *UsageSummary {
	summary, err := UsageSummaryFor(q, processName, startSeconds, endSeconds)
	if err != nil {
		log.Error("Failed to query InfluxDB: %s", err.Error())
		return nil
	}
	return summary
}

// firstSummary extracts the first data-bearing row of the result set.
func firstSummary(rows []models.Row) (*UsageSummary, error) {
	for _, row := range rows {
		if len(row.Values) == 0 {
			continue
		}
		return summaryFromRow(row.Columns, row.Values[0])
	}
	return nil, nil
}

func summaryFromRow(columns []string, values []interface{}) (*UsageSummary, error) {
	summary := &UsageSummary{}
	for i, column := range columns {
		if i >= len(values) {
			break
		}

		var target *float64
		switch column {
		case "max_cpu_usage":
			target = &summary.MaxCPUUsage
		case "max_mem_usage":
			target = &summary.MaxMemUsage
		default:
			continue
		}

		value, err := FloatValue(values[i])
		if err != nil {
			return nil, fmt.Errorf("parsing column '%s': %w", column, err)
		}
		*target = value
	}
	return summary, nil
}

// FloatValue converts a raw result value to a float64. The HTTP client
// decodes numbers as json.Number; nil marks an empty bucket and counts as
// zero.
func FloatValue(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unexpected value type %T", raw)
	}
}
