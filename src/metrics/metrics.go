// Package metrics contains all the code that is used to collect metrics from the target
package metrics

import (
	"time"

	"github.com/newrelic/infra-integrations-sdk/v3/data/attribute"
	"github.com/newrelic/infra-integrations-sdk/v3/data/metric"
	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/newrelic/nri-procstat/src/args"
	"github.com/newrelic/nri-procstat/src/connection"
	"github.com/newrelic/nri-procstat/src/procstat"
)

// PopulateProcessMetrics creates a usage sample for each configured process
// pattern over the window the arguments resolve to. A pattern with no data
// in the window produces no sample.
func PopulateProcessMetrics(instanceEntity *integration.Entity, con *connection.InfluxConnection, arguments args.ArgumentList) {
	startSeconds, endSeconds := arguments.Window(time.Now())

	for _, processName := range arguments.Processes() {
		summary := procstat.LookupUsageSummary(con, processName, startSeconds, endSeconds)
		if summary == nil {
			log.Debug("No usage data for pattern '%s' between %d and %d", processName, startSeconds, endSeconds)
			continue
		}

		metricSet := instanceEntity.NewMetricSet("ProcstatUsageSample",
			attribute.Attribute{Key: "displayName", Value: instanceEntity.Metadata.Name},
			attribute.Attribute{Key: "entityName", Value: instanceEntity.Metadata.Namespace + ":" + instanceEntity.Metadata.Name},
			attribute.Attribute{Key: "host", Value: con.Host},
			attribute.Attribute{Key: "pattern", Value: processName},
		)

		metrics := []struct {
			metricName  string
			metricValue interface{}
			metricType  metric.SourceType
		}{
			{"usage.maxCpuUsage", summary.MaxCPUUsage, metric.GAUGE},
			{"usage.maxMemUsage", summary.MaxMemUsage, metric.GAUGE},
			{"usage.windowStartSeconds", startSeconds, metric.GAUGE},
			{"usage.windowEndSeconds", endSeconds, metric.GAUGE},
		}

		for _, m := range metrics {
			if err := metricSet.SetMetric(m.metricName, m.metricValue, m.metricType); err != nil {
				log.Error("Could not set usage metric '%s' for pattern '%s': %s", m.metricName, processName, err.Error())
			}
		}
	}

	if arguments.CustomMetricsQuery != "" {
		populateCustomMetrics(instanceEntity, con, customQuery{Query: arguments.CustomMetricsQuery})
	} else if arguments.CustomMetricsConfig != "" {
		queries, err := loadCustomQueries(arguments.CustomMetricsConfig)
		if err != nil {
			log.Error("Failed to parse custom metrics config: %s", err.Error())
			return
		}
		for _, query := range queries {
			populateCustomMetrics(instanceEntity, con, query)
		}
	}
}

// populateCustomMetrics runs one custom InfluxQL query and creates a metric
// set per result row. Numeric columns become gauges, string columns and
// series tags become attributes.
func populateCustomMetrics(instanceEntity *integration.Entity, con *connection.InfluxConnection, query customQuery) {
	database := con.Database
	if query.Database != "" {
		database = query.Database
	}

	rows, err := con.QueryDatabase(database, query.Query)
	if err != nil {
		log.Error("Could not execute custom query: %s", err.Error())
		return
	}

	eventType := query.EventType
	if eventType == "" {
		eventType = "ProcstatCustomQuerySample"
	}

	for _, row := range rows {
		for _, values := range row.Values {
			attributes := []attribute.Attribute{
				{Key: "displayName", Value: instanceEntity.Metadata.Name},
				{Key: "entityName", Value: instanceEntity.Metadata.Namespace + ":" + instanceEntity.Metadata.Name},
				{Key: "host", Value: con.Host},
				{Key: "query", Value: query.Query},
			}
			for tag, tagValue := range row.Tags {
				attributes = append(attributes, attribute.Attribute{Key: tag, Value: tagValue})
			}
			metricSet := instanceEntity.NewMetricSet(eventType, attributes...)

			for i, column := range row.Columns {
				if column == "time" || i >= len(values) || values[i] == nil {
					continue
				}

				name := query.Prefix + column
				if text, ok := values[i].(string); ok {
					if err := metricSet.SetMetric(name, text, metric.ATTRIBUTE); err != nil {
						log.Error("Could not set custom attribute '%s': %s", name, err.Error())
					}
					continue
				}

				value, err := procstat.FloatValue(values[i])
				if err != nil {
					log.Debug("Skipping custom column '%s': %s", column, err.Error())
					continue
				}
				if err := metricSet.SetMetric(name, value, metric.GAUGE); err != nil {
					log.Error("Could not set custom metric '%s': %s", name, err.Error())
				}
			}
		}
	}
}
