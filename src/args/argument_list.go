// Package args contains the argument list, defined as a struct, along with a method that validates passed-in args
package args

import (
	"errors"
	"strconv"
	"strings"
	"time"

	sdkArgs "github.com/newrelic/infra-integrations-sdk/v3/args"
)

// ArgumentList struct that holds all nri-procstat arguments
type ArgumentList struct {
	sdkArgs.DefaultArgumentList
	Username               string `default:"root" help:"The InfluxDB connection user name"`
	Password               string `default:"" help:"The InfluxDB connection password"`
	Hostname               string `default:"127.0.0.1" help:"The InfluxDB connection host name"`
	Port                   string `default:"8086" help:"The InfluxDB HTTP port to connect to"`
	Database               string `default:"" help:"The InfluxDB database holding the procstat measurement"`
	EnableSSL              bool   `default:"false" help:"If true will connect over https, false will connect over http"`
	TrustServerCertificate bool   `default:"false" help:"If true server certificate is not verified when connecting over https"`
	Timeout                string `default:"30" help:"Timeout in seconds for a single query. Set 0 for no timeout"`
	ProcessList            string `default:"" help:"Comma-separated list of process patterns to collect usage summaries for"`
	WindowSeconds          int    `default:"600" help:"Length in seconds of the usage window ending now. Ignored when start_time and end_time are set"`
	StartTime              int64  `default:"0" help:"Start of the usage window as a unix timestamp in seconds. Requires end_time"`
	EndTime                int64  `default:"0" help:"End of the usage window as a unix timestamp in seconds. Requires start_time"`
	CustomMetricsQuery     string `default:"" help:"An InfluxQL query to collect custom metrics from"`
	CustomMetricsConfig    string `default:"" help:"YAML configuration file with one or more custom InfluxQL queries to collect custom metrics from"`
}

// Validate validates InfluxDB specific arguments
func (al ArgumentList) Validate() error {
	if al.Hostname == "" {
		return errors.New("invalid configuration: must specify a hostname")
	}

	if _, err := strconv.Atoi(al.Port); err != nil {
		return errors.New("invalid configuration: port must be a number")
	}

	if _, err := strconv.Atoi(al.Timeout); err != nil {
		return errors.New("invalid configuration: timeout must be a number of seconds")
	}

	if (al.StartTime == 0) != (al.EndTime == 0) {
		return errors.New("invalid configuration: start_time and end_time must be specified together")
	}

	if al.StartTime != 0 && al.StartTime > al.EndTime {
		return errors.New("invalid configuration: start_time must not be after end_time")
	}

	if al.StartTime == 0 && al.WindowSeconds <= 0 {
		return errors.New("invalid configuration: window_seconds must be positive")
	}

	if al.CustomMetricsQuery != "" && al.CustomMetricsConfig != "" {
		return errors.New("invalid configuration: cannot specify both custom_metrics_query and custom_metrics_config")
	}

	return nil
}

// Processes returns the configured process patterns with empty entries removed.
func (al ArgumentList) Processes() []string {
	processes := make([]string, 0)
	for _, process := range strings.Split(al.ProcessList, ",") {
		if trimmed := strings.TrimSpace(process); trimmed != "" {
			processes = append(processes, trimmed)
		}
	}
	return processes
}

// Window resolves the usage window to start and end timestamps in whole
// seconds, both inclusive. Explicit start_time/end_time take precedence,
// otherwise the window ends at now and reaches back window_seconds.
func (al ArgumentList) Window(now time.Time) (startSeconds, endSeconds int64) {
	if al.StartTime != 0 || al.EndTime != 0 {
		return al.StartTime, al.EndTime
	}
	endSeconds = now.Unix()
	return endSeconds - int64(al.WindowSeconds), endSeconds
}
