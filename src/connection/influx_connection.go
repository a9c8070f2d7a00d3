// Package connection contains the InfluxConnection type and methods for building and querying the connection
package connection

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/influxdata/influxdb1-client/models"
	influx "github.com/influxdata/influxdb1-client/v2"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/newrelic/nri-procstat/src/args"
)

// Client is the subset of the InfluxDB client surface used by the
// integration. Tests substitute fake implementations for it.
type Client interface {
	Ping(timeout time.Duration) (time.Duration, string, error)
	Query(q influx.Query) (*influx.Response, error)
	Close() error
}

// InfluxConnection represents a wrapper around an InfluxDB HTTP connection
type InfluxConnection struct {
	Client   Client
	Host     string
	Database string
	Timeout  time.Duration
}

// NewConnection creates a new InfluxConnection from args. The underlying
// client does not dial the server, so connectivity failures surface on the
// first query rather than here.
func NewConnection(args *args.ArgumentList) (*InfluxConnection, error) {
	timeoutSeconds, err := strconv.Atoi(args.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout '%s': %w", args.Timeout, err)
	}
	timeout := time.Duration(timeoutSeconds) * time.Second

	client, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:               CreateConnectionURL(args),
		Username:           args.Username,
		Password:           args.Password,
		Timeout:            timeout,
		InsecureSkipVerify: args.TrustServerCertificate,
	})
	if err != nil {
		return nil, err
	}

	return &InfluxConnection{
		Client:   client,
		Host:     args.Hostname,
		Database: args.Database,
		Timeout:  timeout,
	}, nil
}

// Close closes the InfluxDB connection. If an error occurs
// it is logged as a warning.
func (ic *InfluxConnection) Close() {
	if err := ic.Client.Close(); err != nil {
		log.Warn("Unable to close InfluxDB Connection: %s", err.Error())
	}
}

// Query runs an InfluxQL statement against the configured database at
// nanosecond precision and returns the result rows.
func (ic *InfluxConnection) Query(command string) ([]models.Row, error) {
	return ic.QueryDatabase(ic.Database, command)
}

// QueryDatabase runs an InfluxQL statement against the given database at
// nanosecond precision and returns the result rows.
func (ic *InfluxConnection) QueryDatabase(database, command string) ([]models.Row, error) {
	response, err := ic.Client.Query(influx.NewQuery(command, database, "ns"))
	if err != nil {
		return nil, err
	}
	if err := response.Error(); err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0)
	for _, result := range response.Results {
		if result.Err != "" {
			return nil, errors.New(result.Err)
		}
		rows = append(rows, result.Series...)
	}
	return rows, nil
}

// Ping checks reachability of the server and returns the round-trip time
// and the version the server reports.
func (ic *InfluxConnection) Ping() (time.Duration, string, error) {
	return ic.Client.Ping(ic.Timeout)
}

// CreateConnectionURL takes in args and creates the connection URL.
// All args should be validated before calling this.
func CreateConnectionURL(args *args.ArgumentList) string {
	connectionURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%s", args.Hostname, args.Port),
	}

	if args.EnableSSL {
		connectionURL.Scheme = "https"
	}

	connectionString := connectionURL.String()
	log.Debug("CreateConnectionURL: url: %s", connectionString)
	return connectionString
}
