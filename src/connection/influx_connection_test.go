package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb1-client/models"
	influx "github.com/influxdata/influxdb1-client/v2"
	"github.com/newrelic/nri-procstat/src/args"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransport = errors.New("something went wrong while talking to InfluxDB")

// fakeClient implements Client for tests and records the queries it receives.
type fakeClient struct {
	response *influx.Response
	err      error
	closeErr error
	queries  []influx.Query
}

func (f *fakeClient) Ping(timeout time.Duration) (time.Duration, string, error) {
	return time.Millisecond, "1.8.10", f.err
}

func (f *fakeClient) Query(q influx.Query) (*influx.Response, error) {
	f.queries = append(f.queries, q)
	return f.response, f.err
}

func (f *fakeClient) Close() error {
	return f.closeErr
}

func newTestConnection(client Client) *InfluxConnection {
	return &InfluxConnection{
		Client:   client,
		Host:     "localhost",
		Database: "telegraf",
		Timeout:  30 * time.Second,
	}
}

func Test_InfluxConnection_Close(t *testing.T) {
	client := &fakeClient{closeErr: errTransport}
	conn := newTestConnection(client)

	// Close must swallow the error, only logging it.
	conn.Close()
}

func Test_InfluxConnection_Query(t *testing.T) {
	row := models.Row{
		Name:    "procstat",
		Columns: []string{"time", "max_cpu_usage"},
		Values:  [][]interface{}{{int64(0), 12.5}},
	}
	client := &fakeClient{
		response: &influx.Response{
			Results: []influx.Result{{Series: []models.Row{row}}},
		},
	}
	conn := newTestConnection(client)

	rows, err := conn.Query("SELECT max_cpu_usage FROM procstat")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row, rows[0])

	require.Len(t, client.queries, 1)
	assert.Equal(t, "telegraf", client.queries[0].Database)
	assert.Equal(t, "ns", client.queries[0].Precision)
}

func Test_InfluxConnection_Query_TransportError(t *testing.T) {
	conn := newTestConnection(&fakeClient{err: errTransport})

	rows, err := conn.Query("SELECT max_cpu_usage FROM procstat")
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, errTransport)
}

func Test_InfluxConnection_Query_ResponseError(t *testing.T) {
	conn := newTestConnection(&fakeClient{
		response: &influx.Response{Err: "database not found"},
	})

	rows, err := conn.Query("SELECT max_cpu_usage FROM procstat")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "database not found")
}

func Test_InfluxConnection_Query_ResultError(t *testing.T) {
	conn := newTestConnection(&fakeClient{
		response: &influx.Response{
			Results: []influx.Result{{Err: "retention policy not found"}},
		},
	})

	rows, err := conn.Query("SELECT max_cpu_usage FROM procstat")
	assert.Nil(t, rows)
	assert.EqualError(t, err, "retention policy not found")
}

func Test_InfluxConnection_QueryDatabase(t *testing.T) {
	client := &fakeClient{response: &influx.Response{}}
	conn := newTestConnection(client)

	_, err := conn.QueryDatabase("custom", "SHOW MEASUREMENTS")
	require.NoError(t, err)
	require.Len(t, client.queries, 1)
	assert.Equal(t, "custom", client.queries[0].Database)
}

func Test_createConnectionURL(t *testing.T) {
	testCases := []struct {
		name string
		arg  *args.ArgumentList
		want string
	}{
		{
			"Plain HTTP",
			&args.ArgumentList{
				Hostname: "localhost",
				Port:     "8086",
			},
			"http://localhost:8086",
		},
		{
			"SSL",
			&args.ArgumentList{
				Hostname:  "influx.internal",
				Port:      "8087",
				EnableSSL: true,
			},
			"https://influx.internal:8087",
		},
	}

	for _, tc := range testCases {
		if out := CreateConnectionURL(tc.arg); out != tc.want {
			t.Errorf("Test Case %s Failed: Expected '%s' got '%s'", tc.name, tc.want, out)
		}
	}
}

func Test_NewConnection_InvalidTimeout(t *testing.T) {
	_, err := NewConnection(&args.ArgumentList{
		Hostname: "localhost",
		Port:     "8086",
		Timeout:  "forever",
	})
	assert.Error(t, err)
}

func Test_NewConnection(t *testing.T) {
	conn, err := NewConnection(&args.ArgumentList{
		Hostname: "localhost",
		Port:     "8086",
		Database: "telegraf",
		Timeout:  "30",
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "localhost", conn.Host)
	assert.Equal(t, "telegraf", conn.Database)
	assert.Equal(t, 30*time.Second, conn.Timeout)
}
