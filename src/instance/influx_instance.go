// Package instance contains helper methods for creating the server entity
package instance

import (
	"fmt"

	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/newrelic/nri-procstat/src/connection"
)

// CreateInstanceEntity pings the server and creates an entity for it.
// The ping is the first round-trip to the store, so connection problems
// surface here rather than at construction time.
func CreateInstanceEntity(i *integration.Integration, con *connection.InfluxConnection) (*integration.Entity, error) {
	rtt, version, err := con.Ping()
	if err != nil {
		return nil, fmt.Errorf("pinging InfluxDB at %s: %w", con.Host, err)
	}
	log.Debug("InfluxDB %s responded in %s", version, rtt)

	endpointIDAttr := integration.NewIDAttribute("endpoint", con.Host)
	return i.EntityReportedVia(con.Host, con.Host, "influxdb-instance", endpointIDAttr)
}
