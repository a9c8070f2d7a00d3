package main

import (
	"os"

	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/newrelic/nri-procstat/src/args"
	"github.com/newrelic/nri-procstat/src/connection"
	"github.com/newrelic/nri-procstat/src/instance"
	"github.com/newrelic/nri-procstat/src/inventory"
	"github.com/newrelic/nri-procstat/src/metrics"
	"github.com/newrelic/nri-procstat/src/validation"
)

const (
	integrationName    = "com.newrelic.nri-procstat"
	integrationVersion = "0.1.0"
)

var (
	arguments args.ArgumentList
)

func main() {
	// Create Integration
	i, err := integration.New(integrationName, integrationVersion, integration.Args(&arguments))
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	// Setup logging with verbose
	log.SetupLogging(arguments.Verbose)

	// Validate arguments
	if err := arguments.Validate(); err != nil {
		log.Error("Configuration error: %s", err.Error())
		os.Exit(1)
	}

	// Create a new connection
	con, err := connection.NewConnection(&arguments)
	if err != nil {
		log.Error("Error creating connection to InfluxDB: %s", err.Error())
		os.Exit(1)
	}

	// Close connection when done
	defer con.Close()

	// The usage summary relies on subqueries, refuse servers without them
	if !validation.CheckInfluxVersion(con) {
		os.Exit(1)
	}

	// Create the entity for the server
	instanceEntity, err := instance.CreateInstanceEntity(i, con)
	if err != nil {
		log.Error("Unable to create entity for instance: %s", err.Error())
		os.Exit(1)
	}

	// Inventory collection
	if arguments.HasInventory() {
		inventory.PopulateInventory(instanceEntity, con)
	}

	// Metric collection
	if arguments.HasMetrics() {
		metrics.PopulateProcessMetrics(instanceEntity, con, arguments)
	}

	if err = i.Publish(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
