// Package inventory contains all the code used to collect inventory items from the target
package inventory

import (
	"fmt"

	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/newrelic/nri-procstat/src/connection"
	"github.com/newrelic/nri-procstat/src/procstat"
)

const showDatabasesQuery = "SHOW DATABASES"

// PopulateInventory gathers server configuration for the InfluxDB instance and populates it into entity
func PopulateInventory(instanceEntity *integration.Entity, con *connection.InfluxConnection) {
	if err := populateVersionItem(instanceEntity, con); err != nil {
		log.Error("Error collecting server version: %s", err.Error())
	}

	if err := populateDatabaseItems(instanceEntity, con); err != nil {
		log.Error("Error collecting inventory items from SHOW DATABASES: %s", err.Error())
	}

	if con.Database != "" {
		if err := populateRetentionPolicyItems(instanceEntity, con); err != nil {
			log.Error("Error collecting inventory items from SHOW RETENTION POLICIES: %s", err.Error())
		}
	}
}

func populateVersionItem(instanceEntity *integration.Entity, con *connection.InfluxConnection) error {
	_, version, err := con.Ping()
	if err != nil {
		return err
	}
	setItemOrLog(instanceEntity, "server/version", version)
	return nil
}

// populateDatabaseItems records the databases visible to the configured user
func populateDatabaseItems(instanceEntity *integration.Entity, con *connection.InfluxConnection) error {
	rows, err := con.Query(showDatabasesQuery)
	if err != nil {
		return err
	}

	for _, row := range rows {
		nameIdx := columnIndex(row.Columns, "name")
		if nameIdx < 0 {
			continue
		}
		for _, values := range row.Values {
			if nameIdx >= len(values) {
				continue
			}
			name, ok := values[nameIdx].(string)
			if !ok {
				continue
			}
			setItemOrLog(instanceEntity, "database/"+name, name)
		}
	}
	return nil
}

// populateRetentionPolicyItems records each retention policy of the
// configured database along with its settings
func populateRetentionPolicyItems(instanceEntity *integration.Entity, con *connection.InfluxConnection) error {
	query := fmt.Sprintf("SHOW RETENTION POLICIES ON %s", procstat.QuoteIdentifier(con.Database))
	rows, err := con.Query(query)
	if err != nil {
		return err
	}

	for _, row := range rows {
		nameIdx := columnIndex(row.Columns, "name")
		if nameIdx < 0 {
			continue
		}
		for _, values := range row.Values {
			if nameIdx >= len(values) {
				continue
			}
			name, ok := values[nameIdx].(string)
			if !ok {
				continue
			}
			for i, column := range row.Columns {
				if i == nameIdx || i >= len(values) {
					continue
				}
				setItemOrLog(instanceEntity, "retention_policy/"+name+"/"+column, values[i])
			}
		}
	}
	return nil
}

func columnIndex(columns []string, name string) int {
	for i, column := range columns {
		if column == name {
			return i
		}
	}
	return -1
}

// setItemOrLog attempts to set an inventory item. If there
// is an error it is logged as such
func setItemOrLog(instanceEntity *integration.Entity, key string, value interface{}) {
	if err := instanceEntity.SetInventoryItem(key, "value", value); err != nil {
		log.Error("Error setting inventory item '%s': %s", key, err.Error())
	}
}
