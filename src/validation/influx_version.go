// Package validation contains preflight checks run before collection starts
package validation

import (
	"regexp"
	"time"

	"github.com/blang/semver/v4"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

// Modern servers report a v-prefixed version in the ping header, e.g. v1.11.8.
const versionRegexPattern = `v?(\d+\.\d+\.\d+)\b`

var versionRegex = regexp.MustCompile(versionRegexPattern)

// minSupportedVersion is the first release with subquery support, which the
// usage summary query depends on.
var minSupportedVersion = semver.MustParse("1.2.0")

// Pinger reports server reachability and the version the server advertises.
type Pinger interface {
	Ping() (time.Duration, string, error)
}

// CheckInfluxVersion returns whether the server reports a version the usage
// summary query can run against.
func CheckInfluxVersion(server Pinger) bool {
	_, serverVersion, err := server.Ping()
	if err != nil {
		log.Error("Error getting server version: %s", err.Error())
		return false
	}
	if serverVersion == "" {
		log.Error("Server version is empty")
		return false
	}
	log.Debug("Server version: %s", serverVersion)

	matches := versionRegex.FindStringSubmatch(serverVersion)
	if matches == nil {
		log.Error("Could not parse version from server version string '%s'", serverVersion)
		return false
	}
	versionStr := matches[1]

	version, err := semver.ParseTolerant(versionStr)
	if err != nil {
		log.Error("Error parsing version '%s': %s", versionStr, err.Error())
		return false
	}
	log.Debug("Parsed semantic version: %s", version)

	if version.LT(minSupportedVersion) {
		log.Error("Unsupported InfluxDB version %s: subqueries require %s or later", version.String(), minSupportedVersion.String())
		return false
	}
	return true
}
