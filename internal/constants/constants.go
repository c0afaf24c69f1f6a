// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// RunIDHeader carries the run id of the analysis that produced a response
const RunIDHeader = "X-Voltview-Run-Id"
