package log

import (
	"go.uber.org/zap"
)

const (
	// Binaries
	LogNameWebserver = "webserver"

	// Others
	LogNameGrid     = "grid"
	LogNameMongo    = "mongo"
	LogNameRequests = "requests"
	LogNameSettings = "settings"
)

// Named returns a child of the global logger, for packages that log under their own name.
func Named(name string) *zap.Logger {
	return zap.L().Named(name)
}

func Flush() {

	// Sync errors on stdout are expected on some platforms
	_ = zap.L().Sync()
}
