package common

// Version is set at build time via -ldflags "-X ...common.Version=x.y.z"
var Version = "0.3.0"

// GetVersion returns the application version string
func GetVersion() string {
	return Version
}
