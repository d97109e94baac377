package instance

import "os"

const (
	envInstanceID = "VTPS_INSTANCE_ID"
	envDyno       = "DYNO"
)

// GetID identifies the running process in logs.
// An explicit VTPS_INSTANCE_ID wins, then the platform dyno name, then the
// host name.
func GetID(fallback string) string {
	for _, key := range []string{envInstanceID, envDyno} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
