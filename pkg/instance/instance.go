package instance

import (
	"os"

	"github.com/brazzaeats/brazzaeats-backend/pkg/env"
)

// GetID returns the API instance identifier. BRAZZAEATS_INSTANCE_ID wins,
// then the platform dyno name, then the host name.
func GetID() string {
	if id := env.First("", "BRAZZAEATS_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
