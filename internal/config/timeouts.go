package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ClusterCreate     time.Duration // EKS cluster creation
	NodeGroupCreate   time.Duration // managed node group creation
	NATGateway        time.Duration // NAT gateway availability
	LoadBalancer      time.Duration // Service load balancer hostname assignment
	Rollout           time.Duration // Deployment rollout
	Delete            time.Duration // all delete operations
	RetryMaxAttempts  int           // maximum retry attempts for API calls
	RetryInitialDelay time.Duration // initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - EKSPRESS_TIMEOUT_CLUSTER_CREATE (default: 20m)
//   - EKSPRESS_TIMEOUT_NODEGROUP_CREATE (default: 15m)
//   - EKSPRESS_TIMEOUT_NAT_GATEWAY (default: 5m)
//   - EKSPRESS_TIMEOUT_LOAD_BALANCER (default: 5m)
//   - EKSPRESS_TIMEOUT_ROLLOUT (default: 5m)
//   - EKSPRESS_TIMEOUT_DELETE (default: 15m)
//   - EKSPRESS_RETRY_MAX_ATTEMPTS (default: 6)
//   - EKSPRESS_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     parseDuration("EKSPRESS_TIMEOUT_CLUSTER_CREATE", 20*time.Minute),
		NodeGroupCreate:   parseDuration("EKSPRESS_TIMEOUT_NODEGROUP_CREATE", 15*time.Minute),
		NATGateway:        parseDuration("EKSPRESS_TIMEOUT_NAT_GATEWAY", 5*time.Minute),
		LoadBalancer:      parseDuration("EKSPRESS_TIMEOUT_LOAD_BALANCER", 5*time.Minute),
		Rollout:           parseDuration("EKSPRESS_TIMEOUT_ROLLOUT", 5*time.Minute),
		Delete:            parseDuration("EKSPRESS_TIMEOUT_DELETE", 15*time.Minute),
		RetryMaxAttempts:  parseInt("EKSPRESS_RETRY_MAX_ATTEMPTS", 6),
		RetryInitialDelay: parseDuration("EKSPRESS_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
