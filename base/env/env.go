package env

import (
	"os"
)

// PodName example: k8ssta-auctionhouse-main-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// ConfigPath overrides the default config file location when set
func ConfigPath(fallback string) string {
	if p := os.Getenv("AUCTIONHOUSE_CONFIG"); p != "" {
		return p
	}
	return fallback
}
