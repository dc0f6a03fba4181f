package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxLoginNonce is used for prefixing the login nonce of an address
	PfxLoginNonce = "loginNonce"
	// PfxOrderNonce is used for prefixing the signed order nonce counter
	PfxOrderNonce = "orderNonce"
	// PfxMarketEvents is used for prefixing the marketplace event channel
	PfxMarketEvents = "marketEvents"
	// PfxPause is used for prefixing the pause flag
	PfxPause = "pause"
)

// CustomKey is used to join the customized key by components with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by components
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key, at most the first two components
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join([]string{s[0], s[1]}, ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
