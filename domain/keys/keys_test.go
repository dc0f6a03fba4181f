package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "loginNonce:0xabc", RedisKey(PfxLoginNonce, "0xabc"))
	assert.Equal(t, "a|b", CustomKey("|", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	tests := []struct {
		key string
		exp string
	}{
		{"nokey", ""},
		{"loginNonce:0xabc", "loginNonce"},
		{"marketEvents:sold:0xabc", "marketEvents:sold"},
		{"a:b:c:d", "a:b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, GetPrefix(tt.key), tt.key)
	}
}
