package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSortOption(t *testing.T) {
	assert.Nil(t, sortOption(""))
	assert.Equal(t, bson.D{{Key: "startedAt", Value: 1}}, sortOption("startedAt"))
	assert.Equal(t, bson.D{{Key: "startedAt", Value: -1}}, sortOption("-startedAt"))
}
