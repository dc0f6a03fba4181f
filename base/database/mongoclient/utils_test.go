package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionhouse/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type patchableEntry struct {
		HighestBidder *string `bson:"highestBidder,omitempty"`
		HighestPrice  *string `bson:"highestPrice,omitempty"`
		Seller        string  `bson:"seller"`
		Token         string  `bson:"paymentToken"`
		Duration      *uint64 `bson:"-"`
	}

	patchable := &patchableEntry{}
	patchable.HighestBidder = ptr.String("")
	patchable.HighestPrice = ptr.String("1000")
	patchable.Token = "0x0000000000000000000000000000000000000001"
	patchable.Duration = ptr.Uint64(60)

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"highestBidder": "",
			"highestPrice":  "1000",
			// zero seller is left out
			"paymentToken": "0x0000000000000000000000000000000000000001",
		},
		updater,
	)
}
