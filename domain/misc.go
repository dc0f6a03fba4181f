package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

// IsEmpty is true for both "" and the zero address
func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

func AddressFromCommon(a common.Address) Address {
	return Address(a.Hex()).ToLower()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// ToBigInt parses the decimal token id, token ids are uint256
func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok || id.Sign() < 0 || id.BitLen() > 256 {
		return nil, ErrInvalidTokenId
	}
	return id, nil
}

// AssetId identifies one non-fungible asset: a collection and a token inside it
type AssetId struct {
	Collection Address `json:"collection" bson:"collection"`
	TokenId    TokenId `json:"tokenId" bson:"tokenId"`
}

func NewAssetId(collection Address, tokenId TokenId) AssetId {
	return AssetId{
		Collection: collection.ToLower(),
		TokenId:    tokenId,
	}
}

// Key is the composite key used by every keyed store
func (id AssetId) Key() string {
	return fmt.Sprintf("%s:%s", id.Collection.ToLowerStr(), id.TokenId)
}

func (id AssetId) String() string {
	return id.Key()
}

// Validate checks the collection is an address and the token id a uint256
func (id AssetId) Validate() error {
	if !id.Collection.IsValid() {
		return ErrInvalidAddress
	}
	if _, err := id.TokenId.ToBigInt(); err != nil {
		return err
	}
	return nil
}

type Table string

const (
	TableListings         Table = "listings"
	TableSignedOrderNonce Table = "signed_order_nonce"
)
