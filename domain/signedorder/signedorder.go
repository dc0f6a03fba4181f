package signedorder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

// Order is a sale agreed off the registry. It is authorized by the trusted
// signer's signature over the current nonce message only.
type Order struct {
	Asset        domain.AssetId
	Price        *big.Int
	PaymentToken domain.Address
	Seller       domain.Address
	Buyer        domain.Address
	Signature    []byte
}

// NonceRepo holds the process wide order nonce
type NonceRepo interface {
	// Current returns 0 when no order was ever fulfilled
	Current(ctx ctx.Ctx) (uint64, error)
	// Increment advances the nonce by one and returns the new value
	Increment(ctx ctx.Ctx) (uint64, error)
}

type UseCase interface {
	Nonce(ctx ctx.Ctx) (uint64, error)
	// Message is MessageFor(current nonce)
	Message(ctx ctx.Ctx) ([]byte, error)
	// Verify recovers the signer of signature over Message and compares it to the trusted signer
	Verify(ctx ctx.Ctx, signature []byte) (bool, error)
	Fulfill(ctx ctx.Ctx, order Order) (*domain.Receipt, error)
}

// MessageFor is the 32 byte big endian uint256 encoding of nonce, the payload the trusted signer signs
func MessageFor(nonce uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(nonce))
}

// DigestFor is the EIP-191 personal message hash of keccak256(MessageFor(nonce))
func DigestFor(nonce uint64) []byte {
	return accounts.TextHash(crypto.Keccak256(MessageFor(nonce)))
}
