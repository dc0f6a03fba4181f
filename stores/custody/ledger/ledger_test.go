package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

const (
	market = domain.Address("0x00000000000000000000000000000000000000aa")
	token  = domain.Address("0x00000000000000000000000000000000000000e2")
	alice  = domain.Address("0x0000000000000000000000000000000000000a11")
	bob    = domain.Address("0x0000000000000000000000000000000000000b0b")
)

var asset = domain.NewAssetId("0x00000000000000000000000000000000000000c1", "1")

func TestAssets(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	l := NewAssets(market)

	_, err := l.OwnerOf(c, asset)
	req.Equal(domain.ErrNotFound, err)

	l.Mint(asset, alice, false)
	req.Equal(domain.ErrTransferRejected, l.Transfer(c, asset, alice, bob))

	l.SetApproval(asset, true)
	req.Equal(domain.ErrTransferRejected, l.Transfer(c, asset, bob, alice))

	l.RejectTransfers(asset, true)
	req.Equal(domain.ErrTransferRejected, l.Transfer(c, asset, alice, bob))
	l.RejectTransfers(asset, false)

	req.NoError(l.Transfer(c, asset, alice, bob))
	owner, err := l.OwnerOf(c, asset)
	req.NoError(err)
	req.Equal(bob, owner)

	approved, err := l.IsApprovedForMarketplace(c, asset)
	req.NoError(err)
	req.False(approved)
}

func TestPayments(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	l := NewPayments(market)

	l.Mint(token, alice, big.NewInt(100))
	req.Equal(domain.ErrInsufficientAllowance, l.TransferFrom(c, token, alice, market, big.NewInt(50)))

	l.Approve(token, alice, big.NewInt(60))
	req.Equal(domain.ErrInsufficientBalance, l.TransferFrom(c, token, alice, market, big.NewInt(200)))
	req.NoError(l.TransferFrom(c, token, alice, market, big.NewInt(50)))

	allowance, _ := l.Allowance(c, token, alice)
	req.Equal("10", allowance.String())

	l.FailEscrowTransfers(1)
	req.Equal(domain.ErrTransferRejected, l.Transfer(c, token, bob, big.NewInt(20)))
	req.NoError(l.Transfer(c, token, bob, big.NewInt(20)))
	req.Equal(domain.ErrInsufficientBalance, l.Transfer(c, token, bob, big.NewInt(31)))

	bal, _ := l.BalanceOf(c, token, bob)
	req.Equal("20", bal.String())
	bal, _ = l.BalanceOf(c, token, market)
	req.Equal("30", bal.String())
	bal, _ = l.BalanceOf(c, token, alice)
	req.Equal("50", bal.String())
}
