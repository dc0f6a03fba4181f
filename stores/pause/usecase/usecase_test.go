package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

func TestPauseGate(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	admin := domain.Address("0x00000000000000000000000000000000000000Ad")
	g := New([]domain.Address{admin})

	req.False(g.IsPaused(c))
	req.Equal(domain.ErrNotAuthorizedCaller, g.Pause(c, "0x0000000000000000000000000000000000000b0b"))
	req.Equal(domain.ErrNotAuthorizedCaller, g.Pause(c, ""))
	req.False(g.IsPaused(c))

	req.NoError(g.Pause(c, admin.ToLower()))
	req.True(g.IsPaused(c))
	req.NoError(g.Pause(c, admin))
	req.True(g.IsPaused(c))

	req.NoError(g.Unpause(c, admin))
	req.False(g.IsPaused(c))
}
