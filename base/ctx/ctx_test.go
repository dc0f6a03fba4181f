package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/auctionhouse/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "requestID", "abc")
	ts.Equal("abc", ctx.Value("requestID"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"seller": "0x01",
		"buyer":  "0x02",
	})
	ts.Equal("0x01", ctx.Value("seller"))
	ts.Equal("0x02", ctx.Value("buyer"))
}

func (ts *testsuite) TestWithLogFields() {
	bg := Background()
	ctx := WithLogFields(bg, log.Fields{"asset": "0xabc:1"})
	ts.Nil(ctx.Value("asset"))
	ts.NoError(ctx.Err())
}

func (ts *testsuite) TestWithCancel() {
	bg := Background()
	ctx, cancel := WithCancel(bg)
	defer cancel()
	after100Ms := func(ctx context.Context) bool {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
			return true
		}
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	ts.False(after100Ms(ctx))
}

func (ts *testsuite) TestTimeout() {
	bg := Background()
	ctx, cancel := WithTimeout(bg, 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal("context deadline exceeded", ctx.Err().Error())
}
