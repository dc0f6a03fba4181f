package usecase

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	redigo "github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type chanSink struct {
	name string
	ch   chan domain.Event
	err  error
	bomb bool
}

func (s *chanSink) Name() string { return s.name }

func (s *chanSink) Send(_ ctx.Ctx, evt domain.Event) error {
	if s.bomb {
		panic("boom")
	}
	s.ch <- evt
	return s.err
}

func receive(t *testing.T, ch chan domain.Event) domain.Event {
	select {
	case evt := <-ch:
		return evt
	case <-time.After(3 * time.Second):
		t.Fatal("event not delivered")
	}
	return domain.Event{}
}

var sold = domain.Event{
	Type:         domain.EventSold,
	Kind:         domain.SaleKindFixedPrice,
	Asset:        domain.NewAssetId("0x00000000000000000000000000000000000000c1", "9"),
	Price:        "1500000",
	PaymentToken: "0x00000000000000000000000000000000000000e2",
	Seller:       "0x0000000000000000000000000000000000000a11",
	Buyer:        "0x0000000000000000000000000000000000000b0b",
}

func TestDispatcherFanOut(t *testing.T) {
	req := require.New(t)

	ok := &chanSink{name: "ok", ch: make(chan domain.Event, 1)}
	failing := &chanSink{name: "failing", ch: make(chan domain.Event, 1), err: errors.New("down")}
	panicking := &chanSink{name: "panicking", bomb: true}

	d := New(&DispatcherCfg{Sinks: []domain.EventSink{panicking, failing, ok}, Workers: 2})
	defer d.Close()

	d.Notify(ctx.Background(), sold)

	got := receive(t, ok.ch)
	req.NotEmpty(got.Id)
	req.False(got.Timestamp.IsZero())
	req.Equal(sold.Asset, got.Asset)

	// same id for every sink
	req.Equal(got.Id, receive(t, failing.ch).Id)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink()
	require.Equal(t, "log", s.Name())
	require.NoError(t, s.Send(ctx.Background(), sold))
}

type publishRecorder struct {
	mu       sync.Mutex
	channel  string
	payloads [][]byte
}

func (r *publishRecorder) Get(ctx.Ctx, string) ([]byte, error)              { return nil, nil }
func (r *publishRecorder) Set(ctx.Ctx, string, []byte, time.Duration) error { return nil }
func (r *publishRecorder) Del(ctx.Ctx, ...string) (int, error)              { return 0, nil }
func (r *publishRecorder) Exists(ctx.Ctx, string) (bool, error)             { return false, nil }
func (r *publishRecorder) Incr(ctx.Ctx, string) (int64, error)              { return 0, nil }
func (r *publishRecorder) GetConn() (redigo.Conn, error)                    { return nil, nil }
func (r *publishRecorder) Name() string                                     { return "recorder" }
func (r *publishRecorder) Publish(_ ctx.Ctx, channel string, payload []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channel = channel
	r.payloads = append(r.payloads, payload)
	return 1, nil
}

func TestRedisSink(t *testing.T) {
	req := require.New(t)
	rec := &publishRecorder{}

	s := NewRedisSink(rec, "local")
	req.NoError(s.Send(ctx.Background(), sold))

	req.Equal("marketEvents:local", rec.channel)
	req.Len(rec.payloads, 1)

	evt := domain.Event{}
	req.NoError(json.Unmarshal(rec.payloads[0], &evt))
	req.Equal(sold.Price, evt.Price)
	req.Equal(sold.Asset, evt.Asset)
}

type embedRecorder struct {
	channel string
	embeds  []*discordgo.MessageEmbed
	err     error
}

func (r *embedRecorder) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	r.channel = channelID
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{}, r.err
}

func TestDiscordSink(t *testing.T) {
	req := require.New(t)
	rec := &embedRecorder{}
	tokens := domain.PayTokens{{Address: sold.PaymentToken, Symbol: "USDC", Decimals: 6}}
	s := &discordSink{session: rec, channelId: "42", payTokens: tokens}

	listed := sold
	listed.Type = domain.EventListingCreated
	req.NoError(s.Send(ctx.Background(), listed))
	req.Empty(rec.embeds)

	req.NoError(s.Send(ctx.Background(), sold))
	req.Equal("42", rec.channel)
	req.Len(rec.embeds, 1)
	req.Equal("1.5 USDC", rec.embeds[0].Fields[3].Value)

	rec.err = errors.New("rate limited")
	req.Error(s.Send(ctx.Background(), sold))
}

func TestSaleEmbedUnknownToken(t *testing.T) {
	embed := saleEmbed(sold, nil)
	require.Equal(t, "1500000 0x00000000000000000000000000000000000000e2", embed.Fields[3].Value)
}
