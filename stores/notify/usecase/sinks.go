package usecase

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/bwmarrin/discordgo"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/keys"
	"github.com/x-xyz/auctionhouse/service/redis"
)

type logSink struct{}

// NewLogSink writes every event as a structured log line
func NewLogSink() domain.EventSink {
	return &logSink{}
}

func (s *logSink) Name() string {
	return "log"
}

func (s *logSink) Send(c ctx.Ctx, evt domain.Event) error {
	c.WithFields(log.Fields{
		"type":         evt.Type,
		"kind":         evt.Kind,
		"asset":        evt.Asset.Key(),
		"price":        evt.Price,
		"paymentToken": evt.PaymentToken,
		"seller":       evt.Seller,
		"buyer":        evt.Buyer,
	}).Info("market event")
	return nil
}

type redisSink struct {
	redis   redis.Service
	channel string
}

// NewRedisSink publishes the json encoded event on marketEvents:<channel>
func NewRedisSink(r redis.Service, channel string) domain.EventSink {
	return &redisSink{redis: r, channel: keys.RedisKey(keys.PfxMarketEvents, channel)}
}

func (s *redisSink) Name() string {
	return "redis"
}

func (s *redisSink) Send(c ctx.Ctx, evt domain.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = s.redis.Publish(c, s.channel, payload)
	return err
}

type discordSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type discordSink struct {
	session   discordSender
	channelId string
	payTokens domain.PayTokens
}

// NewDiscordSink posts sales to a discord channel, other events are skipped
func NewDiscordSink(botKey, channelId string, payTokens domain.PayTokens) (domain.EventSink, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", botKey))
	if err != nil {
		return nil, err
	}
	return &discordSink{session: session, channelId: channelId, payTokens: payTokens}, nil
}

func (s *discordSink) Name() string {
	return "discord"
}

func (s *discordSink) Send(c ctx.Ctx, evt domain.Event) error {
	if evt.Type != domain.EventSold {
		return nil
	}
	if _, err := s.session.ChannelMessageSendEmbed(s.channelId, saleEmbed(evt, s.payTokens)); err != nil {
		c.WithFields(log.Fields{"err": err, "channel": s.channelId}).Warn("discord.ChannelMessageSendEmbed failed")
		return err
	}
	return nil
}

func saleEmbed(evt domain.Event, payTokens domain.PayTokens) *discordgo.MessageEmbed {
	price := evt.Price
	symbol := string(evt.PaymentToken)
	if t, ok := payTokens.Find(evt.PaymentToken); ok {
		if v, ok := parseAmount(evt.Price); ok {
			price = payTokens.DisplayPrice(evt.PaymentToken, v)
		}
		symbol = t.Symbol
	}

	return &discordgo.MessageEmbed{
		Title:       "Item sold!",
		Description: fmt.Sprintf("%s / %s", evt.Asset.Collection, evt.Asset.TokenId),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Seller", Value: string(evt.Seller)},
			{Name: "Buyer", Value: string(evt.Buyer)},
			{Name: "Kind", Value: string(evt.Kind)},
			{Name: "Price", Value: fmt.Sprintf("%s %s", price, symbol)},
		},
	}
}

func parseAmount(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}
