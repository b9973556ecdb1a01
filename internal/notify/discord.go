package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo.Session surface notify needs,
// grounded on the teacher's session interface in
// internal/telegraph/discord/discord.go.
type discordSession interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSender posts FormattedEvents as embeds to a single Discord
// channel, matching the teacher's eventToEmbed idiom collapsed to
// outbound-only posting (no Gateway message listener).
type DiscordSender struct {
	sess      discordSession
	channelID string
}

// NewDiscordSender constructs a Sender backed by a real Discord bot token,
// opening the Gateway connection required for ChannelMessageSendComplex.
func NewDiscordSender(botToken, channelID string) (*DiscordSender, error) {
	dg, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("notify: create discord session: %w", err)
	}
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("notify: open discord gateway: %w", err)
	}
	return &DiscordSender{sess: dg, channelID: channelID}, nil
}

// NewDiscordSenderWithSession injects a discordSession for testing.
func NewDiscordSenderWithSession(sess discordSession, channelID string) *DiscordSender {
	return &DiscordSender{sess: sess, channelID: channelID}
}

func (d *DiscordSender) Send(_ context.Context, evt FormattedEvent) error {
	embed := &discordgo.MessageEmbed{Title: evt.Title, Description: evt.Body}
	if evt.Color != "" {
		embed.Color = parseHexColor(evt.Color)
	}
	for _, f := range evt.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Short})
	}
	_, err := d.sess.ChannelMessageSendComplex(d.channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
	if err != nil {
		return fmt.Errorf("notify: discord send: %w", err)
	}
	return nil
}

// parseHexColor converts a hex color string (e.g. "#36a64f") to an int.
func parseHexColor(hex string) int {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	var color int
	for _, c := range hex {
		color <<= 4
		switch {
		case c >= '0' && c <= '9':
			color |= int(c - '0')
		case c >= 'a' && c <= 'f':
			color |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			color |= int(c-'A') + 10
		}
	}
	return color
}
