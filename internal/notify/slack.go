package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API surface notify needs, enabling test
// mocks without a real bot token — grounded on the teacher's slackClient
// interface in internal/telegraph/slack/slack.go.
type slackClient interface {
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackSender posts FormattedEvents to a single Slack channel as an
// attachment, matching the teacher's buildMessageOptions/eventToAttachment
// idiom collapsed to outbound-only posting (no Socket Mode connection).
type SlackSender struct {
	client    slackClient
	channelID string
}

// NewSlackSender constructs a Sender backed by a real Slack bot token.
func NewSlackSender(botToken, channelID string) *SlackSender {
	return &SlackSender{client: slackapi.New(botToken), channelID: channelID}
}

// NewSlackSenderWithClient injects a slackClient for testing.
func NewSlackSenderWithClient(client slackClient, channelID string) *SlackSender {
	return &SlackSender{client: client, channelID: channelID}
}

func (s *SlackSender) Send(_ context.Context, evt FormattedEvent) error {
	att := slackapi.Attachment{
		Title:    evt.Title,
		Text:     evt.Body,
		Color:    evt.Color,
		Fallback: evt.Title,
	}
	for _, f := range evt.Fields {
		att.Fields = append(att.Fields, slackapi.AttachmentField{Title: f.Name, Value: f.Value, Short: f.Short})
	}
	_, _, err := s.client.PostMessage(s.channelID, slackapi.MsgOptionAttachments(att), slackapi.MsgOptionText(evt.Title, false))
	if err != nil {
		return fmt.Errorf("notify: slack post: %w", err)
	}
	return nil
}
