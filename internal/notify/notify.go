// Package notify bridges Xavier's event bus to chat platforms, posting
// task/sprint lifecycle events and a cron-scheduled velocity digest.
//
// Grounded on the teacher's internal/telegraph package: the same
// FormattedEvent/Field attachment shape and severity-to-color mapping as
// telegraph/format.go, and the same per-platform adapter split as
// telegraph/discord and telegraph/slack — collapsed to outbound-only
// posting, since Xavier's notify consumer has no chat-driven command
// surface to bridge back (spec §4.9 names no inbound commands, unlike
// Railyard's @mention dispatch router).
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/gumruyanzh/xavier/internal/config"
	"github.com/gumruyanzh/xavier/internal/events"
)

// Sender posts one FormattedEvent to a chat platform.
type Sender interface {
	Send(ctx context.Context, evt FormattedEvent) error
}

// VelocitySource supplies the data a velocity digest summarizes. Kept as
// a narrow interface rather than importing internal/facade directly, so
// facade -> notify stays a one-way dependency.
type VelocitySource interface {
	Velocity(n int) float64
}

// Notifier subscribes to the core event bus and posts formatted events to
// a single configured chat platform, plus a scheduled velocity digest —
// the reference outbound consumer named in SPEC_FULL.md §4.9.
type Notifier struct {
	sender       Sender
	digestCron   string
	digestSource VelocitySource
	digestWindow int
}

// New constructs a Notifier for cfg's platform. Returns (nil, nil) when
// notify is disabled (cfg.Platform == ""), so callers can unconditionally
// call New and only wire Subscribe/RunDigest when the result is non-nil.
func New(cfg config.NotifyConfig, src VelocitySource) (*Notifier, error) {
	var sender Sender
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		sender = NewSlackSender(cfg.Slack.BotToken, cfg.Slack.Channel)
	case "discord":
		d, err := NewDiscordSender(cfg.Discord.BotToken, cfg.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		sender = d
	default:
		return nil, fmt.Errorf("notify: unsupported platform %q", cfg.Platform)
	}
	return &Notifier{
		sender:       sender,
		digestCron:   cfg.Digest.Cron,
		digestSource: src,
		digestWindow: 3,
	}, nil
}

// Subscribe is an events.Subscriber that formats and posts every event
// type this consumer recognizes, silently skipping the rest (e.g.
// TaskClaimed, which fires too often to be worth a chat message).
func (n *Notifier) Subscribe(e events.Event) {
	formatted, ok := Format(e)
	if !ok {
		return
	}
	if err := n.sender.Send(context.Background(), formatted); err != nil {
		fmt.Printf("notify: send failed: %v\n", err)
	}
}

// RunDigest blocks, posting a velocity digest on the configured cron
// schedule until ctx is cancelled. A missing schedule is a no-op rather
// than an error, since the digest is optional even with notify enabled.
//
// Grounded on the teacher's nextCronDuration sleep-until-next-fire loop
// (internal/telegraph/cron.go).
func (n *Notifier) RunDigest(ctx context.Context) error {
	if n.digestCron == "" {
		return nil
	}
	for {
		wait := nextCronDuration(n.digestCron)
		if wait == 0 {
			return fmt.Errorf("notify: invalid digest cron expression %q", n.digestCron)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if formatted, ok := BuildVelocityDigest(n.digestSource, n.digestWindow); ok {
			if err := n.sender.Send(ctx, formatted); err != nil {
				fmt.Printf("notify: digest send failed: %v\n", err)
			}
		}
	}
}
