package notify

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"

	"github.com/gumruyanzh/xavier/internal/config"
	"github.com/gumruyanzh/xavier/internal/events"
)

type recordingSender struct {
	sent []FormattedEvent
}

func (r *recordingSender) Send(_ context.Context, evt FormattedEvent) error {
	r.sent = append(r.sent, evt)
	return nil
}

func TestFormat_RecognizesCoreLifecycleEvents(t *testing.T) {
	cases := []struct {
		name string
		e    events.Event
		want bool
	}{
		{"completed", events.New(events.TaskCompleted, events.WithTask("TASK-1")), true},
		{"failed", events.New(events.TaskFailed, events.WithTask("TASK-1")), true},
		{"sprint completed", events.New(events.SprintCompleted, events.WithSprint("SPRINT-1")), true},
		{"error", events.New(events.Error, events.WithMessage("boom")), true},
		{"claimed is not posted", events.New(events.TaskClaimed, events.WithTask("TASK-1")), false},
		{"handoff is not posted", events.New(events.Handoff, events.WithTask("TASK-1")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Format(tc.e)
			if ok != tc.want {
				t.Errorf("Format(%s): got ok=%v, want %v", tc.e.Type, ok, tc.want)
			}
		})
	}
}

func TestFormat_TaskFailedCarriesMessageAndSeverity(t *testing.T) {
	e := events.New(events.TaskFailed, events.WithTask("TASK-1"), events.WithMessage("coverage below threshold"))
	f, ok := Format(e)
	if !ok {
		t.Fatal("expected TaskFailed to be formatted")
	}
	if f.Severity != "error" || f.Color != ColorError {
		t.Errorf("expected error severity/color, got %q/%q", f.Severity, f.Color)
	}
	if f.Body != "coverage below threshold" {
		t.Errorf("expected body to carry the failure message, got %q", f.Body)
	}
}

type fakeVelocitySource float64

func (f fakeVelocitySource) Velocity(int) float64 { return float64(f) }

func TestBuildVelocityDigest_SuppressesWhenNoHistory(t *testing.T) {
	if _, ok := BuildVelocityDigest(fakeVelocitySource(0), 3); ok {
		t.Error("expected a zero velocity to suppress the digest")
	}
}

func TestBuildVelocityDigest_ReportsAverage(t *testing.T) {
	f, ok := BuildVelocityDigest(fakeVelocitySource(12.5), 3)
	if !ok {
		t.Fatal("expected a digest")
	}
	if f.Title != "Velocity Digest" {
		t.Errorf("unexpected title %q", f.Title)
	}
}

func TestNotifier_SubscribePostsRecognizedEventsOnly(t *testing.T) {
	rec := &recordingSender{}
	n := &Notifier{sender: rec}
	n.Subscribe(events.New(events.TaskCompleted, events.WithTask("TASK-1")))
	n.Subscribe(events.New(events.TaskClaimed, events.WithTask("TASK-1")))
	if len(rec.sent) != 1 {
		t.Errorf("expected exactly 1 posted event, got %d", len(rec.sent))
	}
}

type mockSlackClient struct{ calls int }

func (m *mockSlackClient) PostMessage(string, ...slackapi.MsgOption) (string, string, error) {
	m.calls++
	return "", "", nil
}

func TestSlackSender_PostsThroughInjectedClient(t *testing.T) {
	mock := &mockSlackClient{}
	s := NewSlackSenderWithClient(mock, "C123")
	if err := s.Send(context.Background(), FormattedEvent{Title: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 PostMessage call, got %d", mock.calls)
	}
}

type mockDiscordSession struct{ calls int }

func (m *mockDiscordSession) ChannelMessageSendComplex(string, *discordgo.MessageSend, ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.calls++
	return &discordgo.Message{}, nil
}

func TestDiscordSender_SendsAnEmbedThroughInjectedSession(t *testing.T) {
	mock := &mockDiscordSession{}
	d := NewDiscordSenderWithSession(mock, "123")
	if err := d.Send(context.Background(), FormattedEvent{Title: "hi", Color: ColorSuccess}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 send call, got %d", mock.calls)
	}
}

func TestParseHexColor(t *testing.T) {
	if got := parseHexColor(ColorSuccess); got != 0x36a64f {
		t.Errorf("parseHexColor(%s) = %x, want 36a64f", ColorSuccess, got)
	}
}

func TestNew_DisabledPlatformReturnsNilNotifier(t *testing.T) {
	n, err := New(config.NotifyConfig{}, fakeVelocitySource(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n != nil {
		t.Error("expected a nil Notifier when notify is disabled")
	}
}
