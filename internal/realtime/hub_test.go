package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestBroadcast_DeliversToSubscribedChannelOnly(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID.String()))

	hub.Broadcast(SSEMessage{Channel: UserChannel(userID.String()), Event: SSEEventChatReply, Data: "hi"})
	hub.Broadcast(SSEMessage{Channel: UserChannel(uuid.New().String()), Event: SSEEventChatReply, Data: "not yours"})

	select {
	case msg := <-client.Outbound:
		if msg.Data != "hi" {
			t.Fatalf("unexpected payload %v", msg.Data)
		}
	default:
		t.Fatalf("expected a delivered message")
	}
	select {
	case msg := <-client.Outbound:
		t.Fatalf("received message for a foreign channel: %+v", msg)
	default:
	}
}

func TestBroadcast_ReachesEverySubscriberOfAChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := RoleChannel("student")

	a := hub.NewSSEClient(uuid.New())
	b := hub.NewSSEClient(uuid.New())
	hub.AddChannel(a, channel)
	hub.AddChannel(b, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventAchievementEarned, Data: "badge"})

	for _, c := range []*SSEClient{a, b} {
		select {
		case msg := <-c.Outbound:
			if msg.Event != SSEEventAchievementEarned {
				t.Fatalf("unexpected event %q", msg.Event)
			}
		default:
			t.Fatalf("client %s missed the broadcast", c.ID)
		}
	}
}

func TestRemoveChannel_StopsDelivery(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := UserChannel(uuid.New().String())
	client := hub.NewSSEClient(uuid.New())

	hub.AddChannel(client, channel)
	hub.RemoveChannel(client, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventQuizReady, Data: "x"})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("received after unsubscribe: %+v", msg)
	default:
	}
}

func TestRemoveClient_ClearsAllSubscriptions(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	chans := []string{UserChannel(client.UserID.String()), RoleChannel("student")}
	for _, ch := range chans {
		hub.AddChannel(client, ch)
	}

	hub.RemoveClient(client)

	for _, ch := range chans {
		hub.Broadcast(SSEMessage{Channel: ch, Event: SSEEventChatReply, Data: "x"})
	}
	select {
	case msg := <-client.Outbound:
		t.Fatalf("received after removal: %+v", msg)
	default:
	}
	if len(client.Channels) != 0 {
		t.Fatalf("client channel set not cleared: %v", client.Channels)
	}
}

func TestBroadcast_DropsWhenOutboundBufferIsFull(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := UserChannel(uuid.New().String())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	// One more than the buffer; the overflow message must be dropped
	// without blocking.
	for i := 0; i < cap(client.Outbound)+1; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventChatReply, Data: i})
	}

	if got := len(client.Outbound); got != cap(client.Outbound) {
		t.Fatalf("expected full buffer of %d, got %d", cap(client.Outbound), got)
	}
}

func TestAddChannel_IgnoresBlankChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())

	hub.AddChannel(client, "   ")
	if len(client.Channels) != 0 {
		t.Fatalf("blank channel should be ignored, got %v", client.Channels)
	}
}
