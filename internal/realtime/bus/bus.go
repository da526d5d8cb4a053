package bus

import (
	"context"

	"github.com/yungbote/quizforge-backend/internal/realtime"
)

// Bus fans notification messages out across server processes. A single
// in-memory hub only reaches clients connected to this process; the bus
// is what makes a second instance share notifications.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
