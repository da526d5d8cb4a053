package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/realtime"
	"github.com/yungbote/quizforge-backend/internal/realtime/bus"
)

// NotifierService routes realtime events. With a bus configured the
// message goes through Redis so every server instance's hub delivers it;
// without one it goes straight to the local hub.
type NotifierService interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, event realtime.SSEEvent, data any)
	NotifyRole(ctx context.Context, role string, event realtime.SSEEvent, data any)
}

type notifierService struct {
	log *logger.Logger
	hub *realtime.SSEHub
	bus bus.Bus
}

func NewNotifierService(log *logger.Logger, hub *realtime.SSEHub, b bus.Bus) NotifierService {
	serviceLog := log.With("service", "NotifierService")
	return &notifierService{log: serviceLog, hub: hub, bus: b}
}

func (s *notifierService) NotifyUser(ctx context.Context, userID uuid.UUID, event realtime.SSEEvent, data any) {
	s.send(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID.String()),
		Event:   event,
		Data:    data,
	})
}

func (s *notifierService) NotifyRole(ctx context.Context, role string, event realtime.SSEEvent, data any) {
	s.send(ctx, realtime.SSEMessage{
		Channel: realtime.RoleChannel(role),
		Event:   event,
		Data:    data,
	})
}

func (s *notifierService) send(ctx context.Context, msg realtime.SSEMessage) {
	if s.bus != nil {
		if err := s.bus.Publish(ctx, msg); err != nil {
			s.log.Warn("Bus publish failed, delivering locally", "error", err)
			s.hub.Broadcast(msg)
		}
		return
	}
	s.hub.Broadcast(msg)
}
