package service

import (
	"context"

	"sms-assistant-be/internal/pkg/logger"
	"sms-assistant-be/pkg/events"
	"sms-assistant-be/pkg/nats"
)

type IAuditService interface {
	Start() error
}

// auditService consumes every action event off the bus and writes it to
// the audit log file. The durable consumer survives restarts, so the
// trail has no gaps even when the process was down during a send.
type auditService struct {
	subscriber *nats.Subscriber
	auditLog   logger.ILogger
}

func NewAuditService(subscriber *nats.Subscriber, auditLog logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		auditLog:   auditLog,
	}
}

func (s *auditService) Start() error {
	return s.subscriber.Subscribe("assistant.>", "audit-trail", func(ctx context.Context, event events.Event) error {
		s.auditLog.Info("AUDIT", event.EventType(), event.Payload())
		return nil
	})
}
