package contract

import (
	"context"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, log *entity.ConversationLog) error
	// FindRecent returns the newest turns first.
	FindRecent(ctx context.Context, userPhone string, limit int) ([]*entity.ConversationLog, error)
	Search(ctx context.Context, userPhone, query string, limit int) ([]*entity.ConversationLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationLog, error)
}
