package contract

import (
	"context"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"
)

type ActionRepository interface {
	// Create appends a completed action. Records are never updated.
	Create(ctx context.Context, action *entity.ActionRecord) error
	FindRecent(ctx context.Context, userPhone string, limit int) ([]*entity.ActionRecord, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ActionRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActionRecord, error)
}
