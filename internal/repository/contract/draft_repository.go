package contract

import (
	"context"
	"time"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DraftRepository interface {
	// Upsert creates the active draft for (phone, kind) or overwrites it.
	// At most one non-terminal draft exists per phone and kind.
	Upsert(ctx context.Context, draft *entity.Draft) error
	// Discard soft-deletes the active draft for (phone, kind).
	Discard(ctx context.Context, userPhone, kind string) error
	// MarkSent performs the terminal DRAFT -> SENT transition.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	FindActive(ctx context.Context, userPhone string) (*entity.Draft, error)
	FindActiveByKind(ctx context.Context, userPhone, kind string) (*entity.Draft, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Draft, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Draft, error)
}
