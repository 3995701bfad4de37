package contract

import (
	"context"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	Update(ctx context.Context, member *entity.Member) error
	FindByPhone(ctx context.Context, workspaceId uuid.UUID, phone string) (*entity.Member, error)
	// FindByAudience resolves an audience label ("everyone" or a role name)
	// to its members.
	FindByAudience(ctx context.Context, workspaceId uuid.UUID, audience string) ([]*entity.Member, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error)
}

type PollResponseRepository interface {
	// Upsert records one answer per (action, phone); a repeat vote
	// overwrites the previous answer.
	Upsert(ctx context.Context, response *entity.PollResponse) error
	FindByAction(ctx context.Context, actionId uuid.UUID) ([]*entity.PollResponse, error)
	// CountByAnswer tallies responses per answer for an action.
	CountByAnswer(ctx context.Context, actionId uuid.UUID) (map[string]int, error)
}
