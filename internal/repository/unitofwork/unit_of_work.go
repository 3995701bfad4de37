package unitofwork

import (
	"context"

	"sms-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DraftRepository() contract.DraftRepository
	ActionRepository() contract.ActionRepository
	ConversationRepository() contract.ConversationRepository
	ResourceRepository() contract.ResourceRepository
	ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository
	MemberRepository() contract.MemberRepository
	PollResponseRepository() contract.PollResponseRepository
}
