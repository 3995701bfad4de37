package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/pkg/logger"
	"sms-assistant-be/internal/pkg/mailer"
	"sms-assistant-be/internal/repository/memory"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/store"
	"sms-assistant-be/pkg/turn/envelope"
	"sms-assistant-be/pkg/turn/execute"
	"sms-assistant-be/pkg/turn/frame"
	"sms-assistant-be/pkg/turn/planner"

	"github.com/google/uuid"
)

type ITurnService interface {
	// Handle runs one inbound message through the full turn pipeline and
	// returns the replies to deliver. It never fails a turn on internal
	// errors; the caller always gets at least one message.
	Handle(ctx context.Context, req *dto.InboundSmsRequest) (*dto.InboundSmsResponse, error)
}

type turnService struct {
	frameBuilder    *frame.Builder
	envelopeBuilder *envelope.Builder
	router          *execute.Router
	uowFactory      unitofwork.RepositoryFactory
	states          *memory.StateRepository
	emailService    mailer.IEmailService
	adminEmail      string
	workspaceId     uuid.UUID
	logger          logger.ILogger
}

func NewTurnService(
	frameBuilder *frame.Builder,
	envelopeBuilder *envelope.Builder,
	router *execute.Router,
	uowFactory unitofwork.RepositoryFactory,
	states *memory.StateRepository,
	emailService mailer.IEmailService,
	adminEmail string,
	workspaceId uuid.UUID,
	logger logger.ILogger,
) ITurnService {
	return &turnService{
		frameBuilder:    frameBuilder,
		envelopeBuilder: envelopeBuilder,
		router:          router,
		uowFactory:      uowFactory,
		states:          states,
		emailService:    emailService,
		adminEmail:      adminEmail,
		workspaceId:     workspaceId,
		logger:          logger,
	}
}

// pollVoteWindow bounds how long after a poll send a bare option reply is
// still treated as a vote.
const pollVoteWindow = 14 * 24 * time.Hour

func (s *turnService) Handle(ctx context.Context, req *dto.InboundSmsRequest) (*dto.InboundSmsResponse, error) {
	phone := frame.NormalizePhone(req.From)
	text := strings.TrimSpace(req.Body)

	// A member replying with a poll option is a vote, not a conversation.
	if reply, voted := s.tryPollVote(ctx, phone, text); voted {
		return &dto.InboundSmsResponse{
			Replies: []string{reply},
			Mode:    string(store.ModeIdle),
		}, nil
	}

	f := s.frameBuilder.Build(ctx, frame.Input{
		Phone:       phone,
		Text:        text,
		WorkspaceID: s.workspaceId.String(),
	})

	if f.Signals.Toxicity == store.ToxicityAbusive {
		s.escalateAbuse(phone, text)
	}

	mode := planner.Plan(f)
	env := s.envelopeBuilder.Build(ctx, f, mode)
	result := s.router.Execute(ctx, mode, f, env)

	finalMode := f.Mode
	if result.NewMode != nil {
		finalMode = *result.NewMode
		s.states.SetMode(phone, finalMode)
	}

	s.persistTurn(ctx, f, mode, finalMode, result)

	return &dto.InboundSmsResponse{
		Replies: result.Messages,
		Mode:    string(finalMode),
	}, nil
}

// tryPollVote records the answer when the sender is a non-admin member and
// the text matches an option of the most recently sent poll.
func (s *turnService) tryPollVote(ctx context.Context, phone, text string) (string, bool) {
	if text == "" {
		return "", false
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	member, err := uow.MemberRepository().FindByPhone(ctx, s.workspaceId, phone)
	if err != nil {
		s.logger.Warn("TURN", "member lookup failed", map[string]interface{}{"phone": phone, "error": err.Error()})
		return "", false
	}
	if member == nil || member.Role == constant.RoleAdmin {
		return "", false
	}

	poll, err := uow.ActionRepository().FindOne(ctx,
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
		specification.ByKind{Kind: constant.EventPollSent},
		specification.CreatedSince{Since: time.Now().Add(-pollVoteWindow)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil || poll == nil {
		return "", false
	}

	option, ok := matchPollOption(poll.Payload, text)
	if !ok {
		return "", false
	}

	err = uow.PollResponseRepository().Upsert(ctx, &entity.PollResponse{
		Id:          uuid.New(),
		ActionId:    poll.Id,
		MemberPhone: phone,
		Answer:      option,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error("TURN", "failed to record poll vote", map[string]interface{}{"phone": phone, "error": err.Error()})
		return constant.MsgApology, true
	}

	s.recordPollTally(ctx, uow, poll, phone)

	return fmt.Sprintf("Thanks! I've recorded your vote: %s.", option), true
}

// recordPollTally appends an aggregation snapshot after each vote so the
// action history always carries the latest standings.
func (s *turnService) recordPollTally(ctx context.Context, uow unitofwork.UnitOfWork, poll *entity.ActionRecord, voterPhone string) {
	tally, err := uow.PollResponseRepository().CountByAnswer(ctx, poll.Id)
	if err != nil {
		s.logger.Warn("TURN", "failed to tally poll responses", map[string]interface{}{"action_id": poll.Id.String(), "error": err.Error()})
		return
	}

	total := 0
	counts := make(map[string]interface{}, len(tally))
	for answer, n := range tally {
		counts[answer] = n
		total += n
	}

	agg := &entity.ActionRecord{
		Id:          uuid.New(),
		UserPhone:   voterPhone,
		WorkspaceId: s.workspaceId,
		Kind:        constant.EventPollResponsesAgg,
		Payload: map[string]interface{}{
			"action_id": poll.Id.String(),
			"question":  poll.Payload["question"],
			"tally":     counts,
			"responses": total,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ActionRepository().Create(ctx, agg); err != nil {
		s.logger.Warn("TURN", "failed to record poll tally", map[string]interface{}{"action_id": poll.Id.String(), "error": err.Error()})
	}
}

func matchPollOption(payload map[string]interface{}, text string) (string, bool) {
	raw, ok := payload["options"]
	if !ok {
		return "", false
	}
	options, ok := raw.([]interface{})
	if !ok {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(text), ".!"))
	for _, o := range options {
		option, ok := o.(string)
		if !ok {
			continue
		}
		if strings.ToLower(option) == normalized {
			return option, true
		}
	}
	return "", false
}

func (s *turnService) escalateAbuse(phone, text string) {
	if s.adminEmail == "" {
		return
	}
	go func() {
		if err := s.emailService.SendAbuseEscalation(s.adminEmail, phone, text); err != nil {
			s.logger.Error("TURN", "abuse escalation email failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}

// persistTurn appends the exchange to the conversation log. Log failures
// never affect the reply.
func (s *turnService) persistTurn(
	ctx context.Context,
	f *store.TurnFrame,
	responseMode store.ResponseMode,
	finalMode store.Mode,
	result store.TurnResult,
) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.ConversationRepository().Create(ctx, &entity.ConversationLog{
		Id:           uuid.New(),
		UserPhone:    f.UserPhone,
		WorkspaceId:  s.workspaceId,
		UserMessage:  f.Text,
		BotResponse:  strings.Join(result.Messages, "\n"),
		Mode:         string(finalMode),
		ResponseMode: string(responseMode),
		CreatedAt:    f.Now,
	})
	if err != nil {
		s.logger.Error("TURN", "failed to persist conversation log", map[string]interface{}{"phone": f.UserPhone, "error": err.Error()})
	}
}
