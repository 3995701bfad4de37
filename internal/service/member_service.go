package service

import (
	"context"
	"time"

	"sms-assistant-be/internal/dto"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/repository/specification"
	"sms-assistant-be/internal/repository/unitofwork"
	"sms-assistant-be/pkg/turn/frame"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMemberService interface {
	Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error)
	List(ctx context.Context, role string) ([]*dto.ShowMemberResponse, error)
	Conversations(ctx context.Context, phone string, limit int) ([]*dto.ShowConversationResponse, error)
	PollResults(ctx context.Context, actionId uuid.UUID) (*dto.PollResultResponse, error)
}

type memberService struct {
	uowFactory  unitofwork.RepositoryFactory
	workspaceId uuid.UUID
}

func NewMemberService(uowFactory unitofwork.RepositoryFactory, workspaceId uuid.UUID) IMemberService {
	return &memberService{
		uowFactory:  uowFactory,
		workspaceId: workspaceId,
	}
}

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error) {
	phone := frame.NormalizePhone(req.Phone)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.MemberRepository().FindByPhone(ctx, s.workspaceId, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "member with this phone already exists")
	}

	role := req.Role
	if role == "" {
		role = "parent"
	}

	member := &entity.Member{
		Id:          uuid.New(),
		Phone:       phone,
		Name:        req.Name,
		Role:        role,
		WorkspaceId: s.workspaceId,
		CreatedAt:   time.Now(),
	}
	if err := uow.MemberRepository().Create(ctx, member); err != nil {
		return nil, err
	}
	return &dto.CreateMemberResponse{Id: member.Id}, nil
}

func (s *memberService) List(ctx context.Context, role string) ([]*dto.ShowMemberResponse, error) {
	specs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
		specification.NotDeleted{},
		specification.OrderBy{Field: "name", Desc: false},
	}
	if role != "" {
		specs = append(specs, specification.FilterBy{Field: "role", Value: role})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	members, err := uow.MemberRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShowMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, &dto.ShowMemberResponse{
			Id:        m.Id,
			Phone:     m.Phone,
			Name:      m.Name,
			Role:      m.Role,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (s *memberService) Conversations(ctx context.Context, phone string, limit int) ([]*dto.ShowConversationResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	}
	if phone != "" {
		specs = append(specs, specification.ByUserPhone{Phone: frame.NormalizePhone(phone)})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ShowConversationResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, &dto.ShowConversationResponse{
			Id:           l.Id,
			Phone:        l.UserPhone,
			UserMessage:  l.UserMessage,
			BotResponse:  l.BotResponse,
			Mode:         l.Mode,
			ResponseMode: l.ResponseMode,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out, nil
}

func (s *memberService) PollResults(ctx context.Context, actionId uuid.UUID) (*dto.PollResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	action, err := uow.ActionRepository().FindOne(ctx,
		specification.ByID{ID: actionId},
		specification.ByWorkspaceID{WorkspaceID: s.workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "poll not found")
	}

	tally, err := uow.PollResponseRepository().CountByAnswer(ctx, actionId)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range tally {
		total += n
	}

	question, _ := action.Payload["question"].(string)
	return &dto.PollResultResponse{
		ActionId:  actionId,
		Question:  question,
		Tally:     tally,
		Responses: total,
	}, nil
}
