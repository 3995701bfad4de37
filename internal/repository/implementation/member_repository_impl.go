package implementation

import (
	"context"
	"errors"
	"strings"

	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/mapper"
	"sms-assistant-be/internal/model"
	"sms-assistant-be/internal/repository/contract"
	"sms-assistant-be/internal/repository/scope"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemberMapper
}

func NewMemberRepository(db *gorm.DB) contract.MemberRepository {
	return &MemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemberMapper(),
	}
}

func (r *MemberRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *entity.Member) error {
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberRepositoryImpl) Update(ctx context.Context, member *entity.Member) error {
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemberRepositoryImpl) FindByPhone(ctx context.Context, workspaceId uuid.UUID, phone string) (*entity.Member, error) {
	var m model.Member
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND phone = ?", workspaceId, phone).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemberRepositoryImpl) FindByAudience(ctx context.Context, workspaceId uuid.UUID, audience string) ([]*entity.Member, error) {
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId)
	if audience != "" && !strings.EqualFold(audience, "everyone") {
		query = query.Where("role = ?", strings.ToLower(audience))
	}

	var models []*model.Member
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemberRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	var models []*model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type PollResponseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PollResponseMapper
}

func NewPollResponseRepository(db *gorm.DB) contract.PollResponseRepository {
	return &PollResponseRepositoryImpl{
		db:     db,
		mapper: mapper.NewPollResponseMapper(),
	}
}

func (r *PollResponseRepositoryImpl) Upsert(ctx context.Context, response *entity.PollResponse) error {
	m := r.mapper.ToModel(response)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "action_id"}, {Name: "member_phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "created_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*response = *r.mapper.ToEntity(m)
	return nil
}

func (r *PollResponseRepositoryImpl) FindByAction(ctx context.Context, actionId uuid.UUID) ([]*entity.PollResponse, error) {
	var models []*model.PollResponse
	err := specification.ByActionID{ActionID: actionId}.
		Apply(r.db.WithContext(ctx)).
		Scopes(scope.OrderByCreatedAsc).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PollResponseRepositoryImpl) CountByAnswer(ctx context.Context, actionId uuid.UUID) (map[string]int, error) {
	type row struct {
		Answer string
		Total  int
	}
	var rows []row
	err := specification.ByActionID{ActionID: actionId}.
		Apply(r.db.WithContext(ctx).Model(&model.PollResponse{})).
		Select("answer, COUNT(*) as total").
		Group("answer").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Answer] = r.Total
	}
	return counts, nil
}
