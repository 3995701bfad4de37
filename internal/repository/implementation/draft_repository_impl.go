package implementation

import (
	"context"
	"errors"
	"time"

	"sms-assistant-be/internal/constant"
	"sms-assistant-be/internal/entity"
	"sms-assistant-be/internal/mapper"
	"sms-assistant-be/internal/model"
	"sms-assistant-be/internal/repository/contract"
	"sms-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DraftRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DraftMapper
}

func NewDraftRepository(db *gorm.DB) contract.DraftRepository {
	return &DraftRepositoryImpl{
		db:     db,
		mapper: mapper.NewDraftMapper(),
	}
}

func (r *DraftRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DraftRepositoryImpl) Upsert(ctx context.Context, draft *entity.Draft) error {
	m := r.mapper.ToModel(draft)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Draft
		err := r.applySpecifications(tx,
			specification.ByUserPhone{Phone: m.UserPhone},
			specification.ByKind{Kind: m.Kind},
			specification.ByStatus{Status: constant.DraftStatusDraft},
		).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil {
			m.Id = existing.Id
			m.CreatedAt = existing.CreatedAt
			if err := tx.Save(m).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}

		*draft = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *DraftRepositoryImpl) Discard(ctx context.Context, userPhone, kind string) error {
	return r.applySpecifications(r.db.WithContext(ctx),
		specification.ByUserPhone{Phone: userPhone},
		specification.ByKind{Kind: kind},
		specification.ByStatus{Status: constant.DraftStatusDraft},
	).Delete(&model.Draft{}).Error
}

func (r *DraftRepositoryImpl) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Draft{}).
		Where("id = ? AND status = ?", id, constant.DraftStatusDraft).
		Updates(map[string]interface{}{
			"status":  constant.DraftStatusSent,
			"sent_at": sentAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Already sent or discarded; the transition is idempotent.
		return nil
	}
	return nil
}

func (r *DraftRepositoryImpl) FindActive(ctx context.Context, userPhone string) (*entity.Draft, error) {
	var m model.Draft
	err := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByUserPhone{Phone: userPhone},
		specification.ByStatus{Status: constant.DraftStatusDraft},
	).Order("updated_at DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DraftRepositoryImpl) FindActiveByKind(ctx context.Context, userPhone, kind string) (*entity.Draft, error) {
	var m model.Draft
	err := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByUserPhone{Phone: userPhone},
		specification.ByKind{Kind: kind},
		specification.ByStatus{Status: constant.DraftStatusDraft},
	).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DraftRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Draft, error) {
	var m model.Draft
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DraftRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Draft, error) {
	var models []*model.Draft
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
