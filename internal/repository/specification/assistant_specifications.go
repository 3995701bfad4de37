package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserPhone struct {
	Phone string
}

func (s ByUserPhone) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_phone = ?", s.Phone)
}

type ByWorkspaceID struct {
	WorkspaceID uuid.UUID
}

func (s ByWorkspaceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type EnclaveOnly struct{}

func (s EnclaveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_enclave = TRUE")
}

type ByActionID struct {
	ActionID uuid.UUID
}

func (s ByActionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("action_id = ?", s.ActionID)
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
