package specification

import "gorm.io/gorm"

// ResourceSearchQuery matches resources whose title or content contains
// the query, case-insensitive.
type ResourceSearchQuery struct {
	Query string
}

func (s ResourceSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// ConversationSearchQuery matches either side of a logged turn.
type ConversationSearchQuery struct {
	Query string
}

func (s ConversationSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("user_message ILIKE ? OR bot_response ILIKE ?", pattern, pattern)
}
