package dto

import "github.com/google/uuid"

// PublishEmbedResourceMessage is the watermill payload that schedules
// re-embedding of one resource.
type PublishEmbedResourceMessage struct {
	ResourceId uuid.UUID `json:"resource_id"`
}
