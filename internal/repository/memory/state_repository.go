package memory

import (
	"time"

	"sms-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// StateRepository keeps each user's conversational mode in process memory.
// A mode that sits untouched for an hour falls back to IDLE, which matches
// how a stalled SMS conversation should behave.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) SetMode(userPhone string, mode store.Mode) {
	r.cache.Set(userPhone, mode, cache.DefaultExpiration)
}

func (r *StateRepository) GetMode(userPhone string) (store.Mode, bool) {
	if x, found := r.cache.Get(userPhone); found {
		return x.(store.Mode), true
	}
	return store.ModeIdle, false
}

func (r *StateRepository) ClearMode(userPhone string) {
	r.cache.Delete(userPhone)
}
