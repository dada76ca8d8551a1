package memory

import (
	"time"

	"workspace-disputes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// IdentityCache keeps recently resolved users in memory so timeline actor
// attribution does not hit the users table on every mutation. Entries are
// short lived; role changes take effect within the TTL window.
type IdentityCache struct {
	cache *cache.Cache
}

func NewIdentityCache() *IdentityCache {
	// 2 minute expiry, purge sweep every 5 minutes
	c := cache.New(2*time.Minute, 5*time.Minute)
	return &IdentityCache{
		cache: c,
	}
}

func (r *IdentityCache) Save(user *entity.User) {
	r.cache.Set(user.Id.String(), user, cache.DefaultExpiration)
}

func (r *IdentityCache) Get(userId uuid.UUID) (*entity.User, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (r *IdentityCache) Delete(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
