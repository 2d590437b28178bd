package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/matillion/mattermost-export/internal/mattermost"
	"go.uber.org/zap"
)

// userPageSize is the fixed page size for the eager user listing.
const userPageSize = 200

// Resolver owns the UserID to Username mapping shared by every channel
// worker of a job. The cache grows monotonically and is never evicted;
// the job lifetime bounds memory use.
type Resolver struct {
	api    mattermost.API
	logger *zap.Logger

	mu    sync.RWMutex
	names map[string]string
	me    string
}

// NewResolver creates an empty resolver. Call ResolveAll before use.
func NewResolver(api mattermost.API, logger *zap.Logger) *Resolver {
	return &Resolver{
		api:    api,
		logger: logger,
		names:  make(map[string]string),
	}
}

// ResolveAll identifies the authenticated user and eagerly loads every
// user visible to the session, paging until the server returns an empty
// page.
func (r *Resolver) ResolveAll(ctx context.Context) error {
	me, err := r.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("identify session user: %w", err)
	}

	r.mu.Lock()
	r.me = me.ID
	r.names[me.ID] = me.Username
	r.mu.Unlock()

	for page := 0; ; page++ {
		users, err := r.api.GetUsers(ctx, page, userPageSize)
		if err != nil {
			return fmt.Errorf("list users page %d: %w", page, err)
		}
		if len(users) == 0 {
			break
		}

		r.mu.Lock()
		for _, u := range users {
			r.names[u.ID] = u.Username
		}
		r.mu.Unlock()
	}

	r.logger.Info("Resolved user directory",
		zap.String("me", me.Username),
		zap.Int("users", r.Size()))
	return nil
}

// Me returns the authenticated user's ID.
func (r *Resolver) Me() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.me
}

// Lookup checks the cache only.
func (r *Resolver) Lookup(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// Resolve is the read-through path: cache hit returns immediately, a miss
// performs a single-user lookup and inserts the result. Racing inserts for
// the same ID are harmless since all writers agree on the value.
func (r *Resolver) Resolve(ctx context.Context, id string) (string, error) {
	if name, ok := r.Lookup(id); ok {
		return name, nil
	}

	user, err := r.api.GetUser(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve user %s: %w", id, err)
	}

	r.mu.Lock()
	r.names[id] = user.Username
	r.mu.Unlock()

	return user.Username, nil
}

// Size returns the number of cached usernames.
func (r *Resolver) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
