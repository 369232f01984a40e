package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// debounceTTL is how long a per-user trigger flag lives. Back-to-back
// classify/refresh calls within this window are rejected so a double-click
// cannot double-bill the provider.
const debounceTTL = 5 * time.Second

type debouncer struct {
	flags *gocache.Cache
}

func newDebouncer() *debouncer {
	return &debouncer{flags: gocache.New(debounceTTL, 2*debounceTTL)}
}

// tryAcquire sets the time-expiring flag for (operation, user). Returns
// false when a flag is already held.
func (d *debouncer) tryAcquire(operation string, userID uuid.UUID) bool {
	key := fmt.Sprintf("%s:%s", operation, userID)
	err := d.flags.Add(key, struct{}{}, gocache.DefaultExpiration)
	return err == nil
}
