package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/oss-mentor/issue-scout/internal/recommend"
)

// Cache memoizes ranked results for repeated identical requests within a
// session. It is an optional collaborator: a nil Cache disables memoization.
type Cache interface {
	Get(key string) ([]*recommend.Issue, bool)
	Put(key string, issues []*recommend.Issue, ttl time.Duration)
}

// Memory is an in-process TTL cache.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a Memory cache whose entries live for defaultTTL unless a
// Put overrides it.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *Memory) Get(key string) ([]*recommend.Issue, bool) {
	value, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}

	issues, ok := value.([]*recommend.Issue)
	return issues, ok
}

func (m *Memory) Put(key string, issues []*recommend.Issue, ttl time.Duration) {
	m.store.Set(key, issues, ttl)
}

// Key derives a stable cache key from the request parameters: the profile,
// the search strategy and the result budget.
func Key(profile *recommend.Profile, strategy string, budget int) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%d",
		profile.Experience,
		strings.Join(profile.Skills, ","),
		strings.Join(profile.Interests, ","),
		strategy,
		budget,
	)

	hash := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%x", hash[:])
}
