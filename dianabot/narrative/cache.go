package narrative

import (
	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// FragmentCache keeps hot fragments (with decisions and requirements loaded)
// in memory. Content edits show up after the TTL; admin content tooling calls
// Invalidate for immediate effect.
type FragmentCache struct {
	lru *expirable.LRU[string, *models.NarrativeFragment]
}

func NewFragmentCache() *FragmentCache {
	return &FragmentCache{
		lru: expirable.NewLRU[string, *models.NarrativeFragment](
			config.FragmentCacheSize, nil, config.FragmentCacheExpiration),
	}
}

func (c *FragmentCache) Get(fragmentKey string) (*models.NarrativeFragment, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(fragmentKey)
}

func (c *FragmentCache) Put(fragment *models.NarrativeFragment) {
	if c == nil {
		return
	}
	c.lru.Add(fragment.FragmentKey, fragment)
}

func (c *FragmentCache) Invalidate(fragmentKey string) {
	if c == nil {
		return
	}
	c.lru.Remove(fragmentKey)
}

func (c *FragmentCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
