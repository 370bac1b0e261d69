// Package cache provides in-process TTL caches backed by go-cache
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a TTL key/value cache
type Store struct {
	c *gocache.Cache
}

// New creates a cache whose entries expire after ttl
func New(ttl time.Duration) *Store {
	cleanup := ttl * 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{c: gocache.New(ttl, cleanup)}
}

// Get returns a cached value
func (s *Store) Get(key string) (interface{}, bool) {
	return s.c.Get(key)
}

// Set stores a value with the default TTL
func (s *Store) Set(key string, value interface{}) {
	s.c.SetDefault(key, value)
}

// Delete drops one key
func (s *Store) Delete(key string) {
	s.c.Delete(key)
}
