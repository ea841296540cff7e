package config

import (
	"fmt"
)

type CacheKeyStruct struct {
	prefix string
}

func NewCacheKeyStruct(prefix string) *CacheKeyStruct {
	return &CacheKeyStruct{prefix: prefix}
}

// UserKey returns the cache key for a single user DTO
func (r *CacheKeyStruct) UserKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", r.prefix, userID)
}

var CacheKey = NewCacheKeyStruct("practice")
