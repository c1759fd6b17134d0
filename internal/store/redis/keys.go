package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefix namespaces every key written by this service
	KeyPrefix = "mockdata:"
	// ChangesChannel carries one JSON-encoded store.Change per write
	ChangesChannel = KeyPrefix + "changes"
)

// AreaKey returns the Redis key holding key inside a storage area
func AreaKey(area, key string) string {
	return fmt.Sprintf("%sarea:%s:%s", KeyPrefix, area, key)
}

// SplitAreaKey extracts the area and key from a Redis key built by AreaKey
func SplitAreaKey(redisKey string) (area, key string, err error) {
	rest, ok := strings.CutPrefix(redisKey, KeyPrefix+"area:")
	if !ok {
		return "", "", fmt.Errorf("invalid area key: %s", redisKey)
	}
	area, key, ok = strings.Cut(rest, ":")
	if !ok || area == "" || key == "" {
		return "", "", fmt.Errorf("invalid area key: %s", redisKey)
	}
	return area, key, nil
}
