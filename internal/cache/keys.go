package cache

import "fmt"

func RecordKey(contentID string) string {
	return fmt.Sprintf("record:%s", contentID)
}

func StatsKey() string {
	return "stats:global"
}

func RateLimitKey(clientID string) string {
	return fmt.Sprintf("ratelimit:%s", clientID)
}
