package cache

import "fmt"

func RateLimitKey(packageName string) string {
	return fmt.Sprintf("ratelimit:%s", packageName)
}

// RecentLogsKey caches the default dashboard query for a package. Only the
// default limit is cached, so a single key per package is enough to
// invalidate on insert or delete.
func RecentLogsKey(packageName string) string {
	return fmt.Sprintf("logs:recent:%s", packageName)
}
