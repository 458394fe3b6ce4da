package fetch

import "strings"

// CacheKey derives a cache filename from a resource URL by removing the
// fixed base prefix and replacing path separators with "-", per spec.md
// §4.3 step 1 and §6.
func CacheKey(baseURL, url string) string {
	rest := strings.TrimPrefix(url, baseURL)
	rest = strings.TrimPrefix(rest, "/")
	return strings.ReplaceAll(rest, "/", "-")
}
