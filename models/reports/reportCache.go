package reports

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
)

// Summary caching is opt-in (default off): a cached summary can lag writes by up to
// the TTL, which is fine for dashboards but not for the default consistency story.
// models/calculation.go clears ReportSummary:$userId on every write either way.

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func summaryCacheKey(userId string) string {
	return "ReportSummary:" + userId
}

func summaryCacheGet(userId string) (*ReportSummary, bool) {
	if !reportCacheEnabled() {
		return nil, false
	}
	var summary ReportSummary
	exists, err := config.GetRedisObject(summaryCacheKey(userId), &summary)
	if err != nil || !exists {
		return nil, false
	}
	return &summary, true
}

func summaryCacheSet(userId string, summary *ReportSummary) {
	if !reportCacheEnabled() {
		return
	}
	// Cache write failures only cost the next read a query.
	_ = config.SetRedisObject(summaryCacheKey(userId), summary, reportCacheTTL())
}
