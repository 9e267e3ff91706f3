package domain

// UsageStats is the cumulative usage snapshot served by GET /v1/stats/usage.
type UsageStats struct {
	VCardsGenerated int64   `json:"vcards_generated"`
	VCardViews      int64   `json:"vcard_views"`
	WebViews        int64   `json:"web_views"`
	TrackingDropped int64   `json:"tracking_dropped"`
	CacheHitRate    float64 `json:"cache_hit_rate"`
}
