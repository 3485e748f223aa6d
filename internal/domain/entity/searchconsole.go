package entity

// SearchAnalyticsRow is one normalized row of Search Console analytics,
// keyed by either a query (keyword) or a page URL depending on the
// dimension requested. CTR and Position are fixed-point strings so the
// dashboard renders them stably.
type SearchAnalyticsRow struct {
	Key         string `json:"key"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	CTR         string `json:"ctr"`
	Position    string `json:"position"`
}

// URLInspection is the per-page index inspection result.
type URLInspection struct {
	URL           string `json:"url"`
	Verdict       string `json:"verdict"`
	CoverageState string `json:"coverage_state"`
	LastCrawled   string `json:"last_crawled,omitempty"`
}

// QueryStats is the aggregate block computed from the rows that were
// fetched successfully.
type QueryStats struct {
	TotalClicks      int64  `json:"total_clicks"`
	TotalImpressions int64  `json:"total_impressions"`
	AvgCTR           string `json:"avg_ctr"`
	AvgPosition      string `json:"avg_position"`
}

// SearchConsoleData is the full fetch result. Each sub-query is independent:
// a failed one appears in FailedQueries while the rest still carry data.
type SearchConsoleData struct {
	SiteURL       string               `json:"site_url"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Keywords      []SearchAnalyticsRow `json:"keywords"`
	Pages         []SearchAnalyticsRow `json:"pages"`
	Inspections   []URLInspection      `json:"inspections"`
	Stats         *QueryStats          `json:"stats,omitempty"`
	FailedQueries []string             `json:"failed_queries,omitempty"`
}

// PerformanceSummary is the condensed block the dashboard overview shows.
type PerformanceSummary struct {
	SiteURL          string `json:"site_url"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalClicks      int64  `json:"total_clicks"`
	TotalImpressions int64  `json:"total_impressions"`
	AvgCTR           string `json:"avg_ctr"`
	AvgPosition      string `json:"avg_position"`
}
