package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"adinsights/internal/domain/entity"
	"adinsights/internal/infrastructure/provider"
	"adinsights/internal/infrastructure/token"
)

const (
	// Default lookback windows differ between the two fetch call sites and
	// are kept distinct on purpose: the search-analytics queries use 28
	// days, the dashboard performance summary uses 30.
	searchAnalyticsWindowDays = 28
	performanceWindowDays     = 30

	dimensionQuery = "query"
	dimensionPage  = "page"

	// URL inspection is rate-limited aggressively; inspect only the top
	// pages, one at a time, with a pause between calls.
	maxInspections  = 10
	inspectionDelay = 200 * time.Millisecond
)

type InsightsUsecase interface {
	// FetchSearchConsoleData runs the keyword, page, and URL-inspection
	// queries for a site. Each query fails independently; the result carries
	// whatever succeeded plus markers for what did not.
	FetchSearchConsoleData(ctx context.Context, userID, siteURL, startDate, endDate string) (*entity.SearchConsoleData, error)

	// FetchPerformanceSummary computes the condensed stats block the
	// dashboard overview shows.
	FetchPerformanceSummary(ctx context.Context, userID, siteURL string) (*entity.PerformanceSummary, error)
}

type insightsUsecase struct {
	tokens        token.Service
	searchConsole provider.SearchConsoleClient
	logger        *zap.Logger
	now           func() time.Time
	delay         time.Duration
}

func NewInsightsUsecase(tokens token.Service, searchConsole provider.SearchConsoleClient, logger *zap.Logger) InsightsUsecase {
	return &insightsUsecase{
		tokens:        tokens,
		searchConsole: searchConsole,
		logger:        logger,
		now:           time.Now,
		delay:         inspectionDelay,
	}
}

func (u *insightsUsecase) FetchSearchConsoleData(ctx context.Context, userID, siteURL, startDate, endDate string) (*entity.SearchConsoleData, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}

	if startDate == "" || endDate == "" {
		startDate, endDate = u.defaultRange(searchAnalyticsWindowDays)
	}

	accessToken, err := u.tokens.AccessToken(ctx, userID, entity.ProviderSearchConsole)
	if err != nil {
		return nil, err
	}

	data := &entity.SearchConsoleData{
		SiteURL:   siteURL,
		StartDate: startDate,
		EndDate:   endDate,
	}

	keywordRows, err := u.searchConsole.QuerySearchAnalytics(ctx, accessToken, siteURL, startDate, endDate, dimensionQuery)
	if err != nil {
		u.logger.Warn("Keyword query failed", zap.String("site_url", siteURL), zap.Error(err))
		data.FailedQueries = append(data.FailedQueries, "keywords")
	} else {
		data.Keywords = normalizeRows(keywordRows)
	}

	pageRows, err := u.searchConsole.QuerySearchAnalytics(ctx, accessToken, siteURL, startDate, endDate, dimensionPage)
	if err != nil {
		u.logger.Warn("Page query failed", zap.String("site_url", siteURL), zap.Error(err))
		data.FailedQueries = append(data.FailedQueries, "pages")
	} else {
		data.Pages = normalizeRows(pageRows)
	}

	data.Inspections = u.inspectPages(ctx, accessToken, siteURL, pageRows, data)

	// Aggregate stats come only from rows that were actually fetched.
	switch {
	case len(keywordRows) > 0:
		data.Stats = aggregateStats(keywordRows)
	case len(pageRows) > 0:
		data.Stats = aggregateStats(pageRows)
	}

	return data, nil
}

// inspectPages walks the top page URLs sequentially with a small pause, so a
// rate-limited or failing inspection never takes the other queries down with it.
func (u *insightsUsecase) inspectPages(ctx context.Context, accessToken, siteURL string, pageRows []provider.AnalyticsRow, data *entity.SearchConsoleData) []entity.URLInspection {
	var inspections []entity.URLInspection

	for i, row := range pageRows {
		if i >= maxInspections {
			break
		}
		if i > 0 && u.delay > 0 {
			select {
			case <-ctx.Done():
				data.FailedQueries = append(data.FailedQueries, "inspection:"+row.Key)
				return inspections
			case <-time.After(u.delay):
			}
		}

		inspection, err := u.searchConsole.InspectURL(ctx, accessToken, siteURL, row.Key)
		if err != nil {
			u.logger.Warn("URL inspection failed",
				zap.String("page_url", row.Key),
				zap.Error(err),
			)
			data.FailedQueries = append(data.FailedQueries, "inspection:"+row.Key)
			continue
		}
		inspections = append(inspections, *inspection)
	}

	return inspections
}

func (u *insightsUsecase) FetchPerformanceSummary(ctx context.Context, userID, siteURL string) (*entity.PerformanceSummary, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}

	startDate, endDate := u.defaultRange(performanceWindowDays)

	accessToken, err := u.tokens.AccessToken(ctx, userID, entity.ProviderSearchConsole)
	if err != nil {
		return nil, err
	}

	rows, err := u.searchConsole.QuerySearchAnalytics(ctx, accessToken, siteURL, startDate, endDate, dimensionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch performance summary: %w", err)
	}

	summary := &entity.PerformanceSummary{
		SiteURL:     siteURL,
		StartDate:   startDate,
		EndDate:     endDate,
		AvgCTR:      "0.0",
		AvgPosition: "0.0",
	}

	if len(rows) == 0 {
		return summary, nil
	}

	// This call site averages per-row CTRs rather than dividing the totals;
	// the analytics endpoint does the opposite. Both behaviors are kept.
	var ctrSum, positionSum float64
	for _, row := range rows {
		summary.TotalClicks += row.Clicks
		summary.TotalImpressions += row.Impressions
		ctrSum += rowCTR(row.Clicks, row.Impressions)
		positionSum += row.Position
	}

	summary.AvgCTR = formatFixed(ctrSum / float64(len(rows)))
	summary.AvgPosition = formatFixed(positionSum / float64(len(rows)))

	return summary, nil
}

func (u *insightsUsecase) defaultRange(days int) (string, string) {
	end := u.now()
	start := end.AddDate(0, 0, -(days - 1))
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

func normalizeRows(rows []provider.AnalyticsRow) []entity.SearchAnalyticsRow {
	normalized := make([]entity.SearchAnalyticsRow, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, entity.SearchAnalyticsRow{
			Key:         row.Key,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			CTR:         formatFixed(rowCTR(row.Clicks, row.Impressions)),
			Position:    formatFixed(row.Position),
		})
	}
	return normalized
}

func aggregateStats(rows []provider.AnalyticsRow) *entity.QueryStats {
	stats := &entity.QueryStats{}

	var positionSum float64
	for _, row := range rows {
		stats.TotalClicks += row.Clicks
		stats.TotalImpressions += row.Impressions
		positionSum += row.Position
	}

	stats.AvgCTR = formatFixed(rowCTR(stats.TotalClicks, stats.TotalImpressions))

	avgPosition := 0.0
	if len(rows) > 0 {
		avgPosition = positionSum / float64(len(rows))
	}
	stats.AvgPosition = formatFixed(avgPosition)

	return stats
}

// rowCTR returns CTR as a percentage. Zero impressions yield 0, never NaN.
func rowCTR(clicks, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
