package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/shortify/shortify/internal/alias"
	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/repository"
)

// aliasHistogramDays is the window of the per-alias date histogram.
const aliasHistogramDays = 7

// analytics implements the Analytics interface. All entry points are
// read-only and never touch the resolution cache.
type analytics struct {
	repo    repository.Repository
	baseURL string // prefix for short URLs in per-URL breakdowns
}

// NewAnalytics creates the analytics service.
func NewAnalytics(repo repository.Repository, baseURL string) Analytics {
	return &analytics{
		repo:    repo,
		baseURL: baseURL,
	}
}

// ByAlias aggregates clicks for one alias via ledger queries.
func (a *analytics) ByAlias(ctx context.Context, rawAlias, requester string) (*domain.AliasAnalytics, error) {
	link, err := a.repo.GetLinkByAlias(ctx, alias.Normalize(rawAlias))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load link")
	}

	// Absent links 404 before ownership is considered; foreign links 403.
	if link.CreatedBy != "" && link.CreatedBy != requester {
		return nil, ErrForbidden
	}

	total, err := a.repo.CountClicks(ctx, link.ID)
	if err != nil {
		return nil, errors.Wrap(err, "count clicks")
	}

	unique, err := a.repo.CountUniqueVisitors(ctx, link.ID)
	if err != nil {
		return nil, errors.Wrap(err, "count unique visitors")
	}

	since := time.Now().UTC().AddDate(0, 0, -aliasHistogramDays).Truncate(24 * time.Hour)
	byDate, err := a.repo.ClicksByDate(ctx, link.ID, since)
	if err != nil {
		return nil, errors.Wrap(err, "clicks by date")
	}

	byOS, err := a.repo.ClicksByField(ctx, link.ID, "os")
	if err != nil {
		return nil, errors.Wrap(err, "clicks by os")
	}

	byDevice, err := a.repo.ClicksByField(ctx, link.ID, "device")
	if err != nil {
		return nil, errors.Wrap(err, "clicks by device")
	}

	return &domain.AliasAnalytics{
		TotalClicks:  total,
		UniqueUsers:  unique,
		ClicksByDate: byDate,
		OSType:       byOS,
		DeviceType:   byDevice,
	}, nil
}

// ByTopic aggregates every link the owner grouped under one topic. The
// grouping happens in memory over the full click set for those links.
func (a *analytics) ByTopic(ctx context.Context, topic, owner string) (*domain.TopicAnalytics, error) {
	if topic == "" {
		return nil, errors.Wrap(ErrValidation, "topic is required")
	}

	links, err := a.repo.GetLinksByTopicAndOwner(ctx, topic, owner)
	if err != nil {
		return nil, errors.Wrap(err, "load topic links")
	}
	if len(links) == 0 {
		return &domain.TopicAnalytics{
			ClicksByDate: []domain.ClickDateCount{},
			URLs:         []domain.URLClickSummary{},
		}, nil
	}

	clicks, err := a.clicksForLinks(ctx, links)
	if err != nil {
		return nil, err
	}

	linksByID := make(map[int64]*domain.ShortLink, len(links))
	for _, link := range links {
		linksByID[link.ID] = link
	}

	type urlAgg struct {
		clicks int64
		ips    map[string]struct{}
	}
	perURL := make(map[int64]*urlAgg)
	for _, click := range clicks {
		agg, ok := perURL[click.LinkID]
		if !ok {
			agg = &urlAgg{ips: make(map[string]struct{})}
			perURL[click.LinkID] = agg
		}
		agg.clicks++
		agg.ips[click.UserIP] = struct{}{}
	}

	urls := make([]domain.URLClickSummary, 0, len(perURL))
	for linkID, agg := range perURL {
		link, ok := linksByID[linkID]
		if !ok {
			continue
		}
		urls = append(urls, domain.URLClickSummary{
			ShortURL:    a.baseURL + "/shorten/" + link.Alias,
			TotalClicks: agg.clicks,
			UniqueUsers: int64(len(agg.ips)),
		})
	}
	sort.Slice(urls, func(i, j int) bool { return urls[i].ShortURL < urls[j].ShortURL })

	return &domain.TopicAnalytics{
		TotalURLs:    int64(len(links)),
		TotalClicks:  int64(len(clicks)),
		UniqueUsers:  countUniqueIPs(clicks),
		ClicksByDate: groupByDate(clicks),
		URLs:         urls,
	}, nil
}

// ByOwner aggregates every link one principal created.
func (a *analytics) ByOwner(ctx context.Context, owner string) (*domain.OverallAnalytics, error) {
	links, err := a.repo.GetLinksByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "load owner links")
	}

	clicks, err := a.clicksForLinks(ctx, links)
	if err != nil {
		return nil, err
	}

	return &domain.OverallAnalytics{
		TotalURLs:    int64(len(links)),
		TotalClicks:  int64(len(clicks)),
		UniqueUsers:  countUniqueIPs(clicks),
		ClicksByDate: groupByDate(clicks),
		OSType:       breakdownBy(clicks, func(c *domain.ClickEvent) string { return c.OS }),
		DeviceType:   breakdownBy(clicks, func(c *domain.ClickEvent) string { return c.Device }),
	}, nil
}

func (a *analytics) clicksForLinks(ctx context.Context, links []*domain.ShortLink) ([]*domain.ClickEvent, error) {
	ids := make([]int64, len(links))
	for i, link := range links {
		ids[i] = link.ID
	}

	clicks, err := a.repo.ListClicksForLinks(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load clicks")
	}
	return clicks, nil
}

func countUniqueIPs(clicks []*domain.ClickEvent) int64 {
	ips := make(map[string]struct{}, len(clicks))
	for _, click := range clicks {
		ips[click.UserIP] = struct{}{}
	}
	return int64(len(ips))
}

// groupByDate buckets clicks per calendar day, ascending.
func groupByDate(clicks []*domain.ClickEvent) []domain.ClickDateCount {
	counts := make(map[string]int64)
	for _, click := range clicks {
		counts[click.CreatedAt.UTC().Format("2006-01-02")]++
	}

	buckets := make([]domain.ClickDateCount, 0, len(counts))
	for date, count := range counts {
		buckets = append(buckets, domain.ClickDateCount{Date: date, ClickCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}

// breakdownBy groups clicks by a derived key, counting clicks and distinct
// IPs per value. Results are ordered by name.
func breakdownBy(clicks []*domain.ClickEvent, key func(*domain.ClickEvent) string) []domain.FieldBreakdown {
	type agg struct {
		clicks int64
		ips    map[string]struct{}
	}

	groups := make(map[string]*agg)
	for _, click := range clicks {
		name := key(click)
		g, ok := groups[name]
		if !ok {
			g = &agg{ips: make(map[string]struct{})}
			groups[name] = g
		}
		g.clicks++
		g.ips[click.UserIP] = struct{}{}
	}

	breakdowns := make([]domain.FieldBreakdown, 0, len(groups))
	for name, g := range groups {
		breakdowns = append(breakdowns, domain.FieldBreakdown{
			Name:         name,
			UniqueClicks: g.clicks,
			UniqueUsers:  int64(len(g.ips)),
		})
	}
	sort.Slice(breakdowns, func(i, j int) bool { return breakdowns[i].Name < breakdowns[j].Name })
	return breakdowns
}

// Ensure analytics implements the interface
var _ Analytics = (*analytics)(nil)
