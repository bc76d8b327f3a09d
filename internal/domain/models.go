package domain

import (
	"time"
)

// ShortLink binds a short alias to a long URL. Aliases are unique and the
// record is immutable once created.
type ShortLink struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	LongURL   string    `json:"long_url"`
	CreatedBy string    `json:"created_by,omitempty"` // empty for anonymous creation
	Topic     string    `json:"topic,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClickEvent is one recorded visit to a ShortLink. OS, Device, Country and
// City are best-effort derivations and may be empty.
type ClickEvent struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"link_id"`
	UserIP    string    `json:"user_ip"`
	UserAgent string    `json:"user_agent"`
	OS        string    `json:"os,omitempty"`
	Device    string    `json:"device,omitempty"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClickMeta carries the request-derived fields of a click before it is bound
// to a link.
type ClickMeta struct {
	UserIP    string
	UserAgent string
	OS        string
	Device    string
	Country   string
	City      string
}

// ClickDateCount is one bucket of a per-day click histogram.
type ClickDateCount struct {
	Date       string `json:"date"` // YYYY-MM-DD
	ClickCount int64  `json:"clickCount"`
}

// FieldBreakdown aggregates clicks by one value of a grouping field (an OS
// name or a device class).
type FieldBreakdown struct {
	Name         string `json:"name"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

// URLClickSummary is the per-URL slice of a topic aggregation.
type URLClickSummary struct {
	ShortURL    string `json:"shortUrl"`
	TotalClicks int64  `json:"totalClicks"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

// AliasAnalytics is the per-alias analytics result. ClicksByDate covers the
// trailing seven days.
type AliasAnalytics struct {
	TotalClicks  int64            `json:"totalClicks"`
	UniqueUsers  int64            `json:"uniqueUsers"`
	ClicksByDate []ClickDateCount `json:"clicksByDate"`
	OSType       []FieldBreakdown `json:"osType"`
	DeviceType   []FieldBreakdown `json:"deviceType"`
}

// TopicAnalytics aggregates every link under one topic for one owner.
type TopicAnalytics struct {
	TotalURLs    int64             `json:"totalUrls"`
	TotalClicks  int64             `json:"totalClicks"`
	UniqueUsers  int64             `json:"uniqueUsers"`
	ClicksByDate []ClickDateCount  `json:"clicksByDate"`
	URLs         []URLClickSummary `json:"urls"`
}

// OverallAnalytics aggregates every link owned by one principal.
type OverallAnalytics struct {
	TotalURLs    int64            `json:"totalUrls"`
	TotalClicks  int64            `json:"totalClicks"`
	UniqueUsers  int64            `json:"uniqueUsers"`
	ClicksByDate []ClickDateCount `json:"clicksByDate"`
	OSType       []FieldBreakdown `json:"osType"`
	DeviceType   []FieldBreakdown `json:"deviceType"`
}

// CreateLinkRequest is the POST /shorten payload.
type CreateLinkRequest struct {
	LongURL     string `json:"longUrl"`
	CustomAlias string `json:"customAlias,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// CreateLinkResponse is the POST /shorten success payload.
type CreateLinkResponse struct {
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
