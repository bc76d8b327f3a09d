// Package sqlite implements the link registry and click ledger on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/repository"
)

// Repository implements repository.Repository using SQLite.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at databasePath and applies pending
// migrations.
func New(databasePath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// Foreign keys are off by default in SQLite; WAL keeps readers unblocked
	// during the click-append write path.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, errors.Wrap(err, "enable WAL mode")
	}

	repo := &Repository{db: db}

	if err := repo.runMigrations(context.Background()); err != nil {
		return nil, errors.Wrap(err, "run migrations")
	}

	return repo, nil
}

// CreateLink inserts a new link row. A unique-constraint violation on the
// alias surfaces as repository.ErrDuplicateAlias.
func (r *Repository) CreateLink(ctx context.Context, link *domain.ShortLink) (*domain.ShortLink, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO links (alias, long_url, created_by, topic, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		link.Alias, link.LongURL, link.CreatedBy, link.Topic, link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateAlias
		}
		return nil, errors.Wrap(err, "create link")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read inserted link id")
	}

	created := *link
	created.ID = id
	return &created, nil
}

// GetLinkByAlias retrieves a link by its alias.
func (r *Repository) GetLinkByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, alias, long_url, created_by, topic, created_at
		 FROM links WHERE alias = ?`, alias)
	return scanLink(row)
}

// GetLinkByLongURLAndOwner finds an existing link for the same long URL and
// owner.
func (r *Repository) GetLinkByLongURLAndOwner(ctx context.Context, longURL, owner string) (*domain.ShortLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, alias, long_url, created_by, topic, created_at
		 FROM links WHERE long_url = ? AND created_by = ?
		 ORDER BY id LIMIT 1`, longURL, owner)
	return scanLink(row)
}

// GetLinksByTopicAndOwner lists links grouped under a topic for one owner.
func (r *Repository) GetLinksByTopicAndOwner(ctx context.Context, topic, owner string) ([]*domain.ShortLink, error) {
	return r.queryLinks(ctx,
		`SELECT id, alias, long_url, created_by, topic, created_at
		 FROM links WHERE topic = ? AND created_by = ? ORDER BY id`, topic, owner)
}

// GetLinksByOwner lists every link created by one owner.
func (r *Repository) GetLinksByOwner(ctx context.Context, owner string) ([]*domain.ShortLink, error) {
	return r.queryLinks(ctx,
		`SELECT id, alias, long_url, created_by, topic, created_at
		 FROM links WHERE created_by = ? ORDER BY id`, owner)
}

// AppendClick records one visit row.
func (r *Repository) AppendClick(ctx context.Context, click *domain.ClickEvent) error {
	createdAt := click.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clicks (link_id, user_ip, user_agent, os, device, country, city, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		click.LinkID, click.UserIP, click.UserAgent, click.OS, click.Device,
		click.Country, click.City, createdAt)
	return errors.Wrap(err, "append click")
}

// CountClicks returns the total click count for a link.
func (r *Repository) CountClicks(ctx context.Context, linkID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM clicks WHERE link_id = ?", linkID).Scan(&count)
	return count, errors.Wrap(err, "count clicks")
}

// CountUniqueVisitors returns the number of distinct user IPs for a link.
func (r *Repository) CountUniqueVisitors(ctx context.Context, linkID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT user_ip) FROM clicks WHERE link_id = ?", linkID).Scan(&count)
	return count, errors.Wrap(err, "count unique visitors")
}

// ClicksByDate buckets clicks per day in ascending date order, restricted to
// events at or after since.
func (r *Repository) ClicksByDate(ctx context.Context, linkID int64, since time.Time) ([]domain.ClickDateCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date(created_at), COUNT(*)
		 FROM clicks WHERE link_id = ? AND created_at >= ?
		 GROUP BY date(created_at) ORDER BY date(created_at)`, linkID, since)
	if err != nil {
		return nil, errors.Wrap(err, "clicks by date")
	}
	defer rows.Close()

	buckets := []domain.ClickDateCount{}
	for rows.Next() {
		var bucket domain.ClickDateCount
		if err := rows.Scan(&bucket.Date, &bucket.ClickCount); err != nil {
			return nil, errors.Wrap(err, "scan date bucket")
		}
		buckets = append(buckets, bucket)
	}
	return buckets, errors.Wrap(rows.Err(), "clicks by date")
}

// ClicksByField groups clicks by the os or device column.
func (r *Repository) ClicksByField(ctx context.Context, linkID int64, field string) ([]domain.FieldBreakdown, error) {
	// The column name cannot be a bind parameter; restrict it to the two
	// supported grouping fields.
	var column string
	switch field {
	case "os":
		column = "os"
	case "device":
		column = "device"
	default:
		return nil, errors.Errorf("unsupported grouping field %q", field)
	}

	query := fmt.Sprintf(
		`SELECT %s, COUNT(*), COUNT(DISTINCT user_ip)
		 FROM clicks WHERE link_id = ?
		 GROUP BY %s ORDER BY %s`, column, column, column)

	rows, err := r.db.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, errors.Wrapf(err, "clicks by %s", field)
	}
	defer rows.Close()

	breakdowns := []domain.FieldBreakdown{}
	for rows.Next() {
		var b domain.FieldBreakdown
		if err := rows.Scan(&b.Name, &b.UniqueClicks, &b.UniqueUsers); err != nil {
			return nil, errors.Wrap(err, "scan field breakdown")
		}
		breakdowns = append(breakdowns, b)
	}
	return breakdowns, errors.Wrapf(rows.Err(), "clicks by %s", field)
}

// ListClicksForLinks returns every click referencing any of the given links.
func (r *Repository) ListClicksForLinks(ctx context.Context, linkIDs []int64) ([]*domain.ClickEvent, error) {
	if len(linkIDs) == 0 {
		return []*domain.ClickEvent{}, nil
	}

	placeholders := strings.Repeat("?,", len(linkIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(linkIDs))
	for i, id := range linkIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, link_id, user_ip, user_agent, os, device, country, city, created_at
		 FROM clicks WHERE link_id IN (%s) ORDER BY id`, placeholders), args...)
	if err != nil {
		return nil, errors.Wrap(err, "list clicks for links")
	}
	defer rows.Close()

	clicks := []*domain.ClickEvent{}
	for rows.Next() {
		var c domain.ClickEvent
		if err := rows.Scan(&c.ID, &c.LinkID, &c.UserIP, &c.UserAgent,
			&c.OS, &c.Device, &c.Country, &c.City, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan click")
		}
		clicks = append(clicks, &c)
	}
	return clicks, errors.Wrap(rows.Err(), "list clicks for links")
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) queryLinks(ctx context.Context, query string, args ...any) ([]*domain.ShortLink, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query links")
	}
	defer rows.Close()

	links := []*domain.ShortLink{}
	for rows.Next() {
		var link domain.ShortLink
		if err := rows.Scan(&link.ID, &link.Alias, &link.LongURL,
			&link.CreatedBy, &link.Topic, &link.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan link")
		}
		links = append(links, &link)
	}
	return links, errors.Wrap(rows.Err(), "query links")
}

func scanLink(row *sql.Row) (*domain.ShortLink, error) {
	var link domain.ShortLink
	err := row.Scan(&link.ID, &link.Alias, &link.LongURL,
		&link.CreatedBy, &link.Topic, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "scan link")
	}
	return &link, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// Ensure Repository implements the interface
var _ repository.Repository = (*Repository)(nil)
