package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shortify/shortify/internal/alias"
	"github.com/shortify/shortify/internal/cache"
	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/metrics"
	"github.com/shortify/shortify/internal/repository"
)

const (
	// maxAliasAttempts bounds the retry loop when a generated alias collides.
	maxAliasAttempts = 5

	// clickTimeout bounds each detached click append.
	clickTimeout = 10 * time.Second
)

// shortener implements the Shortener interface.
type shortener struct {
	repo      repository.Repository
	cache     cache.LinkCache
	generator alias.Generator
	log       *logrus.Logger

	clickWG sync.WaitGroup
}

// NewShortener creates the shortening service.
func NewShortener(repo repository.Repository, linkCache cache.LinkCache, generator alias.Generator, log *logrus.Logger) Shortener {
	return &shortener{
		repo:      repo,
		cache:     linkCache,
		generator: generator,
		log:       log,
	}
}

// CreateShortLink creates a new short link, deduping by (longURL, owner).
func (s *shortener) CreateShortLink(ctx context.Context, params CreateLinkParams) (*domain.ShortLink, error) {
	if params.LongURL == "" {
		return nil, errors.Wrap(ErrValidation, "long URL is required")
	}

	existing, err := s.repo.GetLinkByLongURLAndOwner(ctx, params.LongURL, params.Owner)
	if err == nil {
		return existing, ErrLinkExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, errors.Wrap(err, "check existing link")
	}

	if params.CustomAlias != "" {
		return s.createWithAlias(ctx, params, alias.Normalize(params.CustomAlias), false)
	}

	// Generated aliases are hash-derived and not collision-free; retry with a
	// fresh random token on conflict.
	for attempt := 0; attempt < maxAliasAttempts; attempt++ {
		link, err := s.createWithAlias(ctx, params, alias.Normalize(s.generator.Generate()), true)
		if errors.Is(err, ErrAliasTaken) {
			continue
		}
		return link, err
	}
	return nil, errors.New("alias generation exhausted retries")
}

func (s *shortener) createWithAlias(ctx context.Context, params CreateLinkParams, a string, generated bool) (*domain.ShortLink, error) {
	if a == "" {
		return nil, errors.Wrap(ErrValidation, "alias is empty")
	}

	link, err := s.repo.CreateLink(ctx, &domain.ShortLink{
		Alias:     a,
		LongURL:   params.LongURL,
		CreatedBy: params.Owner,
		Topic:     params.Topic,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAlias) {
			return nil, ErrAliasTaken
		}
		return nil, errors.Wrap(err, "create link")
	}

	metrics.LinksCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"alias":     link.Alias,
		"generated": generated,
	}).Info("short link created")
	return link, nil
}

// Resolve serves an alias from the cache or the registry and records the
// click without blocking the caller.
func (s *shortener) Resolve(ctx context.Context, rawAlias string, meta domain.ClickMeta) (*domain.ShortLink, error) {
	a := alias.Normalize(rawAlias)
	if a == "" {
		return nil, ErrNotFound
	}

	link, hit := s.cache.Get(ctx, a)
	if hit {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()

		var err error
		link, err = s.repo.GetLinkByAlias(ctx, a)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Misses are never cached; the next request for this alias
				// re-checks the registry.
				return nil, ErrNotFound
			}
			return nil, errors.Wrap(err, "resolve alias")
		}

		// Populate before returning so the next request hits the cache.
		// Concurrent populations write identical snapshots.
		if err := s.cache.Set(ctx, a, link); err != nil {
			s.log.WithError(err).WithField("alias", a).Warn("cache populate failed")
		}
	}

	metrics.Redirects.Inc()
	s.recordClick(link, meta)
	return link, nil
}

// recordClick appends the click on a detached goroutine. The append is
// initiated only after the redirect target is known and is never awaited by
// the response path; failures feed the log sink only.
func (s *shortener) recordClick(link *domain.ShortLink, meta domain.ClickMeta) {
	click := &domain.ClickEvent{
		LinkID:    link.ID,
		UserIP:    meta.UserIP,
		UserAgent: meta.UserAgent,
		OS:        meta.OS,
		Device:    meta.Device,
		Country:   meta.Country,
		City:      meta.City,
		CreatedAt: time.Now().UTC(),
	}

	s.clickWG.Add(1)
	go func() {
		defer s.clickWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), clickTimeout)
		defer cancel()

		if err := s.repo.AppendClick(ctx, click); err != nil {
			metrics.ClicksDropped.Inc()
			s.log.WithError(err).WithField("alias", link.Alias).Warn("click append failed")
			return
		}
		metrics.ClicksRecorded.Inc()
	}()
}

// Close waits for in-flight click appends, then releases the cache. The
// repository is owned by the caller.
func (s *shortener) Close() error {
	s.clickWG.Wait()
	return s.cache.Close()
}

// Ensure shortener implements the interface
var _ Shortener = (*shortener)(nil)
