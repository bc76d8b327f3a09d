package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/requestmeta"
	"github.com/shortify/shortify/internal/service"
)

// Handler holds the HTTP handlers for the shortening and analytics API.
type Handler struct {
	shortener service.Shortener
	analytics service.Analytics
	extractor *requestmeta.Extractor
	baseURL   string
	log       *logrus.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(shortener service.Shortener, analytics service.Analytics, extractor *requestmeta.Extractor, baseURL string, log *logrus.Logger) *Handler {
	return &Handler{
		shortener: shortener,
		analytics: analytics,
		extractor: extractor,
		baseURL:   baseURL,
		log:       log,
	}
}

// CreateShortLink handles POST /shorten.
func (h *Handler) CreateShortLink(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
		return
	}

	link, err := h.shortener.CreateShortLink(c.Request.Context(), service.CreateLinkParams{
		LongURL:     req.LongURL,
		CustomAlias: req.CustomAlias,
		Topic:       req.Topic,
		Owner:       auth.Principal(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkExists):
			// The existing alias is returned so the caller can keep using it.
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "you already have a short link for this URL",
				"shortUrl": h.shortURL(link.Alias),
			})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "long URL is required"})
		case errors.Is(err, service.ErrAliasTaken):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "alias already exists"})
		default:
			h.serverError(c, "create short link", err)
		}
		return
	}

	c.JSON(http.StatusCreated, domain.CreateLinkResponse{
		ShortURL:  h.shortURL(link.Alias),
		CreatedAt: link.CreatedAt,
	})
}

// Redirect handles GET /shorten/:alias.
func (h *Handler) Redirect(c *gin.Context) {
	meta := h.extractor.FromRequest(c.Request)

	link, err := h.shortener.Resolve(c.Request.Context(), c.Param("alias"), meta)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "URL not found"})
			return
		}
		h.serverError(c, "resolve alias", err)
		return
	}

	c.Redirect(http.StatusFound, link.LongURL)
}

// AnalyticsByAlias handles GET /analytics/:alias.
func (h *Handler) AnalyticsByAlias(c *gin.Context) {
	result, err := h.analytics.ByAlias(c.Request.Context(), c.Param("alias"), auth.Principal(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "URL not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, domain.ErrorResponse{Error: "not your link"})
		default:
			h.serverError(c, "alias analytics", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyticsByTopic handles GET /analytics/topic/:topic.
func (h *Handler) AnalyticsByTopic(c *gin.Context) {
	result, err := h.analytics.ByTopic(c.Request.Context(), c.Param("topic"), auth.Principal(c))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "topic not provided"})
			return
		}
		h.serverError(c, "topic analytics", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyticsOverall handles GET /analytics/overall.
func (h *Handler) AnalyticsOverall(c *gin.Context) {
	result, err := h.analytics.ByOwner(c.Request.Context(), auth.Principal(c))
	if err != nil {
		h.serverError(c, "overall analytics", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) shortURL(alias string) string {
	return h.baseURL + "/shorten/" + alias
}

// serverError logs the internal detail and returns a generic 500 body.
func (h *Handler) serverError(c *gin.Context, op string, err error) {
	h.log.WithError(err).WithField("op", op).Error("request failed")
	c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal server error"})
}
