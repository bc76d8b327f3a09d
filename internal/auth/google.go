package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/shortify/shortify/internal/domain"
)

const (
	stateCookieName = "oauthstate"
	userinfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo?access_token="
)

// googleUser is the subset of the userinfo response we consume.
type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleHandler runs the OAuth login flow and mints session cookies.
type GoogleHandler struct {
	oauthConfig  *oauth2.Config
	tokens       *TokenManager
	log          *logrus.Logger
	secureCookie bool
}

// GoogleConfig carries the OAuth client settings.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	SecureCookie bool
}

// NewGoogleHandler creates the login flow handler.
func NewGoogleHandler(cfg GoogleConfig, tokens *TokenManager, log *logrus.Logger) *GoogleHandler {
	return &GoogleHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		tokens:       tokens,
		log:          log,
		secureCookie: cfg.SecureCookie,
	}
}

// Login redirects to Google's consent screen with a fresh state cookie.
func (h *GoogleHandler) Login(c *gin.Context) {
	state := h.setStateCookie(c)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthConfig.AuthCodeURL(state))
}

// Callback validates the state, exchanges the code, fetches the user info
// and sets the session cookie.
func (h *GoogleHandler) Callback(c *gin.Context) {
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || c.Query("state") != stateCookie {
		h.log.Warn("oauth callback with missing or mismatched state")
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid oauth state"})
		return
	}

	token, err := h.oauthConfig.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.log.WithError(err).Error("oauth code exchange failed")
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "login failed"})
		return
	}

	user, err := h.fetchUser(token.AccessToken)
	if err != nil {
		h.log.WithError(err).Error("oauth userinfo fetch failed")
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "login failed"})
		return
	}

	session, err := h.tokens.Issue(user.Email)
	if err != nil {
		h.log.WithError(err).Error("session token signing failed")
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "login failed"})
		return
	}

	c.SetCookie(CookieName, session, int(tokenTTL/time.Second), "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie.
func (h *GoogleHandler) Logout(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *GoogleHandler) fetchUser(accessToken string) (*googleUser, error) {
	resp, err := http.Get(userinfoURL + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *GoogleHandler) setStateCookie(c *gin.Context) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	state := base64.URLEncoding.EncodeToString(buf)

	c.SetCookie(stateCookieName, state, int((10*time.Minute)/time.Second), "/", "", h.secureCookie, true)
	return state
}
