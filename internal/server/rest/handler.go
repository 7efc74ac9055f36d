package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avetrovs/sessionkeeper/internal/common"
	"github.com/avetrovs/sessionkeeper/internal/logging"
	"github.com/avetrovs/sessionkeeper/internal/server/config"
	"github.com/avetrovs/sessionkeeper/internal/server/models"
	"github.com/avetrovs/sessionkeeper/internal/server/services"
)

// refreshCookiePath scopes the refresh cookie to the auth endpoints so the
// secret never rides along on ordinary API calls.
const refreshCookiePath = "/api/auth"

type Handler struct {
	users         *services.UserService
	sessions      *services.SessionService
	authenticator *services.Authenticator
	logger        logging.Logger

	cookieMaxAge int
	cookieSecure bool
}

func NewHandler(cfg *config.Config, l logging.Logger, users *services.UserService, sessions *services.SessionService, authenticator *services.Authenticator) *Handler {
	return &Handler{
		users:         users,
		sessions:      sessions,
		authenticator: authenticator,
		logger:        l.With("module", "rest_handler"),
		cookieMaxAge:  int(cfg.RefreshTokenValidityDuration.Seconds()),
		cookieSecure:  cfg.CookieSecure,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
	auth.POST("/logout-all", h.authRequired(), h.logoutAll)

	api.GET("/me", h.authRequired(), h.me)
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, common.ErrStoreUnavailable):
			h.logger.Error(c.Request.Context(), "register failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
		default:
			h.logger.Error(c.Request.Context(), "register failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	c.JSON(http.StatusCreated, authResponse{
		User:        toUserResponse(result.User),
		AccessToken: result.Tokens.AccessToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrStoreUnavailable):
			h.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		}
		return
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	c.JSON(http.StatusOK, authResponse{
		User:        toUserResponse(result.User),
		AccessToken: result.Tokens.AccessToken,
	})
}

// refresh rotates the refresh token from the cookie. All security-negative
// outcomes produce the same generic 401 so a caller cannot probe which
// tokens exist, which expired, and which tripped the reuse detector.
func (h *Handler) refresh(c *gin.Context) {
	raw, err := c.Cookie(common.RefreshTokenCookieName)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	pair, err := h.sessions.Rotate(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			h.logger.Error(c.Request.Context(), "refresh failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
			return
		}
		if errors.Is(err, common.ErrBreachDetected) {
			h.logger.Warn(c.Request.Context(), "refresh token reuse detected, sessions revoked")
		}
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, refreshResponse{AccessToken: pair.AccessToken})
}

// logout revokes the cookie's session if there is one. It always clears the
// cookie and reports success: logging out twice is not an error.
func (h *Handler) logout(c *gin.Context) {
	if raw, err := c.Cookie(common.RefreshTokenCookieName); err == nil && raw != "" {
		if err := h.sessions.Revoke(c.Request.Context(), raw); err != nil {
			h.logger.Error(c.Request.Context(), "logout revoke failed", "error", err.Error())
		}
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) logoutAll(c *gin.Context) {
	user := principalFrom(c)

	n, err := h.sessions.RevokeAllForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "logout-all failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
		return
	}

	h.logger.Info(c.Request.Context(), "all sessions revoked", "count", n)
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(principalFrom(c)))
}

func (h *Handler) setRefreshCookie(c *gin.Context, raw string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.RefreshTokenCookieName, raw, h.cookieMaxAge, refreshCookiePath, "", h.cookieSecure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, refreshCookiePath, "", h.cookieSecure, true)
}
