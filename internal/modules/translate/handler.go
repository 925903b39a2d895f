package translate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"unitra/internal/middleware"
	"unitra/internal/pkg/response"
	"unitra/internal/store"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/translate/languages", h.Languages)
}

// RegisterProtectedRoutes expects a group that already runs JWTAuth and the
// translate rate limiter.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("", h.Translate)
	protected.POST("/batch", h.TranslateBatch)
	protected.GET("/usage", h.Usage)
	protected.GET("/history", h.History)
}

func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID, tier, ok := identity(c)
	if !ok {
		return
	}

	resp, err := h.service.Translate(c.Request.Context(), userID, tier, req)
	if err != nil {
		writeTranslateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) TranslateBatch(c *gin.Context) {
	var req BatchTranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID, tier, ok := identity(c)
	if !ok {
		return
	}

	resp, err := h.service.TranslateBatch(c.Request.Context(), userID, tier, req)
	if err != nil {
		writeTranslateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Usage(c *gin.Context) {
	userID, tier, ok := identity(c)
	if !ok {
		return
	}

	resp, err := h.service.Usage(c.Request.Context(), userID, tier)
	if err != nil {
		writeTranslateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) History(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.service.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeTranslateError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Languages(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Languages())
}

func identity(c *gin.Context) (uuid.UUID, string, bool) {
	userID, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, "", false
	}
	return userID, c.GetString(middleware.CtxTier), true
}

func writeTranslateError(c *gin.Context, err error) {
	var langErr *InvalidLanguageError
	var quotaErr *QuotaExceededError

	switch {
	case errors.As(err, &langErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "INVALID_LANGUAGE", langErr.Error(), gin.H{
			"language": langErr.Lang,
		})
	case errors.As(err, &quotaErr):
		response.RateLimited(c, "USAGE_LIMIT_EXCEEDED", "Weekly usage limit exceeded", 3600, gin.H{
			"limit": quotaErr.Limit,
			"used":  quotaErr.Used,
		})
	case errors.Is(err, ErrInsufficientTier):
		response.ErrorWithDetails(c, http.StatusForbidden, "INSUFFICIENT_TIER", "This feature requires BASIC tier or higher", gin.H{
			"required_tier": "basic",
		})
	case errors.Is(err, ErrEngineUnavailable):
		response.Error(c, http.StatusBadGateway, "MT_SERVICE_ERROR", "Translation service unavailable")
	case errors.Is(err, store.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Usage store unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
