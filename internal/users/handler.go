package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/server/middleware"
	"resume-service/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the routes that work without a token.
// loginLimit guards the login endpoint against credential stuffing.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	rg.POST("/users", h.register)
	rg.GET("/users", h.list)
	if loginLimit != nil {
		rg.POST("/users/login", loginLimit, h.login)
	} else {
		rg.POST("/users/login", h.login)
	}
}

// RegisterProtectedRoutes attaches the owner-scoped routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:id", h.get)
	rg.PUT("/users/:id", h.update)
	rg.DELETE("/users/:id", h.remove)
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "username must be non empty", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Username, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			respond.Error(c, http.StatusConflict, respond.CodeConflict, "username or email already registered", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to register user", nil)
		return
	}

	respond.Created(c, toResponse(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", err.Error())
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "incorrect username or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to log in", nil)
		return
	}

	respond.OK(c, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := pagination(c)

	list, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list users", nil)
		return
	}

	resp := make([]UserResponse, 0, len(list))
	for _, user := range list {
		resp = append(resp, toResponse(user))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)

	user, err := h.Svc.Get(c.Request.Context(), actingUserID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to fetch user")
		return
	}
	respond.OK(c, toResponse(user))
}

type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

func (h *Handler) update(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", err.Error())
		return
	}

	upd := Update{
		Username: usableField(req.Username),
		Email:    usableField(req.Email),
	}

	user, err := h.Svc.Update(c.Request.Context(), actingUserID, c.Param("id"), upd)
	if err != nil {
		if errors.Is(err, ErrNoFields) {
			respond.Error(c, http.StatusUnprocessableEntity, respond.CodeValidation, "no data to update", nil)
			return
		}
		if errors.Is(err, ErrDuplicate) {
			respond.Error(c, http.StatusConflict, respond.CodeConflict, "username or email already registered", nil)
			return
		}
		h.writeError(c, err, "failed to update user")
		return
	}
	respond.OK(c, toResponse(user))
}

func (h *Handler) remove(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), actingUserID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete user")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "not the account owner", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}

// usableField keeps a field only when it carries non-whitespace content.
func usableField(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 100
	offset = 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
