package resumes

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

// RegisterRoutes attaches the resume routes. All of them require a token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.remove)
	rg.POST("/resumes/:id/improve", h.improve)
}

type createRequest struct {
	Title   string `json:"title" binding:"required,max=100"`
	Content string `json:"content"`
}

func (h *Handler) create(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "title must be non empty", nil)
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), actingUserID, req.Title, req.Content)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to create resume", nil)
		return
	}
	middleware.SetResumeID(c, resume.ID)

	respond.Created(c, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)
	limit, offset := pagination(c)

	list, err := h.Svc.List(c.Request.Context(), actingUserID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list resumes", nil)
		return
	}

	resp := make([]ResumeResponse, 0, len(list))
	for _, resume := range list {
		resp = append(resp, toResponse(resume))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	middleware.SetResumeID(c, id)

	resume, err := h.Svc.Get(c.Request.Context(), actingUserID, id)
	if err != nil {
		h.writeError(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

type updateRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=100"`
	Content *string `json:"content"`
}

func (h *Handler) update(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	middleware.SetResumeID(c, id)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", err.Error())
		return
	}

	upd := Update{
		Title:   usableTitle(req.Title),
		Content: req.Content,
	}

	resume, err := h.Svc.Update(c.Request.Context(), actingUserID, id, upd)
	if err != nil {
		if errors.Is(err, ErrNoFields) {
			respond.Error(c, http.StatusUnprocessableEntity, respond.CodeValidation, "no data to update", nil)
			return
		}
		h.writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) remove(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	middleware.SetResumeID(c, id)

	if err := h.Svc.Delete(c.Request.Context(), actingUserID, id); err != nil {
		h.writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) improve(c *gin.Context) {
	actingUserID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	middleware.SetResumeID(c, id)

	resume, err := h.Svc.Improve(c.Request.Context(), actingUserID, id)
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume has no content to improve", nil)
			return
		}
		h.writeError(c, err, "failed to improve resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "not the resume owner", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}

// usableTitle keeps the title only when it carries non-whitespace content.
// Content is passed through untouched so it can be cleared on purpose.
func usableTitle(value *string) *string {
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
