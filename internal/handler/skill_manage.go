package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/middleware"
	"github.com/skillswap/skill-exchange/internal/model"
	"github.com/skillswap/skill-exchange/internal/repository"
)

// SkillHandler serves the authenticated skill management endpoints.
// Every mutation is scoped to the caller's own skills; the storage layer
// enforces ownership inside the write statement itself.
type SkillHandler struct {
	Skills SkillStore
	Cache  *middleware.CacheInvalidator // may be nil when caching is off
}

func NewSkillHandler(skills SkillStore, cache *middleware.CacheInvalidator) *SkillHandler {
	return &SkillHandler{Skills: skills, Cache: cache}
}

type createSkillReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Kind        string `json:"kind"`
	Location    string `json:"location"`
}

type updateSkillReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Kind        *string `json:"kind"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

// Create handles POST /v1/skills. New listings are always created active;
// the requested status, if any, is ignored.
func (h *SkillHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSkillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/description required"})
	}
	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Skill{
		OwnerID:     uid,
		Title:       req.Title,
		Description: req.Description,
		Category:    cat,
		Kind:        kind,
		Location:    strings.TrimSpace(req.Location),
	}
	if err := h.Skills.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create skill failed"})
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusCreated, s)
}

// Update handles PATCH /v1/skills/:id. Absent fields are left untouched;
// present fields are validated before the patch is applied. Setting status
// to "withdrawn" hides the listing from browse, "active" restores it.
func (h *SkillHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateSkillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var p repository.SkillPatch
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		p.Title = &t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description cannot be empty"})
		}
		p.Description = &d
	}
	if req.Category != nil {
		cat, err := model.ParseCategory(*req.Category)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		}
		p.Category = &cat
	}
	if req.Kind != nil {
		kind, err := model.ParseKind(*req.Kind)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
		}
		p.Kind = &kind
	}
	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		p.Location = &loc
	}
	if req.Status != nil {
		st, err := model.ParseSkillStatus(*req.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		p.Status = &st
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Skills.Update(ctx, id, uid, p)
	if err != nil {
		switch err {
		case repository.ErrSkillNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only update your own skills"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update skill failed"})
		}
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /v1/skills/:id. Trade requests that reference the
// skill survive the delete; requesters see them with a null skill.
func (h *SkillHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Skills.Delete(ctx, id, uid); err != nil {
		switch err {
		case repository.ErrSkillNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own skills"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete skill failed"})
		}
	}
	h.invalidate(ctx)
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my-skills: every listing owned by the caller,
// withdrawn ones included.
func (h *SkillHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	skills, err := h.Skills.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"skills": skills, "count": len(skills)})
}

func (h *SkillHandler) invalidate(ctx context.Context) {
	if h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
}
