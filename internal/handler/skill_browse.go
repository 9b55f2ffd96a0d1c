package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/model"
	"github.com/skillswap/skill-exchange/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the active
// skill catalog and public user profiles.
type PublicHandler struct {
	Skills SkillStore
	Users  UserStore
}

func NewPublicHandler(skills SkillStore, users UserStore) *PublicHandler {
	return &PublicHandler{Skills: skills, Users: users}
}

// ListSkills handles GET /v1/skills?search=&category=&kind=. Only active
// skills are returned. Unknown category or kind values are rejected rather
// than silently matching nothing; the literal "All" disables that filter.
func (h *PublicHandler) ListSkills(c echo.Context) error {
	f := repository.SkillFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" && raw != "All" {
		cat, err := model.ParseCategory(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		}
		f.Category = string(cat)
	}
	if raw := strings.TrimSpace(c.QueryParam("kind")); raw != "" && raw != "All" {
		kind, err := model.ParseKind(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
		}
		f.Kind = string(kind)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	skills, err := h.Skills.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"skills": skills, "count": len(skills)})
}

// GetSkill handles GET /v1/skills/:id. Withdrawn skills are still readable
// by direct link so existing trade conversations keep their context.
func (h *PublicHandler) GetSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Skills.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSkillNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// GetProfile handles GET /v1/users/:id/profile. The response carries the
// public projection of the user (no email) plus their active skills.
func (h *PublicHandler) GetProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	skills, err := h.Skills.ListActiveByOwner(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public(), "skills": skills})
}
