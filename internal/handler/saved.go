package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/repository"
)

// SavedHandler serves the bookmark endpoints. A save of an already-saved
// skill is a no-op success, so the UI can toggle freely without racing
// itself.
type SavedHandler struct {
	Saved SavedSkillStore
}

func NewSavedHandler(saved SavedSkillStore) *SavedHandler {
	return &SavedHandler{Saved: saved}
}

// Save handles POST /v1/skills/:id/save.
func (h *SavedHandler) Save(c echo.Context) error {
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

	if err := h.Saved.Save(ctx, uid, id); err != nil {
		if err == repository.ErrSkillNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": true, "skill_id": id})
}

// Unsave handles DELETE /v1/skills/:id/save. Removing a bookmark that does
// not exist is also a no-op success.
func (h *SavedHandler) Unsave(c echo.Context) error {
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

	if err := h.Saved.Unsave(ctx, uid, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unsave failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": false, "skill_id": id})
}

// ListIDs handles GET /v1/saved-skills/ids. The bare ID list lets clients
// mark saved state on browse results with a single cheap call.
func (h *SavedHandler) ListIDs(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ids, err := h.Saved.ListIDs(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ids == nil {
		ids = []uint64{}
	}
	return c.JSON(http.StatusOK, echo.Map{"skill_ids": ids})
}

// ListSkills handles GET /v1/saved-skills. Bookmarks whose skill has been
// withdrawn or deleted are filtered out here; the rows themselves stay so
// a restored skill reappears.
func (h *SavedHandler) ListSkills(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	skills, err := h.Saved.ListSkills(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"skills": skills, "count": len(skills)})
}
