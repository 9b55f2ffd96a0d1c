// Package handler defines the HTTP handlers for the skill exchange API.
// Handlers validate request input, call into the storage layer and map
// storage errors onto HTTP status codes. All authorization decisions
// (ownership of a skill, the actor roles of a trade request) are enforced
// here or atomically inside the storage layer, never trusted from the
// client.
package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/model"
	"github.com/skillswap/skill-exchange/internal/repository"
)

// SkillStore is the persistence surface handlers need for skills. It is
// implemented by repository.SkillRepo; tests substitute an in-memory fake.
type SkillStore interface {
	Create(ctx context.Context, s *model.Skill) error
	GetByID(ctx context.Context, id uint64) (*model.Skill, error)
	List(ctx context.Context, f repository.SkillFilter) ([]model.Skill, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error)
	ListActiveByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error)
	Update(ctx context.Context, id, callerID uint64, p repository.SkillPatch) (*model.Skill, error)
	Delete(ctx context.Context, id, callerID uint64) error
}

// SavedSkillStore covers the bookmark operations. Save must be idempotent:
// saving an already-saved skill succeeds without creating a second row.
type SavedSkillStore interface {
	Save(ctx context.Context, userID, skillID uint64) error
	Unsave(ctx context.Context, userID, skillID uint64) error
	ListIDs(ctx context.Context, userID uint64) ([]uint64, error)
	ListSkills(ctx context.Context, userID uint64) ([]model.Skill, error)
}

// TradeStore covers trade request persistence. CreatePending and
// UpdateStatus are single atomic statements in the SQL implementation so
// concurrent duplicates and double transitions resolve to exactly one
// winner.
type TradeStore interface {
	CreatePending(ctx context.Context, t *model.TradeRequest) error
	GetByID(ctx context.Context, id uint64) (*model.TradeRequest, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.TradeStatus) error
	ListByRequester(ctx context.Context, requesterID uint64) ([]model.TradeRequest, error)
	ListIncoming(ctx context.Context, ownerID uint64) ([]model.TradeRequest, error)
}

// UserStore is the read surface for public profiles.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// getUserID extracts the user_id placed on the context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
