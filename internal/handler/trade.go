package handler

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/model"
	"github.com/skillswap/skill-exchange/internal/queue"
	"github.com/skillswap/skill-exchange/internal/repository"
)

// TradeHandler serves the trade request lifecycle. Authorization is
// role-of-the-moment: the skill owner may accept or decline, the
// requester may cancel or mark complete, and nobody else may touch the
// request. State transitions go through compare-and-set updates in the
// store so two conflicting decisions resolve to exactly one winner.
type TradeHandler struct {
	Trades TradeStore
	Skills SkillStore
	Users  UserStore
	// Publish forwards a domain event to the broker. Best effort: a nil
	// hook or a failed publish never affects the HTTP response.
	Publish func(ctx context.Context, ev queue.TradeEvent) error
}

func NewTradeHandler(trades TradeStore, skills SkillStore, users UserStore, publish func(context.Context, queue.TradeEvent) error) *TradeHandler {
	return &TradeHandler{Trades: trades, Skills: skills, Users: users, Publish: publish}
}

type createTradeReq struct {
	Message string `json:"message"`
}

// Create handles POST /v1/skills/:id/trade-requests. The request targets
// an active skill owned by someone else, and at most one pending request
// per requester and skill may exist. The store enforces all three inside
// one guarded insert; the checks here only produce friendlier errors for
// the common cases.
func (h *TradeHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skillID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createTradeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	msg := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(msg) > model.MaxTradeMessageLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message too long"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	skill, err := h.Skills.GetByID(ctx, skillID)
	if err != nil {
		if err == repository.ErrSkillNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if skill.Status != model.SkillActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not available"})
	}
	if skill.OwnerID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot request a trade for your own skill"})
	}

	tr := model.TradeRequest{
		SkillID:     skillID,
		RequesterID: uid,
		Message:     msg,
	}
	if err := h.Trades.CreatePending(ctx, &tr); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a pending request for this skill"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot request a trade for your own skill"})
		case repository.ErrSkillNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill not available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create trade request failed"})
		}
	}

	h.emit(uid, &tr, skill)
	return c.JSON(http.StatusCreated, tr)
}

// ListMine handles GET /v1/my-trade-requests: everything the caller has
// sent, newest first. Requests whose skill was deleted are kept with a
// null skill so the history stays complete.
func (h *TradeHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Trades.ListByRequester(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": rows, "count": len(rows)})
}

// ListIncoming handles GET /v1/incoming-trade-requests: requests targeting
// any skill the caller currently owns.
func (h *TradeHandler) ListIncoming(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Trades.ListIncoming(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": rows, "count": len(rows)})
}

// NotificationSummary handles GET /v1/notifications/summary. The pending
// count is computed from the incoming listing on every call; it is never
// stored, so it can never drift from the underlying requests.
func (h *TradeHandler) NotificationSummary(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Trades.ListIncoming(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pending := 0
	for i := range rows {
		if rows[i].Status == model.TradePending {
			pending++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"pending_incoming": pending})
}

// Accept handles POST /v1/trade-requests/:id/accept. Owner only, and only
// from pending.
func (h *TradeHandler) Accept(c echo.Context) error {
	return h.respond(c, model.TradeAccepted)
}

// Decline handles POST /v1/trade-requests/:id/decline. Owner only, and
// only from pending.
func (h *TradeHandler) Decline(c echo.Context) error {
	return h.respond(c, model.TradeDeclined)
}

// respond implements the owner-side transitions. The ownership check reads
// the skill fresh on every call, so a skill that changed hands or was
// deleted since the request was sent is honored: accept and decline work
// against the current owner, not a remembered one.
func (h *TradeHandler) respond(c echo.Context, to model.TradeStatus) error {
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

	tr, err := h.Trades.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrTradeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trade request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	skill, err := h.Skills.GetByID(ctx, tr.SkillID)
	if err != nil {
		if err == repository.ErrSkillNotFound {
			// The skill is gone, so there is no owner left to decide.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "skill no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if skill.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the skill owner can respond to this request"})
	}

	if err := h.Trades.UpdateStatus(ctx, id, model.TradePending, to); err != nil {
		switch err {
		case repository.ErrTradeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trade request not found"})
		case repository.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": "request is no longer pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	tr.Status = to
	h.emit(tr.RequesterID, tr, skill)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": to})
}

// Cancel handles POST /v1/trade-requests/:id/cancel. Requester only, and
// only from pending. Cancel still works when the skill has been deleted:
// the requester is withdrawing their own request, no owner decision is
// involved.
func (h *TradeHandler) Cancel(c echo.Context) error {
	return h.requesterTransition(c, model.TradePending, model.TradeCancelled, "request is no longer pending")
}

// Complete handles POST /v1/trade-requests/:id/complete. Requester only,
// and only from accepted.
func (h *TradeHandler) Complete(c echo.Context) error {
	return h.requesterTransition(c, model.TradeAccepted, model.TradeCompleted, "request is not accepted")
}

func (h *TradeHandler) requesterTransition(c echo.Context, from, to model.TradeStatus, conflictMsg string) error {
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

	tr, err := h.Trades.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrTradeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trade request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if tr.RequesterID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the requester can modify this request"})
	}

	if err := h.Trades.UpdateStatus(ctx, id, from, to); err != nil {
		switch err {
		case repository.ErrTradeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trade request not found"})
		case repository.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": conflictMsg})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	tr.Status = to
	// Requester transitions may outlive the skill; the event then carries
	// only the request side.
	skill, _ := h.Skills.GetByID(ctx, tr.SkillID)
	h.emit(uid, tr, skill)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": to})
}

// emit publishes a TradeEvent off the request path. Lookups and publish
// run against a detached context so a slow broker cannot hold the
// response.
func (h *TradeHandler) emit(requesterID uint64, tr *model.TradeRequest, skill *model.Skill) {
	if h.Publish == nil {
		return
	}
	ev := queue.TradeEvent{
		RequestID:   tr.ID,
		SkillID:     tr.SkillID,
		RequesterID: requesterID,
		Status:      string(tr.Status),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if skill != nil {
		ev.SkillTitle = skill.Title
		ev.OwnerID = skill.OwnerID
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if h.Users != nil {
			if u, err := h.Users.GetByID(ctx, requesterID); err == nil {
				ev.RequesterName = u.Name
			}
		}
		_ = h.Publish(ctx, ev)
	}()
}
