// This file defines repository methods for trade requests. Two invariants
// are enforced at the statement level rather than with read-then-write
// sequences: at most one pending request per (requester, skill) pair, and
// monotonic status transitions. Both rely on conditional writes whose
// affected-row count tells the winner of a race from the loser.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skillswap/skill-exchange/internal/model"
)

// TradeRepo encapsulates all database queries related to trade requests.
type TradeRepo struct {
	db *sql.DB
}

// NewTradeRepo constructs a TradeRepo with the provided DB handle.
func NewTradeRepo(db *sql.DB) *TradeRepo {
	return &TradeRepo{db: db}
}

// CreatePending inserts a new trade request in the pending state. The
// insert is guarded in a single statement: it only fires while the
// target skill still exists, is active, is not owned by the requester,
// and no pending request from this requester for this skill exists.
// Two concurrent calls for the same pair therefore cannot both
// succeed; the loser gets ErrConflict. On success the generated ID and
// timestamps are populated on the given struct.
func (r *TradeRepo) CreatePending(ctx context.Context, t *model.TradeRequest) error {
	const q = `INSERT INTO trade_requests (skill_id, requester_id, message, status)
	           SELECT s.id, ?, ?, 'pending'
	           FROM skills s
	           WHERE s.id = ? AND s.status = 'active' AND s.owner_id <> ?
	             AND NOT EXISTS (
	               SELECT 1 FROM trade_requests tr
	               WHERE tr.requester_id = ? AND tr.skill_id = ? AND tr.status = 'pending'
	             )`
	res, err := r.db.ExecContext(ctx, q,
		t.RequesterID, t.Message, t.SkillID, t.RequesterID, t.RequesterID, t.SkillID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.classifyCreateFailure(ctx, t.SkillID, t.RequesterID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.Status = model.TradePending
	const sel = `SELECT created_at, updated_at FROM trade_requests WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// classifyCreateFailure decides which guard stopped the insert. The
// answers are advisory reads; the invariant itself was already
// enforced by the guarded statement.
func (r *TradeRepo) classifyCreateFailure(ctx context.Context, skillID, requesterID uint64) error {
	var pending int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM trade_requests WHERE requester_id = ? AND skill_id = ? AND status = 'pending' LIMIT 1`,
		requesterID, skillID).Scan(&pending)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	var ownerID uint64
	var status model.SkillStatus
	err = r.db.QueryRowContext(ctx,
		`SELECT owner_id, status FROM skills WHERE id = ?`, skillID).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSkillNotFound
		}
		return err
	}
	if ownerID == requesterID {
		return ErrForbidden
	}
	if status != model.SkillActive {
		return ErrSkillNotFound
	}
	// Every guard passes on re-read; the insert lost a race that has
	// since resolved. Report conflict so the caller retries a clean view.
	return ErrConflict
}

// GetByID retrieves a trade request by its ID without hydration. It
// returns ErrTradeNotFound if there is no matching row.
func (r *TradeRepo) GetByID(ctx context.Context, id uint64) (*model.TradeRequest, error) {
	const q = `SELECT id, skill_id, requester_id, message, status, created_at, updated_at
	           FROM trade_requests WHERE id = ?`
	var t model.TradeRequest
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.SkillID, &t.RequesterID, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatus performs the compare-and-set transition from -> to on a
// single request. The current-status precondition rides in the WHERE
// clause, so concurrent accept+decline (or accept+cancel) races
// resolve with exactly one winner; the loser observes zero affected
// rows and gets ErrInvalidState. ErrTradeNotFound is returned when the
// request id does not exist at all.
func (r *TradeRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.TradeStatus) error {
	const q = `UPDATE trade_requests SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInvalidState
	}
	return nil
}

const tradeCols = `tr.id, tr.skill_id, tr.requester_id, tr.message, tr.status, tr.created_at, tr.updated_at`

// ListByRequester returns the user's outgoing requests, newest first,
// each hydrated with its skill and the skill owner's projection. The
// skill join is a LEFT JOIN: requests whose listing has been deleted
// still appear, with a nil Skill, so the requester can see and cancel
// them.
func (r *TradeRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]model.TradeRequest, error) {
	const q = `SELECT ` + tradeCols + `,
	                  s.id, s.owner_id, s.title, s.description, s.category, s.kind, s.location, s.status,
	                  u.id, u.name, u.avatar_url, u.university, u.location
	           FROM trade_requests tr
	           LEFT JOIN skills s ON s.id = tr.skill_id
	           LEFT JOIN users u ON u.id = s.owner_id
	           WHERE tr.requester_id = ?
	           ORDER BY tr.created_at DESC, tr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TradeRequest, 0)
	for rows.Next() {
		var t model.TradeRequest
		var (
			sID, sOwner          sql.NullInt64
			sTitle, sDesc        sql.NullString
			sCat, sKind          sql.NullString
			sLoc, sStatus        sql.NullString
			uID                  sql.NullInt64
			uName, uAvatar       sql.NullString
			uUniversity, uLocStr sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &t.SkillID, &t.RequesterID, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt,
			&sID, &sOwner, &sTitle, &sDesc, &sCat, &sKind, &sLoc, &sStatus,
			&uID, &uName, &uAvatar, &uUniversity, &uLocStr,
		); err != nil {
			return nil, err
		}
		if sID.Valid {
			sk := model.Skill{
				ID:          uint64(sID.Int64),
				OwnerID:     uint64(sOwner.Int64),
				Title:       sTitle.String,
				Description: sDesc.String,
				Category:    model.Category(sCat.String),
				Kind:        model.Kind(sKind.String),
				Location:    sLoc.String,
				Status:      model.SkillStatus(sStatus.String),
			}
			if uID.Valid {
				sk.Owner = &model.PublicUser{
					ID:         uint64(uID.Int64),
					Name:       uName.String,
					AvatarURL:  uAvatar.String,
					University: uUniversity.String,
					Location:   uLocStr.String,
				}
			}
			t.Skill = &sk
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListIncoming returns all requests against skills currently owned by
// ownerID, newest first, hydrated with skill and requester. Ownership
// is resolved through the skills table at query time instead of a
// denormalized owner column, so the skill row stays the single source
// of truth for routing; requests whose skill has been deleted drop
// out of the owner's view entirely.
func (r *TradeRepo) ListIncoming(ctx context.Context, ownerID uint64) ([]model.TradeRequest, error) {
	const q = `SELECT ` + tradeCols + `,
	                  s.id, s.owner_id, s.title, s.description, s.category, s.kind, s.location, s.status,
	                  u.id, u.name, u.avatar_url, u.university, u.location
	           FROM trade_requests tr
	           JOIN skills s ON s.id = tr.skill_id AND s.owner_id = ?
	           JOIN users u ON u.id = tr.requester_id
	           ORDER BY tr.created_at DESC, tr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TradeRequest, 0)
	for rows.Next() {
		var t model.TradeRequest
		var sk model.Skill
		var req model.PublicUser
		if err := rows.Scan(
			&t.ID, &t.SkillID, &t.RequesterID, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt,
			&sk.ID, &sk.OwnerID, &sk.Title, &sk.Description, &sk.Category, &sk.Kind, &sk.Location, &sk.Status,
			&req.ID, &req.Name, &req.AvatarURL, &req.University, &req.Location,
		); err != nil {
			return nil, err
		}
		t.Skill = &sk
		t.Requester = &req
		out = append(out, t)
	}
	return out, rows.Err()
}
