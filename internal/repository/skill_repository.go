// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for skill listings. Writes are
// conditional on current ownership: the WHERE clause re-reads owner_id from
// the row being written, so a mutation can never act on stale ownership no
// matter how long ago the caller fetched the skill.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skillswap/skill-exchange/internal/model"
)

// SkillFilter carries the optional browse constraints. Empty or "All"
// values mean no constraint. Search matches title or description
// case-insensitively with substring semantics.
type SkillFilter struct {
	Search   string
	Category string
	Kind     string
}

// SkillPatch describes a partial update of a skill. Nil fields are
// left untouched.
type SkillPatch struct {
	Title       *string
	Description *string
	Category    *model.Category
	Kind        *model.Kind
	Location    *string
	Status      *model.SkillStatus
}

// SkillRepo encapsulates all database queries related to skills.
type SkillRepo struct {
	db *sql.DB
}

// NewSkillRepo constructs a SkillRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewSkillRepo(db *sql.DB) *SkillRepo {
	return &SkillRepo{db: db}
}

const skillCols = `s.id, s.owner_id, s.title, s.description, s.category, s.kind, s.location, s.status, s.created_at, s.updated_at`

const skillOwnerCols = skillCols + `, u.id, u.name, u.avatar_url, u.university, u.location`

// scanSkillWithOwner scans a row produced by a query selecting
// skillOwnerCols (skills joined to their owner).
func scanSkillWithOwner(scan func(...any) error) (model.Skill, error) {
	var s model.Skill
	var o model.PublicUser
	err := scan(
		&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Category, &s.Kind,
		&s.Location, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		&o.ID, &o.Name, &o.AvatarURL, &o.University, &o.Location,
	)
	if err != nil {
		return s, err
	}
	s.Owner = &o
	return s, nil
}

// Create inserts a new skill. Status is always forced to active
// regardless of what the caller supplied. On success the generated ID
// and DB-default timestamps are populated on the given struct.
func (r *SkillRepo) Create(ctx context.Context, s *model.Skill) error {
	const q = `INSERT INTO skills (owner_id, title, description, category, kind, location, status)
	           VALUES (?, ?, ?, ?, ?, ?, 'active')`
	res, err := r.db.ExecContext(ctx, q, s.OwnerID, s.Title, s.Description, s.Category, s.Kind, s.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SkillActive
	const sel = `SELECT created_at, updated_at FROM skills WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a skill by its ID regardless of status, hydrated
// with its owner's public projection. It returns ErrSkillNotFound if
// no row is found.
func (r *SkillRepo) GetByID(ctx context.Context, id uint64) (*model.Skill, error) {
	const q = `SELECT ` + skillOwnerCols + `
	           FROM skills s
	           JOIN users u ON u.id = s.owner_id
	           WHERE s.id = ?`
	s, err := scanSkillWithOwner(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns active skills matching the filter, newest first, each
// hydrated with its owner. When nothing matches it returns an empty
// slice and nil error.
func (r *SkillRepo) List(ctx context.Context, f SkillFilter) ([]model.Skill, error) {
	where := []string{"s.status = 'active'"}
	args := []any{}

	if f.Search != "" {
		where = append(where, "(LOWER(s.title) LIKE ? OR LOWER(s.description) LIKE ?)")
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat, pat)
	}
	if f.Category != "" && f.Category != "All" {
		where = append(where, "s.category = ?")
		args = append(args, f.Category)
	}
	if f.Kind != "" && f.Kind != "All" {
		where = append(where, "s.kind = ?")
		args = append(args, f.Kind)
	}

	q := `SELECT ` + skillOwnerCols + `
	      FROM skills s
	      JOIN users u ON u.id = s.owner_id
	      WHERE ` + strings.Join(where, " AND ") + `
	      ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Skill, 0)
	for rows.Next() {
		s, err := scanSkillWithOwner(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByOwner returns all skills owned by the given user regardless of
// status, newest first. It backs the self-management view, which is
// the only place withdrawn skills are visible.
func (r *SkillRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error) {
	return r.listOwned(ctx, ownerID, false)
}

// ListActiveByOwner returns the owner's active skills only, newest
// first. It backs the public profile view.
func (r *SkillRepo) ListActiveByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error) {
	return r.listOwned(ctx, ownerID, true)
}

func (r *SkillRepo) listOwned(ctx context.Context, ownerID uint64, activeOnly bool) ([]model.Skill, error) {
	q := `SELECT ` + skillCols + ` FROM skills s WHERE s.owner_id = ?`
	if activeOnly {
		q += ` AND s.status = 'active'`
	}
	q += ` ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Skill, 0)
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Category, &s.Kind,
			&s.Location, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update applies a partial patch to a skill owned by callerID. The
// ownership check rides in the UPDATE's WHERE clause, so it always
// reflects the row's current owner. When zero rows are affected the
// skill is re-read to tell ErrSkillNotFound from ErrForbidden apart.
// On success the updated skill is returned.
func (r *SkillRepo) Update(ctx context.Context, id, callerID uint64, p SkillPatch) (*model.Skill, error) {
	set := []string{}
	args := []any{}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Kind != nil {
		set = append(set, "kind = ?")
		args = append(args, *p.Kind)
	}
	if p.Location != nil {
		set = append(set, "location = ?")
		args = append(args, *p.Location)
	}
	if p.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *p.Status)
	}
	if len(set) == 0 {
		// Nothing to change; still enforce existence and ownership.
		return r.requireOwned(ctx, id, callerID)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	q := `UPDATE skills SET ` + strings.Join(set, ", ") + ` WHERE id = ? AND owner_id = ?`
	args = append(args, id, callerID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows when the new values equal
		// the old ones, so confirm via a read before reporting an error.
		return r.requireOwned(ctx, id, callerID)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a skill owned by callerID. Trade requests referencing
// the skill are intentionally left in place; listing queries degrade
// to a null skill reference for them.
func (r *SkillRepo) Delete(ctx context.Context, id, callerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ? AND owner_id = ?`, id, callerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := r.requireOwned(ctx, id, callerID)
		if err != nil {
			return err
		}
		// Owned row existed at the follow-up read: the conditional
		// delete lost a race. Treat as not found.
		return ErrSkillNotFound
	}
	return nil
}

// requireOwned loads a skill and verifies ownership, mapping the two
// failure modes onto the shared sentinels.
func (r *SkillRepo) requireOwned(ctx context.Context, id, callerID uint64) (*model.Skill, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return s, nil
}
