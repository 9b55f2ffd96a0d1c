package repository

import (
	"context"
	"database/sql"

	"github.com/skillswap/skill-exchange/internal/model"
)

// SavedSkillRepo manages the per-user bookmark set over catalog
// entries. Both Save and Unsave are idempotent: re-saving and
// unsaving a never-saved pair succeed silently. There is no ownership
// restriction; a user may bookmark any active skill including their own.
type SavedSkillRepo struct {
	db *sql.DB
}

// NewSavedSkillRepo constructs a SavedSkillRepo with the given DB handle.
func NewSavedSkillRepo(db *sql.DB) *SavedSkillRepo {
	return &SavedSkillRepo{db: db}
}

// Save bookmarks a skill for a user. The existence check and the
// insert are one statement, so two concurrent saves cannot produce
// two rows and no store-specific duplicate-key error code is relied
// on. Saving requires the skill to exist and be active; an already
// saved pair is a silent success.
func (r *SavedSkillRepo) Save(ctx context.Context, userID, skillID uint64) error {
	const q = `INSERT INTO saved_skills (user_id, skill_id)
	           SELECT ?, s.id FROM skills s
	           WHERE s.id = ? AND s.status = 'active'
	             AND NOT EXISTS (
	               SELECT 1 FROM saved_skills ss WHERE ss.user_id = ? AND ss.skill_id = ?
	             )`
	res, err := r.db.ExecContext(ctx, q, userID, skillID, userID, skillID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows: either the pair already exists (fine) or the skill is
	// missing/withdrawn (not found).
	exists, err := r.isSaved(ctx, userID, skillID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return ErrSkillNotFound
}

// Unsave removes a bookmark. Removing a bookmark that does not exist
// is not an error.
func (r *SavedSkillRepo) Unsave(ctx context.Context, userID, skillID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_skills WHERE user_id = ? AND skill_id = ?`, userID, skillID)
	return err
}

// ListIDs returns the skill ids the user has bookmarked, regardless of
// the skills' current status. Clients use the raw id set to render
// save toggles.
func (r *SavedSkillRepo) ListIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill_id FROM saved_skills WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListSkills returns the user's bookmarked skills joined against the
// catalog, filtered to active listings and hydrated with their
// owners, most recently saved first. Bookmarks whose skill has been
// deleted or withdrawn are simply absent from the result.
func (r *SavedSkillRepo) ListSkills(ctx context.Context, userID uint64) ([]model.Skill, error) {
	const q = `SELECT ` + skillOwnerCols + `
	           FROM saved_skills ss
	           JOIN skills s ON s.id = ss.skill_id AND s.status = 'active'
	           JOIN users u ON u.id = s.owner_id
	           WHERE ss.user_id = ?
	           ORDER BY ss.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
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

func (r *SavedSkillRepo) isSaved(ctx context.Context, userID, skillID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM saved_skills WHERE user_id = ? AND skill_id = ? LIMIT 1`,
		userID, skillID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
