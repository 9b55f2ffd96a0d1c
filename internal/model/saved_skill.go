package model

import "time"

// SavedSkill is a bookmark relation between a user and a skill,
// independent of trade status.  The (UserID, SkillID) pair is unique;
// saving an already-saved skill is a silent no-op, as is unsaving a
// skill that was never saved.
type SavedSkill struct {
    UserID    uint64    `json:"user_id"`
    SkillID   uint64    `json:"skill_id"`
    CreatedAt time.Time `json:"created_at"`
}
