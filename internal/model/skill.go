package model

import (
    "errors"
    "time"
)

// Category classifies a skill listing.  The set is closed: values
// outside the four constants below are rejected at the API boundary
// rather than passed through to storage.
type Category string

// Kind distinguishes whether the owner offers the skill or is
// looking to learn it.
type Kind string

// SkillStatus is the lifecycle state of a skill listing.  Only
// active skills appear in public browse results; withdrawn skills
// remain visible to their owner.
type SkillStatus string

const (
    CategoryTech       Category = "Tech"
    CategoryArts       Category = "Arts"
    CategoryAcademic   Category = "Academic"
    CategoryLifeSkills Category = "Life Skills"
)

const (
    KindOffering Kind = "Offering"
    KindSeeking  Kind = "Seeking"
)

const (
    SkillActive    SkillStatus = "active"
    SkillWithdrawn SkillStatus = "withdrawn"
)

// ErrInvalidEnum is returned by the Parse helpers when a value does
// not belong to its enumeration.
var ErrInvalidEnum = errors.New("invalid enum value")

// ParseCategory validates a raw category string against the closed set.
func ParseCategory(s string) (Category, error) {
    switch Category(s) {
    case CategoryTech, CategoryArts, CategoryAcademic, CategoryLifeSkills:
        return Category(s), nil
    }
    return "", ErrInvalidEnum
}

// ParseKind validates a raw kind string against the closed set.
func ParseKind(s string) (Kind, error) {
    switch Kind(s) {
    case KindOffering, KindSeeking:
        return Kind(s), nil
    }
    return "", ErrInvalidEnum
}

// ParseSkillStatus validates a raw skill status string.
func ParseSkillStatus(s string) (SkillStatus, error) {
    switch SkillStatus(s) {
    case SkillActive, SkillWithdrawn:
        return SkillStatus(s), nil
    }
    return "", ErrInvalidEnum
}

// Skill represents a listing of something a user offers or wants to
// learn.  It corresponds to a row in the `skills` table.  OwnerID
// never changes after creation; ownership is the sole basis for
// mutation rights over the listing and for routing trade requests.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who created the listing.
//  Title       – short headline, required non-empty.
//  Description – longer free text, required non-empty.
//  Category    – one of the Category constants.
//  Kind        – Offering or Seeking.
//  Location    – optional free-text location.
//  Status      – active or withdrawn.
//  CreatedAt   – creation timestamp (UTC).
//  UpdatedAt   – last modification timestamp (UTC).
type Skill struct {
    ID          uint64      `json:"id"`
    OwnerID     uint64      `json:"owner_id"`
    Title       string      `json:"title"`
    Description string      `json:"description"`
    Category    Category    `json:"category"`
    Kind        Kind        `json:"kind"`
    Location    string      `json:"location,omitempty"`
    Status      SkillStatus `json:"status"`
    CreatedAt   time.Time   `json:"created_at"`
    UpdatedAt   time.Time   `json:"updated_at"`

    // Owner carries the owner's public projection when the skill is
    // returned from a browse or hydration query.
    Owner *PublicUser `json:"owner,omitempty"`
}
