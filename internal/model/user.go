package model

import "time"

// User represents an application user record as stored in the
// `users` table.  From the catalog's perspective users are a
// read-only projection: the row is created on registration and the
// trade/skill operations only ever read it.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown on listings and requests.
//  Email        – unique email address, used for login.
//  PasswordHash – bcrypt hashed password.
//  AvatarURL    – optional avatar image reference.
//  University   – optional university or affiliation string.
//  Location     – optional free-text location.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64
    Name         string
    Email        string
    PasswordHash string
    AvatarURL    string
    University   string
    Location     string
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

// PublicUser is the projection of a user that other members are
// allowed to see.  It deliberately omits the email address and
// password hash; only /v1/me returns the caller's own email.
type PublicUser struct {
    ID         uint64 `json:"id"`
    Name       string `json:"name"`
    AvatarURL  string `json:"avatar_url,omitempty"`
    University string `json:"university,omitempty"`
    Location   string `json:"location,omitempty"`
}

// Public returns the shareable projection of u.
func (u *User) Public() PublicUser {
    return PublicUser{
        ID:         u.ID,
        Name:       u.Name,
        AvatarURL:  u.AvatarURL,
        University: u.University,
        Location:   u.Location,
    }
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
