package model

import "time"

// TradeStatus is the state of a trade request.  pending is the only
// non-terminal state besides accepted; once a request leaves pending
// it can never return there.
type TradeStatus string

const (
    TradePending   TradeStatus = "pending"
    TradeAccepted  TradeStatus = "accepted"
    TradeDeclined  TradeStatus = "declined"
    TradeCancelled TradeStatus = "cancelled"
    TradeCompleted TradeStatus = "completed"
)

// MaxTradeMessageLen bounds the optional free-text note attached to a
// trade request.
const MaxTradeMessageLen = 500

// TradeRequest is a proposal by one user (the requester) to exchange
// for another user's skill listing.  Rows are never deleted, only
// transitioned; status plus the two timestamps form the audit trail.
//
// Authorization is split between two actors: the owner of the
// referenced skill holds accept/decline rights, the requester holds
// cancel/complete rights.  The owner is always re-resolved from the
// skill row at call time, never stored on the request.
//
// Fields:
//  ID          – primary key identifier.
//  SkillID     – skill the request targets, fixed at creation.
//  RequesterID – user who created the request, fixed at creation.
//  Message     – optional note from the requester, may be empty.
//  Status      – one of the TradeStatus constants.
//  CreatedAt   – creation timestamp (UTC).
//  UpdatedAt   – refreshed on every status transition.
type TradeRequest struct {
    ID          uint64      `json:"id"`
    SkillID     uint64      `json:"skill_id"`
    RequesterID uint64      `json:"requester_id"`
    Message     string      `json:"message,omitempty"`
    Status      TradeStatus `json:"status"`
    CreatedAt   time.Time   `json:"created_at"`
    UpdatedAt   time.Time   `json:"updated_at"`

    // Hydration fields populated by listing queries.  Skill is nil
    // when the referenced listing has been deleted; clients degrade
    // to a "skill unavailable" rendering in that case.
    Skill     *Skill      `json:"skill"`
    Requester *PublicUser `json:"requester,omitempty"`
}
