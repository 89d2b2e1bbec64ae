// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite statuses.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
	InviteStatusExpired  = "expired"
)

// Invite asks a user (by email) to join an organization. The token is the
// unguessable secret embedded in the invite link; ExpiredAt is stored as an
// epoch second, seven days after creation.
type Invite struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	OrgID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	Email     string             `bson:"email" json:"email"`
	Token     string             `bson:"token" json:"token"`
	ExpiredAt int64              `bson:"expired_at" json:"expired_at"`
	Status    string             `bson:"status" json:"status"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
