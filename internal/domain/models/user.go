// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a student (or placement-cell staff) profile.
//
// The document _id is the identity provider's subject id, assigned at
// first sign-in, not a generated ObjectID.
//
// NOTE:
//   - Semester scores are pointers: nil means "not entered yet", while an
//     explicit 0 records a backlog for that term. ActiveBacklog is always
//     derived from the semester fields and never written independently.
type User struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email  string `bson:"email" json:"email"`

	Gender    string     `bson:"gender,omitempty" json:"gender,omitempty"` // MALE | FEMALE | OTHER
	Course    string     `bson:"course,omitempty" json:"course,omitempty"`
	Stream    string     `bson:"stream,omitempty" json:"stream,omitempty"`
	Batch     string     `bson:"batch,omitempty" json:"batch,omitempty"`
	Institute string     `bson:"institute,omitempty" json:"institute,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string     `bson:"address,omitempty" json:"address,omitempty"`
	DOB       *time.Time `bson:"dob,omitempty" json:"dob,omitempty"`

	Tenth   *float64 `bson:"10th,omitempty" json:"10th,omitempty"`
	Twelfth *float64 `bson:"12th,omitempty" json:"12th,omitempty"`
	Sem1    *float64 `bson:"sem1,omitempty" json:"sem1,omitempty"`
	Sem2    *float64 `bson:"sem2,omitempty" json:"sem2,omitempty"`
	Sem3    *float64 `bson:"sem3,omitempty" json:"sem3,omitempty"`
	Sem4    *float64 `bson:"sem4,omitempty" json:"sem4,omitempty"`
	Sem5    *float64 `bson:"sem5,omitempty" json:"sem5,omitempty"`
	Sem6    *float64 `bson:"sem6,omitempty" json:"sem6,omitempty"`

	ActiveBacklog int    `bson:"active_backlog" json:"active_backlog"`
	ResumeFileID  string `bson:"resume_file_id,omitempty" json:"resume_file_id,omitempty"`

	IsCompleted bool                 `bson:"is_completed" json:"isCompleted"`
	Invites     []primitive.ObjectID `bson:"invite,omitempty" json:"invite,omitempty"`
	OrgID       *primitive.ObjectID  `bson:"org_id,omitempty" json:"org_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Semesters returns the six semester scores in order.
func (u *User) Semesters() []*float64 {
	return []*float64{u.Sem1, u.Sem2, u.Sem3, u.Sem4, u.Sem5, u.Sem6}
}
