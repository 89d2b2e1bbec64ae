// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types.
const (
	PostTypeInternship   = "INTERNSHIP"
	PostTypeJob          = "JOB"
	PostTypeAnnouncement = "ANNOUNCEMENT"
	PostTypeOpportunity  = "OPPORTUNITY"
	PostTypeDeadline     = "DEADLINE"
	PostTypeUpdate       = "UPDATE"
)

// ValidPostType reports whether t is one of the known post types.
func ValidPostType(t string) bool {
	switch t {
	case PostTypeInternship, PostTypeJob, PostTypeAnnouncement,
		PostTypeOpportunity, PostTypeDeadline, PostTypeUpdate:
		return true
	}
	return false
}

// Criteria holds the screening requirements attached to a post.
type Criteria struct {
	CGPA       *float64 `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Backlogs   *int     `bson:"backlogs,omitempty" json:"backlogs,omitempty"`
	Skills     []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Courses    []string `bson:"courses,omitempty" json:"courses,omitempty"`
	Experience string   `bson:"experience,omitempty" json:"experience,omitempty"`
}

// Eligibility holds the batch/branch scoping for a post.
type Eligibility struct {
	MinCGPA  string   `bson:"min_cgpa,omitempty" json:"minCGPA,omitempty"`
	Branches []string `bson:"branches,omitempty" json:"branches,omitempty"`
	Batches  []string `bson:"batch,omitempty" json:"batch,omitempty"`
}

// Author is a snapshot of the creating user taken at post-creation time.
// Later changes to the user's profile do not update historical posts.
type Author struct {
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Post is a job/internship posting or an announcement.
type Post struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"` // sanitized rich text
	Summary string             `bson:"summary,omitempty" json:"summary,omitempty"`

	Company          string `bson:"company,omitempty" json:"company,omitempty"`
	Website          string `bson:"website,omitempty" json:"website,omitempty"`
	RegistrationLink string `bson:"registration_link,omitempty" json:"registration_link,omitempty"`
	Role             string `bson:"role,omitempty" json:"role,omitempty"`
	CTC              string `bson:"ctc,omitempty" json:"ctc,omitempty"`

	Type     string    `bson:"type" json:"type"`
	Criteria *Criteria `bson:"criteria,omitempty" json:"criteria,omitempty"`
	Author   Author    `bson:"author" json:"author"`

	Responsibilities   []string `bson:"responsibilities,omitempty" json:"responsibilities,omitempty"`
	Benefits           []string `bson:"benefits,omitempty" json:"benefits,omitempty"`
	ApplicationProcess []string `bson:"application_process,omitempty" json:"applicationProcess,omitempty"`

	Eligibility *Eligibility `bson:"eligibility,omitempty" json:"eligibility,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"timestamp"`
}
