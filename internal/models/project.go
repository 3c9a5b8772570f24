package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Summary     string             `bson:"summary" json:"summary"`
	Skills      []string           `bson:"skills" json:"skills"`
	Description string             `bson:"description" json:"description"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	Thumbnail   string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProjectPatch is a partial project update. Nil fields are left untouched.
type ProjectPatch struct {
	Title       *string
	Summary     *string
	Skills      []string
	Description *string
	Link        *string
	Thumbnail   *string
	Images      []string
}

// Apply returns a copy of p with the patch merged in.
func (patch ProjectPatch) Apply(p Project) Project {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Summary != nil {
		p.Summary = *patch.Summary
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Link != nil {
		p.Link = *patch.Link
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	return p
}
