package models

import (
	"strings"
	"time"
)

// Profile is embedded in the user document.
type Profile struct {
	Profession        string    `bson:"profession" json:"profession"`
	Skills            []string  `bson:"skills" json:"skills"`
	Description       string    `bson:"description" json:"description"`
	YearsOfExperience *int      `bson:"yearsOfExperience,omitempty" json:"yearsOfExperience,omitempty"`
	LinkedIn          string    `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub            string    `bson:"github,omitempty" json:"github,omitempty"`
	Fiverr            string    `bson:"fiverr,omitempty" json:"fiverr,omitempty"`
	WhatsApp          string    `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	ProfileImage      string    `bson:"profileImage,omitempty" json:"profileImage"`
	Certificates      []string  `bson:"certificates" json:"certificates"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsZero reports whether the profile carries no data at all.
func (p *Profile) IsZero() bool {
	return p.Profession == "" && len(p.Skills) == 0 && p.Description == "" &&
		p.YearsOfExperience == nil && p.LinkedIn == "" && p.GitHub == "" &&
		p.Fiverr == "" && p.WhatsApp == "" && p.ProfileImage == "" &&
		len(p.Certificates) == 0 && p.CreatedAt.IsZero()
}

// IsComplete is true iff profession, at least one skill and description are present.
func (p *Profile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}

// MissingFields lists the fields that keep the profile from being complete.
func (p *Profile) MissingFields() []string {
	missing := make([]string, 0, 3)
	if p == nil {
		return append(missing, "profession", "skills", "description")
	}
	if strings.TrimSpace(p.Profession) == "" {
		missing = append(missing, "profession")
	}
	if !hasSkill(p.Skills) {
		missing = append(missing, "skills")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}

func hasSkill(skills []string) bool {
	for _, s := range skills {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// ProfilePatch is a partial profile update. Nil fields leave the stored value untouched.
type ProfilePatch struct {
	Profession        *string
	Skills            []string
	Description       *string
	YearsOfExperience *int
	LinkedIn          *string
	GitHub            *string
	Fiverr            *string
	WhatsApp          *string
	ProfileImage      *string
	Certificates      []string
}

// Empty reports whether the patch changes nothing.
func (patch ProfilePatch) Empty() bool {
	return patch.Profession == nil && patch.Skills == nil && patch.Description == nil &&
		patch.YearsOfExperience == nil && patch.LinkedIn == nil && patch.GitHub == nil &&
		patch.Fiverr == nil && patch.WhatsApp == nil && patch.ProfileImage == nil &&
		patch.Certificates == nil
}

// Apply returns a copy of p with the patch merged in.
func (patch ProfilePatch) Apply(p Profile) Profile {
	if patch.Profession != nil {
		p.Profession = *patch.Profession
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.YearsOfExperience != nil {
		years := *patch.YearsOfExperience
		p.YearsOfExperience = &years
	}
	if patch.LinkedIn != nil {
		p.LinkedIn = *patch.LinkedIn
	}
	if patch.GitHub != nil {
		p.GitHub = *patch.GitHub
	}
	if patch.Fiverr != nil {
		p.Fiverr = *patch.Fiverr
	}
	if patch.WhatsApp != nil {
		p.WhatsApp = *patch.WhatsApp
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = *patch.ProfileImage
	}
	if patch.Certificates != nil {
		p.Certificates = patch.Certificates
	}
	return p
}
