package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harentsoaR/folio-api/internal/utils"
)

// Schema names a request body shape validated before a handler runs.
type Schema string

const (
	Register      Schema = "register"
	UpdateAccount Schema = "updateAccount"
	Login         Schema = "login"
	CreateProfile Schema = "createProfile"
	UpdateProfile Schema = "updateProfile"
	CreateProject Schema = "createProject"
	UpdateProject Schema = "updateProject"
	CarouselItem  Schema = "carouselItem"
	Category      Schema = "category"
	Testimonial   Schema = "testimonial"
	AboutUs       Schema = "aboutUs"
)

// Normalizer is implemented by bodies that trim or canonicalize input before validation.
// Free text is sanitized here so that validation sees the value that gets stored.
type Normalizer interface {
	Normalize()
}

// cleanList sanitizes a comma separated list and drops empty entries.
func cleanList(raw string) string {
	return strings.Join(utils.ParseList(utils.SanitizeText(raw)), ",")
}

type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=30"`
	Password string `json:"password" form:"password" validate:"required,strongpassword"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=user admin"`
}

func (r *RegisterRequest) Normalize() {
	r.FullName = utils.SanitizeText(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.TrimSpace(r.Role)
}

// UpdateAccountRequest is the self-service account update.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,min=3,max=50"`
}

func (r *UpdateAccountRequest) Normalize() {
	r.FullName = utils.SanitizeText(r.FullName)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ProfileRequest carries profile text fields; skills is a comma separated list.
// JSON clients send yearsOfExperience as a number. Form clients send text, where an
// empty value means the field was not supplied.
type ProfileRequest struct {
	Profession        string `json:"profession" form:"profession" validate:"max=100"`
	Skills            string `json:"skills" form:"skills" validate:"max=500"`
	Description       string `json:"description" form:"description" validate:"max=2000"`
	YearsOfExperience *int   `json:"yearsOfExperience" form:"-" validate:"omitempty,gte=0,lte=60"`
	YearsText         string `json:"-" form:"yearsOfExperience" validate:"omitempty,number,max=9"`
	LinkedIn          string `json:"linkedin" form:"linkedin" validate:"omitempty,url"`
	GitHub            string `json:"github" form:"github" validate:"omitempty,url"`
	Fiverr            string `json:"fiverr" form:"fiverr" validate:"omitempty,url"`
	WhatsApp          string `json:"whatsapp" form:"whatsapp" validate:"omitempty,whatsapp"`
}

func (r *ProfileRequest) Normalize() {
	r.Profession = utils.SanitizeText(r.Profession)
	r.Skills = cleanList(r.Skills)
	r.Description = utils.SanitizeText(r.Description)
	r.YearsText = strings.TrimSpace(r.YearsText)
	if r.YearsOfExperience == nil && r.YearsText != "" {
		if years, err := strconv.Atoi(r.YearsText); err == nil {
			r.YearsOfExperience = &years
		}
	}
	r.LinkedIn = strings.TrimSpace(r.LinkedIn)
	r.GitHub = strings.TrimSpace(r.GitHub)
	r.Fiverr = strings.TrimSpace(r.Fiverr)
	r.WhatsApp = strings.TrimSpace(r.WhatsApp)
}

// CreateProfileRequest requires the fields that make a profile complete.
type CreateProfileRequest struct {
	ProfileRequest
	Profession  string `json:"profession" form:"profession" validate:"required,max=100"`
	Skills      string `json:"skills" form:"skills" validate:"required,max=500"`
	Description string `json:"description" form:"description" validate:"required,max=2000"`
}

func (r *CreateProfileRequest) Normalize() {
	r.ProfileRequest.Normalize()
	r.Profession = utils.SanitizeText(r.Profession)
	r.Skills = cleanList(r.Skills)
	r.Description = utils.SanitizeText(r.Description)
}

// Fields returns the flattened profile fields.
func (r *CreateProfileRequest) Fields() ProfileRequest {
	p := r.ProfileRequest
	p.Profession = r.Profession
	p.Skills = r.Skills
	p.Description = r.Description
	return p
}

type ProjectRequest struct {
	Title       string `json:"title" form:"title" validate:"max=100"`
	Summary     string `json:"summary" form:"summary" validate:"max=300"`
	Skills      string `json:"skills" form:"skills" validate:"max=500"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	Link        string `json:"link" form:"link" validate:"omitempty,url"`
}

func (r *ProjectRequest) Normalize() {
	r.Title = utils.SanitizeText(r.Title)
	r.Summary = utils.SanitizeText(r.Summary)
	r.Skills = cleanList(r.Skills)
	r.Description = utils.SanitizeText(r.Description)
	r.Link = strings.TrimSpace(r.Link)
}

type CreateProjectRequest struct {
	ProjectRequest
	Title string `json:"title" form:"title" validate:"required,max=100"`
}

func (r *CreateProjectRequest) Normalize() {
	r.ProjectRequest.Normalize()
	r.Title = utils.SanitizeText(r.Title)
}

type CarouselRequest struct {
	Title       string `json:"title" form:"title" validate:"max=120"`
	Description string `json:"description" form:"description" validate:"max=500"`
	Image       string `json:"image" form:"image" validate:"omitempty,url"`
}

func (r *CarouselRequest) Normalize() {
	r.Title = utils.SanitizeText(r.Title)
	r.Description = utils.SanitizeText(r.Description)
	r.Image = strings.TrimSpace(r.Image)
}

type CategoryRequest struct {
	Title         string `json:"title" form:"title" validate:"max=120"`
	Description   string `json:"description" form:"description" validate:"max=500"`
	CategoryImage string `json:"categoryImage" form:"categoryImage" validate:"omitempty,url"`
}

func (r *CategoryRequest) Normalize() {
	r.Title = utils.SanitizeText(r.Title)
	r.Description = utils.SanitizeText(r.Description)
	r.CategoryImage = strings.TrimSpace(r.CategoryImage)
}

type TestimonialRequest struct {
	Name             string `json:"name" form:"name" validate:"max=80"`
	Feedback         string `json:"feedback" form:"feedback" validate:"max=1000"`
	TestimonialImage string `json:"testimonialImage" form:"testimonialImage" validate:"omitempty,url"`
}

func (r *TestimonialRequest) Normalize() {
	r.Name = utils.SanitizeText(r.Name)
	r.Feedback = utils.SanitizeText(r.Feedback)
	r.TestimonialImage = strings.TrimSpace(r.TestimonialImage)
}

type AboutUsRequest struct {
	Title       string `json:"title" form:"title" validate:"max=120"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	Image       string `json:"image" form:"image" validate:"omitempty,url"`
}

func (r *AboutUsRequest) Normalize() {
	r.Title = utils.SanitizeText(r.Title)
	r.Description = utils.SanitizeText(r.Description)
	r.Image = strings.TrimSpace(r.Image)
}

type schemaDef struct {
	newBody  func() any
	messages map[string]string // "field.tag" -> message
}

func (d schemaDef) message(fe validator.FieldError) string {
	if msg, ok := d.messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return genericMessage(fe)
}

var schemas = map[Schema]schemaDef{
	Register: {
		newBody: func() any { return &RegisterRequest{} },
		messages: map[string]string{
			"fullName.required":       "Full name is required",
			"fullName.min":            "Full name must be at least 3 characters long",
			"fullName.max":            "Full name cannot be more than 50 characters long",
			"email.required":          "Email is required",
			"email.email":             "Invalid email format",
			"email.max":               "Email cannot be more than 30 characters long",
			"password.required":       "Password is required",
			"password.strongpassword": PasswordPolicy,
			"role.oneof":              "Role must be either user or admin",
		},
	},
	UpdateAccount: {
		newBody: func() any { return &UpdateAccountRequest{} },
		messages: map[string]string{
			"fullName.required": "Full name is required",
			"fullName.min":      "Full name must be at least 3 characters long",
			"fullName.max":      "Full name cannot be more than 50 characters long",
		},
	},
	Login: {
		newBody: func() any { return &LoginRequest{} },
		messages: map[string]string{
			"email.required":    "Email is required",
			"password.required": "Password is required",
		},
	},
	CreateProfile: {
		newBody: func() any { return &CreateProfileRequest{} },
		messages: map[string]string{
			"profession.required":  "Profession is required",
			"skills.required":       "At least one skill is required",
			"description.required": "Description is required",
		},
	},
	UpdateProfile: {newBody: func() any { return &ProfileRequest{} }},
	CreateProject: {
		newBody: func() any { return &CreateProjectRequest{} },
		messages: map[string]string{
			"title.required": "Project title is required",
		},
	},
	UpdateProject: {newBody: func() any { return &ProjectRequest{} }},
	CarouselItem:  {newBody: func() any { return &CarouselRequest{} }},
	Category:      {newBody: func() any { return &CategoryRequest{} }},
	Testimonial:   {newBody: func() any { return &TestimonialRequest{} }},
	AboutUs:       {newBody: func() any { return &AboutUsRequest{} }},
}

// NewBody returns a fresh pointer to the body type of schema, or nil if the schema is unknown.
func NewBody(schema Schema) any {
	def, ok := schemas[schema]
	if !ok {
		return nil
	}
	return def.newBody()
}
