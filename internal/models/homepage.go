package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HomePageID is the fixed key of the single homepage document.
const HomePageID = "homepage"

// DefaultAboutUsTitle is used whenever the about-us block has no title.
const DefaultAboutUsTitle = "About Us"

// Section names one of the homepage entry lists, as stored.
type Section string

const (
	CarouselSection    Section = "carouselImages"
	CategorySection    Section = "categories"
	TestimonialSection Section = "testimonials"
)

type HomePage struct {
	ID             string          `bson:"_id" json:"_id"`
	CarouselImages []CarouselImage `bson:"carouselImages" json:"carouselImages"`
	Categories     []Category      `bson:"categories" json:"categories"`
	Testimonials   []Testimonial   `bson:"testimonials" json:"testimonials"`
	AboutUs        AboutUs         `bson:"aboutUs" json:"aboutUs"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

type CarouselImage struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
}

type Category struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
}

type Testimonial struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
	Feedback string             `bson:"feedback" json:"feedback"`
}

type AboutUs struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image" json:"image"`
}

// DefaultAboutUs is the empty state an about-us block is reset to.
func DefaultAboutUs() AboutUs {
	return AboutUs{Title: DefaultAboutUsTitle}
}

// NewHomePage returns the document inserted on first access.
func NewHomePage(now time.Time) HomePage {
	return HomePage{
		ID:             HomePageID,
		CarouselImages: []CarouselImage{},
		Categories:     []Category{},
		Testimonials:   []Testimonial{},
		AboutUs:        DefaultAboutUs(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (c CarouselImage) EntryID() primitive.ObjectID { return c.ID }
func (c Category) EntryID() primitive.ObjectID      { return c.ID }
func (t Testimonial) EntryID() primitive.ObjectID   { return t.ID }

// Entry is a homepage list item addressable by its sub-identifier.
type Entry interface {
	EntryID() primitive.ObjectID
}

// IndexOf returns the position of the entry with the given id, or -1.
func IndexOf[T Entry](items []T, id primitive.ObjectID) int {
	for i, item := range items {
		if item.EntryID() == id {
			return i
		}
	}
	return -1
}
