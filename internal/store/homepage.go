package store

import (
	"context"
	"time"

	"github.com/harentsoaR/folio-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const homepageCollection = "homepages"

type HomePageStore struct {
	c *mongo.Collection
}

func NewHomePageStore(db *mongo.Database) *HomePageStore {
	return &HomePageStore{c: db.Collection(homepageCollection)}
}

// Get returns the homepage document, creating it on first access.
// The document lives under a fixed _id, so concurrent first calls converge on one document.
func (s *HomePageStore) Get(ctx context.Context) (*models.HomePage, error) {
	hp, err := s.getOrCreate(ctx)
	if mongo.IsDuplicateKeyError(err) {
		// another request inserted it between our match and insert
		hp, err = s.getOrCreate(ctx)
	}
	return hp, err
}

func (s *HomePageStore) getOrCreate(ctx context.Context) (*models.HomePage, error) {
	fresh := models.NewHomePage(time.Now().UTC())
	update := bson.M{"$setOnInsert": bson.M{
		string(models.CarouselSection):    fresh.CarouselImages,
		string(models.CategorySection):    fresh.Categories,
		string(models.TestimonialSection): fresh.Testimonials,
		"aboutUs":                         fresh.AboutUs,
		"createdAt":                       fresh.CreatedAt,
		"updatedAt":                       fresh.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var hp models.HomePage
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": models.HomePageID}, update, opts).Decode(&hp)
	if err != nil {
		return nil, err
	}
	return &hp, nil
}

// PushEntries appends entries (a slice of the section's entry type) to a section.
func (s *HomePageStore) PushEntries(ctx context.Context, section models.Section, entries any) (*models.HomePage, error) {
	return s.update(ctx, bson.M{"_id": models.HomePageID}, bson.M{
		"$push": bson.M{string(section): bson.M{"$each": entries}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// ReplaceEntry overwrites the entry with the given id in place.
func (s *HomePageStore) ReplaceEntry(ctx context.Context, section models.Section, id primitive.ObjectID, entry any) (*models.HomePage, error) {
	field := string(section)
	return s.update(ctx, bson.M{"_id": models.HomePageID, field + "._id": id}, bson.M{
		"$set": bson.M{field + ".$": entry, "updatedAt": time.Now().UTC()},
	})
}

// PullEntry removes the entry with the given id. ErrNotFound means no such entry.
func (s *HomePageStore) PullEntry(ctx context.Context, section models.Section, id primitive.ObjectID) (*models.HomePage, error) {
	field := string(section)
	return s.update(ctx, bson.M{"_id": models.HomePageID, field + "._id": id}, bson.M{
		"$pull": bson.M{field: bson.M{"_id": id}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *HomePageStore) SetAboutUs(ctx context.Context, about models.AboutUs) (*models.HomePage, error) {
	return s.update(ctx, bson.M{"_id": models.HomePageID}, bson.M{
		"$set": bson.M{"aboutUs": about, "updatedAt": time.Now().UTC()},
	})
}

func (s *HomePageStore) update(ctx context.Context, filter, update bson.M) (*models.HomePage, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var hp models.HomePage
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&hp); err != nil {
		return nil, notFound(err)
	}
	return &hp, nil
}
