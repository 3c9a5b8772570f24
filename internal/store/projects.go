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

const projectsCollection = "projects"

type ProjectStore struct {
	c *mongo.Collection
}

func NewProjectStore(db *mongo.Database) *ProjectStore {
	return &ProjectStore{c: db.Collection(projectsCollection)}
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	return err
}

func (s *ProjectStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListByOwner returns the projects of one user, newest first.
func (s *ProjectStore) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := make([]models.Project, 0)
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update writes the fields present in patch and returns the updated project.
func (s *ProjectStore) Update(ctx context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Summary != nil {
		set["summary"] = *patch.Summary
	}
	if patch.Skills != nil {
		set["skills"] = patch.Skills
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Link != nil {
		set["link"] = *patch.Link
	}
	if patch.Thumbnail != nil {
		set["thumbnail"] = *patch.Thumbnail
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every project of a user and reports how many were removed.
func (s *ProjectStore) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
