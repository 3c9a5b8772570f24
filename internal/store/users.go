package store

import (
	"context"
	"errors"
	"time"

	"github.com/harentsoaR/folio-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

const usersCollection = "users"

// hide the credential hash from every read that leaves the store
var withoutPassword = bson.M{"password": 0}

type UserStore struct {
	c *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{c: db.Collection(usersCollection)}
}

// Create inserts u, assigning an id and timestamps.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByID loads a user without its password hash.
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(withoutPassword)
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByEmail loads a user including the password hash, for credential checks.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// List returns all users, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

// ListWithProfiles returns the users that have a profile, newest first.
func (s *UserStore) ListWithProfiles(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{"profile": bson.M{"$exists": true}})
}

func (s *UserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetBlocked sets the blocked flag and returns the updated user.
func (s *UserStore) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*models.User, error) {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"isBlocked": blocked,
		"updatedAt": time.Now().UTC(),
	}})
}

func (s *UserStore) UpdateFullName(ctx context.Context, id primitive.ObjectID, fullName string) (*models.User, error) {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"fullName":  fullName,
		"updatedAt": time.Now().UTC(),
	}})
}

// SetProfile replaces the embedded profile and the completeness flag.
func (s *UserStore) SetProfile(ctx context.Context, id primitive.ObjectID, p *models.Profile, complete bool) (*models.User, error) {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"profile":           p,
		"isProfileComplete": complete,
		"updatedAt":         time.Now().UTC(),
	}})
}

// UpdateProfile writes only the fields present in patch. When complete is non-nil
// the completeness flag is written too.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch, complete *bool) (*models.User, error) {
	now := time.Now().UTC()
	set := profilePatchFields(patch)
	set["profile.updatedAt"] = now
	set["updatedAt"] = now
	if complete != nil {
		set["isProfileComplete"] = *complete
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

func profilePatchFields(p models.ProfilePatch) bson.M {
	set := bson.M{}
	if p.Profession != nil {
		set["profile.profession"] = *p.Profession
	}
	if p.Skills != nil {
		set["profile.skills"] = p.Skills
	}
	if p.Description != nil {
		set["profile.description"] = *p.Description
	}
	if p.YearsOfExperience != nil {
		set["profile.yearsOfExperience"] = *p.YearsOfExperience
	}
	if p.LinkedIn != nil {
		set["profile.linkedin"] = *p.LinkedIn
	}
	if p.GitHub != nil {
		set["profile.github"] = *p.GitHub
	}
	if p.Fiverr != nil {
		set["profile.fiverr"] = *p.Fiverr
	}
	if p.WhatsApp != nil {
		set["profile.whatsapp"] = *p.WhatsApp
	}
	if p.ProfileImage != nil {
		set["profile.profileImage"] = *p.ProfileImage
	}
	if p.Certificates != nil {
		set["profile.certificates"] = p.Certificates
	}
	return set
}

// DeleteProfile unsets the embedded profile and resets the completeness flag.
func (s *UserStore) DeleteProfile(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.updateOne(ctx, id, bson.M{
		"$unset": bson.M{"profile": ""},
		"$set":   bson.M{"isProfileComplete": false, "updatedAt": time.Now().UTC()},
	})
	return err
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of users matching q.
func (s *UserStore) Count(ctx context.Context, q models.UserQuery) (int64, error) {
	filter := bson.M{}
	if q.Role != "" {
		filter["role"] = q.Role
	}
	if q.Blocked != nil {
		filter["isBlocked"] = *q.Blocked
	}
	if q.HasProfile != nil {
		filter["profile"] = bson.M{"$exists": *q.HasProfile}
	}
	return s.c.CountDocuments(ctx, filter)
}

func (s *UserStore) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
