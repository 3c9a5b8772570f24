// Package testutil provides in-memory collaborators for handler and router tests.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore mirrors store.UserStore in memory.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return public(u), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	return s.filter(func(models.User) bool { return true }), nil
}

func (s *UserStore) ListWithProfiles(_ context.Context) ([]models.User, error) {
	return s.filter(func(u models.User) bool { return u.Profile != nil }), nil
}

func (s *UserStore) filter(keep func(models.User) bool) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			out = append(out, *public(u))
		}
	}
	slices.SortFunc(out, func(a, b models.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (s *UserStore) SetBlocked(_ context.Context, id primitive.ObjectID, blocked bool) (*models.User, error) {
	return s.update(id, func(u *models.User) { u.IsBlocked = blocked })
}

func (s *UserStore) UpdateFullName(_ context.Context, id primitive.ObjectID, fullName string) (*models.User, error) {
	return s.update(id, func(u *models.User) { u.FullName = fullName })
}

func (s *UserStore) SetProfile(_ context.Context, id primitive.ObjectID, p *models.Profile, complete bool) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		cp := *p
		u.Profile = &cp
		u.IsProfileComplete = complete
	})
}

func (s *UserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, patch models.ProfilePatch, complete *bool) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		var base models.Profile
		if u.Profile != nil {
			base = *u.Profile
		}
		merged := patch.Apply(base)
		merged.UpdatedAt = time.Now().UTC()
		u.Profile = &merged
		if complete != nil {
			u.IsProfileComplete = *complete
		}
	})
}

func (s *UserStore) DeleteProfile(_ context.Context, id primitive.ObjectID) error {
	_, err := s.update(id, func(u *models.User) {
		u.Profile = nil
		u.IsProfileComplete = false
	})
	return err
}

func (s *UserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) Count(_ context.Context, q models.UserQuery) (int64, error) {
	users := s.filter(func(u models.User) bool {
		if q.Role != "" && u.Role != q.Role {
			return false
		}
		if q.Blocked != nil && u.IsBlocked != *q.Blocked {
			return false
		}
		if q.HasProfile != nil && (u.Profile != nil) != *q.HasProfile {
			return false
		}
		return true
	})
	return int64(len(users)), nil
}

func (s *UserStore) update(id primitive.ObjectID, mutate func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	mutate(&u)
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = cloneUser(u)
	return public(u), nil
}

func cloneUser(u models.User) models.User {
	if u.Profile != nil {
		p := *u.Profile
		p.Skills = slices.Clone(p.Skills)
		p.Certificates = slices.Clone(p.Certificates)
		u.Profile = &p
	}
	return u
}

// public drops the password hash like the Mongo projection does.
func public(u models.User) *models.User {
	out := cloneUser(u)
	out.Password = ""
	return &out
}

// ProjectStore mirrors store.ProjectStore in memory.
type ProjectStore struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]models.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: map[primitive.ObjectID]models.Project{}}
}

func (s *ProjectStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	s.projects[p.ID] = *p
	return nil
}

func (s *ProjectStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *ProjectStore) ListByOwner(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, 0)
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *ProjectStore) Update(_ context.Context, id primitive.ObjectID, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	s.projects[id] = p
	return &p, nil
}

func (s *ProjectStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *ProjectStore) DeleteByOwner(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.projects {
		if p.UserID == userID {
			delete(s.projects, id)
			n++
		}
	}
	return n, nil
}

func (s *ProjectStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.projects)), nil
}

// HomePageStore mirrors store.HomePageStore in memory.
type HomePageStore struct {
	mu sync.Mutex
	hp *models.HomePage
	// Creates counts how many times the singleton was created.
	Creates int
}

func NewHomePageStore() *HomePageStore {
	return &HomePageStore{}
}

func (s *HomePageStore) Get(_ context.Context) (*models.HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// snapshot creates the document on first use and returns a copy. Callers hold mu.
func (s *HomePageStore) snapshot() *models.HomePage {
	if s.hp == nil {
		hp := models.NewHomePage(time.Now().UTC())
		s.hp = &hp
		s.Creates++
	}
	cp := *s.hp
	cp.CarouselImages = slices.Clone(s.hp.CarouselImages)
	cp.Categories = slices.Clone(s.hp.Categories)
	cp.Testimonials = slices.Clone(s.hp.Testimonials)
	return &cp
}

func (s *HomePageStore) PushEntries(_ context.Context, section models.Section, entries any) (*models.HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hp == nil {
		return nil, store.ErrNotFound
	}
	switch section {
	case models.CarouselSection:
		s.hp.CarouselImages = append(s.hp.CarouselImages, entries.([]models.CarouselImage)...)
	case models.CategorySection:
		s.hp.Categories = append(s.hp.Categories, entries.([]models.Category)...)
	case models.TestimonialSection:
		s.hp.Testimonials = append(s.hp.Testimonials, entries.([]models.Testimonial)...)
	}
	return s.snapshot(), nil
}

func (s *HomePageStore) ReplaceEntry(_ context.Context, section models.Section, id primitive.ObjectID, entry any) (*models.HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hp == nil {
		return nil, store.ErrNotFound
	}
	ok := false
	switch section {
	case models.CarouselSection:
		ok = replace(s.hp.CarouselImages, id, entry.(models.CarouselImage))
	case models.CategorySection:
		ok = replace(s.hp.Categories, id, entry.(models.Category))
	case models.TestimonialSection:
		ok = replace(s.hp.Testimonials, id, entry.(models.Testimonial))
	}
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.snapshot(), nil
}

func replace[T models.Entry](items []T, id primitive.ObjectID, entry T) bool {
	i := models.IndexOf(items, id)
	if i < 0 {
		return false
	}
	items[i] = entry
	return true
}

func (s *HomePageStore) PullEntry(_ context.Context, section models.Section, id primitive.ObjectID) (*models.HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hp == nil {
		return nil, store.ErrNotFound
	}
	ok := false
	switch section {
	case models.CarouselSection:
		s.hp.CarouselImages, ok = pull(s.hp.CarouselImages, id)
	case models.CategorySection:
		s.hp.Categories, ok = pull(s.hp.Categories, id)
	case models.TestimonialSection:
		s.hp.Testimonials, ok = pull(s.hp.Testimonials, id)
	}
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.snapshot(), nil
}

func pull[T models.Entry](items []T, id primitive.ObjectID) ([]T, bool) {
	i := models.IndexOf(items, id)
	if i < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), i, i+1), true
}

func (s *HomePageStore) SetAboutUs(_ context.Context, about models.AboutUs) (*models.HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hp == nil {
		return nil, store.ErrNotFound
	}
	s.hp.AboutUs = about
	return s.snapshot(), nil
}
