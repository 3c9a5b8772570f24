package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/harentsoaR/folio-api/internal/handlers"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBlockAdminRejected(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	target, _ := s.account(t, "other-admin@example.com", models.RoleAdmin)

	w := s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/block/%s", target.ID.Hex()), nil, adminToken))
	if env := expectStatus(t, w, http.StatusBadRequest); env.Message != "Cannot block admin users" {
		t.Fatalf("message = %q", env.Message)
	}

	got, _ := s.users.FindByID(context.Background(), target.ID)
	if got.IsBlocked {
		t.Fatal("admin account was blocked")
	}
}

func TestBlockAndUnblockUser(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	target, userToken := s.account(t, "ada@example.com", models.RoleUser)

	w := s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/block/%s", target.ID.Hex()), nil, adminToken))
	expectStatus(t, w, http.StatusOK)
	var blocked struct {
		User models.UserSummary `json:"user"`
	}
	testutil.DecodeData(t, w, &blocked)
	if !blocked.User.IsBlocked || blocked.User.ID != target.ID {
		t.Fatalf("unexpected summary: %+v", blocked.User)
	}

	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/auth/me"), nil, userToken))
	expectStatus(t, w, http.StatusForbidden)

	w = s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/unblock/%s", target.ID.Hex()), nil, adminToken))
	expectStatus(t, w, http.StatusOK)
	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/auth/me"), nil, userToken))
	expectStatus(t, w, http.StatusOK)

	w = s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/block/%s", primitive.NewObjectID().Hex()), nil, adminToken))
	expectStatus(t, w, http.StatusNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	ctx := context.Background()
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	target, _ := s.account(t, "ada@example.com", models.RoleUser)
	bystander, _ := s.account(t, "bob@example.com", models.RoleUser)
	s.withProfile(t, target, models.Profile{Profession: "Dev", Skills: []string{"Go"}, Description: "x"})

	var projectIDs []primitive.ObjectID
	for _, owner := range []primitive.ObjectID{target.ID, target.ID, bystander.ID} {
		p := &models.Project{UserID: owner, Title: "p"}
		if err := s.projects.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if owner == target.ID {
			projectIDs = append(projectIDs, p.ID)
		}
	}

	w := s.serve(testutil.JSONRequest(t, http.MethodDelete, api("/admin/delete-user/%s", target.ID.Hex()), nil, adminToken))
	if env := expectStatus(t, w, http.StatusOK); env.Message != "User and all associated data deleted successfully" {
		t.Fatalf("message = %q", env.Message)
	}

	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/profile/%s", target.ID.Hex()), nil, ""))
	expectStatus(t, w, http.StatusNotFound)
	for _, id := range projectIDs {
		w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/project/%s", id.Hex()), nil, ""))
		expectStatus(t, w, http.StatusNotFound)
	}
	if n, _ := s.projects.Count(ctx); n != 1 {
		t.Fatalf("bystander projects affected, %d left", n)
	}
}

func TestDeleteAdminRejected(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	root, adminToken := s.account(t, "root@example.com", models.RoleAdmin)

	w := s.serve(testutil.JSONRequest(t, http.MethodDelete, api("/admin/delete-user/%s", root.ID.Hex()), nil, adminToken))
	if env := expectStatus(t, w, http.StatusBadRequest); env.Message != "Cannot delete admin users" {
		t.Fatalf("message = %q", env.Message)
	}
	if _, err := s.users.FindByID(context.Background(), root.ID); err != nil {
		t.Fatalf("admin removed: %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	ctx := context.Background()
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	ada, _ := s.account(t, "ada@example.com", models.RoleUser)
	bob, _ := s.account(t, "bob@example.com", models.RoleUser)
	s.withProfile(t, ada, models.Profile{Profession: "Dev"})
	if _, err := s.users.SetBlocked(ctx, bob.ID, true); err != nil {
		t.Fatal(err)
	}
	if err := s.projects.Create(ctx, &models.Project{UserID: ada.ID, Title: "p"}); err != nil {
		t.Fatal(err)
	}

	w := s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/dashboard"), nil, adminToken))
	expectStatus(t, w, http.StatusOK)
	var out struct {
		Stats handlers.DashboardStats `json:"stats"`
	}
	testutil.DecodeData(t, w, &out)
	want := handlers.DashboardStats{TotalUsers: 2, TotalProfiles: 1, TotalProjects: 1, BlockedUsers: 1}
	if out.Stats != want {
		t.Fatalf("stats = %+v, want %+v", out.Stats, want)
	}
}

func TestAdminUserLookup(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	ada, userToken := s.account(t, "ada@example.com", models.RoleUser)

	w := s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/users"), nil, adminToken))
	expectStatus(t, w, http.StatusOK)
	var list struct {
		Users []models.User `json:"users"`
		Count int           `json:"count"`
	}
	testutil.DecodeData(t, w, &list)
	if list.Count != 2 || len(list.Users) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}

	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/users"), nil, userToken))
	expectStatus(t, w, http.StatusForbidden)
	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/users"), nil, ""))
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/user/%s", ada.ID.Hex()), nil, ""))
	expectStatus(t, w, http.StatusOK)
	w = s.serve(testutil.JSONRequest(t, http.MethodGet, api("/admin/user/not-an-id"), nil, ""))
	if env := expectStatus(t, w, http.StatusNotFound); env.Message != "User not found" {
		t.Fatalf("message = %q", env.Message)
	}
}

func TestAdminProjectModeration(t *testing.T) {
	s := newTestServer(t, handlers.Options{})
	ctx := context.Background()
	_, adminToken := s.account(t, "root@example.com", models.RoleAdmin)
	ada, _ := s.account(t, "ada@example.com", models.RoleUser)
	p := &models.Project{UserID: ada.ID, Title: "Old", Summary: "keep", Skills: []string{"Go"}}
	if err := s.projects.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	w := s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/update-project/%s", p.ID.Hex()),
		map[string]string{"title": "New"}, adminToken))
	expectStatus(t, w, http.StatusOK)
	var out struct {
		Project models.Project `json:"project"`
	}
	testutil.DecodeData(t, w, &out)
	if out.Project.Title != "New" || out.Project.Summary != "keep" || len(out.Project.Skills) != 1 {
		t.Fatalf("partial update went wrong: %+v", out.Project)
	}

	w = s.serve(testutil.JSONRequest(t, http.MethodPut, api("/admin/update-project/%s", primitive.NewObjectID().Hex()),
		map[string]string{"title": "New"}, adminToken))
	expectStatus(t, w, http.StatusNotFound)

	w = s.serve(testutil.JSONRequest(t, http.MethodDelete, api("/admin/delete-project/%s", p.ID.Hex()), nil, adminToken))
	expectStatus(t, w, http.StatusOK)
	w = s.serve(testutil.JSONRequest(t, http.MethodDelete, api("/admin/delete-project/%s", p.ID.Hex()), nil, adminToken))
	expectStatus(t, w, http.StatusNotFound)
}
