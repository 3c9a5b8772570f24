package models

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileIsComplete(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
		missing []string
	}{
		{"all present", Profile{Profession: "Dev", Skills: []string{"Go"}, Description: "x"}, true, []string{}},
		{"no profession", Profile{Skills: []string{"Go"}, Description: "x"}, false, []string{"profession"}},
		{"blank profession", Profile{Profession: "  ", Skills: []string{"Go"}, Description: "x"}, false, []string{"profession"}},
		{"no skills", Profile{Profession: "Dev", Description: "x"}, false, []string{"skills"}},
		{"only blank skills", Profile{Profession: "Dev", Skills: []string{" "}, Description: "x"}, false, []string{"skills"}},
		{"no description", Profile{Profession: "Dev", Skills: []string{"Go"}}, false, []string{"description"}},
		{"empty", Profile{}, false, []string{"profession", "skills", "description"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
			if got := tt.profile.MissingFields(); !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.missing)
			}
		})
	}
}

func TestNilProfileMissingFields(t *testing.T) {
	var p *Profile
	if got := len(p.MissingFields()); got != 3 {
		t.Fatalf("expected 3 missing fields, got %d", got)
	}
}

func TestProfilePatchApply(t *testing.T) {
	desc := "new description"
	base := Profile{Profession: "Designer", Skills: []string{"Figma"}, Description: "old"}

	got := ProfilePatch{Description: &desc}.Apply(base)
	if got.Profession != "Designer" || got.Description != desc {
		t.Fatalf("unexpected merge result: %+v", got)
	}
	if !reflect.DeepEqual(got.Skills, []string{"Figma"}) {
		t.Fatalf("skills should be untouched, got %v", got.Skills)
	}
	if base.Description != "old" {
		t.Fatal("Apply must not mutate its input")
	}
}

func TestProfilePatchEmpty(t *testing.T) {
	if !(ProfilePatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	image := "https://cdn/x.png"
	if (ProfilePatch{ProfileImage: &image}).Empty() {
		t.Fatal("patch with image should not be empty")
	}
}

func TestIndexOf(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	items := []Category{{ID: a}, {ID: b}, {ID: c}}

	if i := IndexOf(items, b); i != 1 {
		t.Fatalf("IndexOf = %d, want 1", i)
	}
	if i := IndexOf(items, primitive.NewObjectID()); i != -1 {
		t.Fatalf("IndexOf unknown = %d, want -1", i)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAdmin.Valid() {
		t.Fatal("known roles must be valid")
	}
	if Role("client").Valid() {
		t.Fatal("unknown role reported valid")
	}
}
