package handler

import (
	"net/http"
	"testing"

	"github.com/skillswap/skill-exchange/internal/model"
)

func newSkillHarness() (*memStore, *PublicHandler, *SkillHandler) {
	st := newMemStore()
	pub := NewPublicHandler(skillStoreView{st}, st)
	mgr := NewSkillHandler(skillStoreView{st}, nil)
	return st, pub, mgr
}

func TestCreateSkill(t *testing.T) {
	st, _, mgr := newSkillHarness()
	st.addUser(1, "Ana")

	rec := doReq(t, mgr.Create, http.MethodPost, "/v1/skills", createSkillReq{
		Title:       "Guitar Lessons",
		Description: "Acoustic fingerstyle basics",
		Category:    "Arts",
		Kind:        "Offering",
		Location:    "Campus North",
	}, 1, 0)
	wantStatus(t, rec, http.StatusCreated)

	var s model.Skill
	decodeBody(t, rec, &s)
	if s.ID == 0 || s.OwnerID != 1 || s.Status != model.SkillActive {
		t.Fatalf("unexpected skill: %+v", s)
	}
}

func TestCreateSkillValidation(t *testing.T) {
	st, _, mgr := newSkillHarness()
	st.addUser(1, "Ana")

	cases := []struct {
		name string
		req  createSkillReq
	}{
		{"missing title", createSkillReq{Description: "d", Category: "Tech", Kind: "Offering"}},
		{"blank title", createSkillReq{Title: "   ", Description: "d", Category: "Tech", Kind: "Offering"}},
		{"missing description", createSkillReq{Title: "t", Category: "Tech", Kind: "Offering"}},
		{"bad category", createSkillReq{Title: "t", Description: "d", Category: "Sports", Kind: "Offering"}},
		{"bad kind", createSkillReq{Title: "t", Description: "d", Category: "Tech", Kind: "Lending"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doReq(t, mgr.Create, http.MethodPost, "/v1/skills", tc.req, 1, 0)
			wantStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestBrowseReturnsOnlyActive(t *testing.T) {
	st, pub, _ := newSkillHarness()
	st.addUser(1, "Ana")
	active := st.addSkill(1, "Photography", model.SkillActive)
	st.addSkill(1, "Old Listing", model.SkillWithdrawn)

	rec := doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills", nil, 0, 0)
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Skills []model.Skill `json:"skills"`
		Count  int           `json:"count"`
	}
	decodeBody(t, rec, &resp)
	if resp.Count != 1 || len(resp.Skills) != 1 || resp.Skills[0].ID != active {
		t.Fatalf("browse returned %+v", resp)
	}
}

func TestBrowseFilters(t *testing.T) {
	st, pub, _ := newSkillHarness()
	st.addUser(1, "Ana")
	st.addSkill(1, "Guitar", model.SkillActive) // Tech/Offering per fake defaults
	st.mu.Lock()
	st.skills[1].Category = model.CategoryArts
	st.mu.Unlock()
	st.addSkill(1, "Calculus Help", model.SkillActive)

	rec := doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills?category=Arts", nil, 0, 0)
	wantStatus(t, rec, http.StatusOK)
	var resp struct {
		Skills []model.Skill `json:"skills"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Skills) != 1 || resp.Skills[0].Title != "Guitar" {
		t.Fatalf("category filter returned %+v", resp.Skills)
	}

	rec = doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills?search=calculus", nil, 0, 0)
	decodeBody(t, rec, &resp)
	if len(resp.Skills) != 1 || resp.Skills[0].Title != "Calculus Help" {
		t.Fatalf("search filter returned %+v", resp.Skills)
	}

	rec = doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills?category=All", nil, 0, 0)
	decodeBody(t, rec, &resp)
	if len(resp.Skills) != 2 {
		t.Fatalf("category=All should disable the filter, got %d skills", len(resp.Skills))
	}

	rec = doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills?category=Sports", nil, 0, 0)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateSkillOwnerOnly(t *testing.T) {
	st, _, mgr := newSkillHarness()
	st.addUser(1, "Ana")
	st.addUser(2, "Ben")
	id := st.addSkill(1, "Photography", model.SkillActive)

	title := "Portrait Photography"
	rec := doReq(t, mgr.Update, http.MethodPatch, "/v1/skills/1", updateSkillReq{Title: &title}, 2, id)
	wantStatus(t, rec, http.StatusForbidden)

	rec = doReq(t, mgr.Update, http.MethodPatch, "/v1/skills/1", updateSkillReq{Title: &title}, 1, id)
	wantStatus(t, rec, http.StatusOK)
	var s model.Skill
	decodeBody(t, rec, &s)
	if s.Title != "Portrait Photography" {
		t.Fatalf("title not updated: %+v", s)
	}

	rec = doReq(t, mgr.Update, http.MethodPatch, "/v1/skills/99", updateSkillReq{Title: &title}, 1, 99)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestWithdrawHidesFromBrowseAndRestoreReturns(t *testing.T) {
	st, pub, mgr := newSkillHarness()
	st.addUser(1, "Ana")
	id := st.addSkill(1, "Spanish Conversation", model.SkillActive)

	withdrawn := "withdrawn"
	rec := doReq(t, mgr.Update, http.MethodPatch, "/v1/skills/1", updateSkillReq{Status: &withdrawn}, 1, id)
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Count int `json:"count"`
	}
	rec = doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills", nil, 0, 0)
	decodeBody(t, rec, &resp)
	if resp.Count != 0 {
		t.Fatalf("withdrawn skill still browsable (count=%d)", resp.Count)
	}

	// Owner still sees it in their own listing.
	rec = doReq(t, mgr.ListMine, http.MethodGet, "/v1/my-skills", nil, 1, 0)
	decodeBody(t, rec, &resp)
	if resp.Count != 1 {
		t.Fatalf("owner listing should include withdrawn skills (count=%d)", resp.Count)
	}

	active := "active"
	rec = doReq(t, mgr.Update, http.MethodPatch, "/v1/skills/1", updateSkillReq{Status: &active}, 1, id)
	wantStatus(t, rec, http.StatusOK)

	rec = doReq(t, pub.ListSkills, http.MethodGet, "/v1/skills", nil, 0, 0)
	decodeBody(t, rec, &resp)
	if resp.Count != 1 {
		t.Fatalf("restored skill missing from browse (count=%d)", resp.Count)
	}
}

func TestDeleteSkillOwnerOnly(t *testing.T) {
	st, pub, mgr := newSkillHarness()
	st.addUser(1, "Ana")
	st.addUser(2, "Ben")
	id := st.addSkill(1, "Photography", model.SkillActive)

	rec := doReq(t, mgr.Delete, http.MethodDelete, "/v1/skills/1", nil, 2, id)
	wantStatus(t, rec, http.StatusForbidden)

	rec = doReq(t, mgr.Delete, http.MethodDelete, "/v1/skills/1", nil, 1, id)
	wantStatus(t, rec, http.StatusNoContent)

	rec = doReq(t, pub.GetSkill, http.MethodGet, "/v1/skills/1", nil, 0, id)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestGetProfileShowsActiveSkillsOnly(t *testing.T) {
	st, pub, _ := newSkillHarness()
	st.addUser(1, "Ana")
	st.addSkill(1, "A", model.SkillActive)
	st.addSkill(1, "B", model.SkillWithdrawn)

	rec := doReq(t, pub.GetProfile, http.MethodGet, "/v1/users/1/profile", nil, 0, 1)
	wantStatus(t, rec, http.StatusOK)
	var resp struct {
		User   model.PublicUser `json:"user"`
		Skills []model.Skill    `json:"skills"`
	}
	decodeBody(t, rec, &resp)
	if resp.User.Name != "Ana" || len(resp.Skills) != 1 || resp.Skills[0].Title != "A" {
		t.Fatalf("profile = %+v", resp)
	}

	rec = doReq(t, pub.GetProfile, http.MethodGet, "/v1/users/9/profile", nil, 0, 9)
	wantStatus(t, rec, http.StatusNotFound)
}
