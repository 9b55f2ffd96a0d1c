package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/model"
	"github.com/skillswap/skill-exchange/internal/repository"
)

// memStore is an in-memory implementation of the four store interfaces.
// It honors the same contracts as the SQL layer: Save is idempotent,
// CreatePending admits at most one pending request per requester and
// skill, and UpdateStatus is a compare-and-set. All methods take the
// same lock, so concurrent test calls observe linearizable behavior.
type memStore struct {
	mu        sync.Mutex
	users     map[uint64]model.User
	skills    map[uint64]*model.Skill
	saved     map[uint64]map[uint64]time.Time // userID -> skillID -> saved at
	trades    map[uint64]*model.TradeRequest
	nextSkill uint64
	nextTrade uint64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[uint64]model.User{},
		skills: map[uint64]*model.Skill{},
		saved:  map[uint64]map[uint64]time.Time{},
		trades: map[uint64]*model.TradeRequest{},
	}
}

func (m *memStore) addUser(id uint64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = model.User{ID: id, Name: name, Email: strings.ToLower(name) + "@example.edu"}
}

func (m *memStore) addSkill(owner uint64, title string, status model.SkillStatus) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSkill++
	m.skills[m.nextSkill] = &model.Skill{
		ID:          m.nextSkill,
		OwnerID:     owner,
		Title:       title,
		Description: "about " + title,
		Category:    model.CategoryTech,
		Kind:        model.KindOffering,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	return m.nextSkill
}

func (m *memStore) skillCopy(s *model.Skill) *model.Skill {
	cp := *s
	if u, ok := m.users[s.OwnerID]; ok {
		p := u.Public()
		cp.Owner = &p
	}
	return &cp
}

// ----- UserStore -----

func (m *memStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// ----- SkillStore -----

type skillStoreView struct{ *memStore }

func (m skillStoreView) Create(ctx context.Context, s *model.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSkill++
	s.ID = m.nextSkill
	s.Status = model.SkillActive
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.skills[s.ID] = &cp
	return nil
}

func (m skillStoreView) GetByID(ctx context.Context, id uint64) (*model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[id]
	if !ok {
		return nil, repository.ErrSkillNotFound
	}
	return m.skillCopy(s), nil
}

func (m skillStoreView) List(ctx context.Context, f repository.SkillFilter) ([]model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Skill
	for _, s := range m.skills {
		if s.Status != model.SkillActive {
			continue
		}
		if f.Category != "" && string(s.Category) != f.Category {
			continue
		}
		if f.Kind != "" && string(s.Kind) != f.Kind {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(s.Title), needle) &&
				!strings.Contains(strings.ToLower(s.Description), needle) {
				continue
			}
		}
		out = append(out, *m.skillCopy(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m skillStoreView) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error) {
	return m.listOwned(ownerID, false)
}

func (m skillStoreView) ListActiveByOwner(ctx context.Context, ownerID uint64) ([]model.Skill, error) {
	return m.listOwned(ownerID, true)
}

func (m skillStoreView) listOwned(ownerID uint64, activeOnly bool) ([]model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Skill
	for _, s := range m.skills {
		if s.OwnerID != ownerID {
			continue
		}
		if activeOnly && s.Status != model.SkillActive {
			continue
		}
		out = append(out, *m.skillCopy(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m skillStoreView) Update(ctx context.Context, id, callerID uint64, p repository.SkillPatch) (*model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[id]
	if !ok {
		return nil, repository.ErrSkillNotFound
	}
	if s.OwnerID != callerID {
		return nil, repository.ErrForbidden
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Kind != nil {
		s.Kind = *p.Kind
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	s.UpdatedAt = time.Now().UTC()
	return m.skillCopy(s), nil
}

func (m skillStoreView) Delete(ctx context.Context, id, callerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[id]
	if !ok {
		return repository.ErrSkillNotFound
	}
	if s.OwnerID != callerID {
		return repository.ErrForbidden
	}
	delete(m.skills, id)
	return nil
}

// ----- SavedSkillStore -----

type savedStoreView struct{ *memStore }

func (m savedStoreView) Save(ctx context.Context, userID, skillID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[skillID]
	if !ok || s.Status != model.SkillActive {
		if m.saved[userID][skillID] != (time.Time{}) {
			return nil // already saved earlier, idempotent success
		}
		return repository.ErrSkillNotFound
	}
	if m.saved[userID] == nil {
		m.saved[userID] = map[uint64]time.Time{}
	}
	if _, dup := m.saved[userID][skillID]; !dup {
		m.saved[userID][skillID] = time.Now().UTC()
	}
	return nil
}

func (m savedStoreView) Unsave(ctx context.Context, userID, skillID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved[userID], skillID)
	return nil
}

func (m savedStoreView) ListIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for id := range m.saved[userID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m savedStoreView) ListSkills(ctx context.Context, userID uint64) ([]model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Skill
	for id := range m.saved[userID] {
		if s, ok := m.skills[id]; ok && s.Status == model.SkillActive {
			out = append(out, *m.skillCopy(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ----- TradeStore -----

type tradeStoreView struct{ *memStore }

func (m tradeStoreView) CreatePending(ctx context.Context, t *model.TradeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tr := range m.trades {
		if tr.RequesterID == t.RequesterID && tr.SkillID == t.SkillID && tr.Status == model.TradePending {
			return repository.ErrConflict
		}
	}
	s, ok := m.skills[t.SkillID]
	if !ok || s.Status != model.SkillActive {
		return repository.ErrSkillNotFound
	}
	if s.OwnerID == t.RequesterID {
		return repository.ErrForbidden
	}
	m.nextTrade++
	t.ID = m.nextTrade
	t.Status = model.TradePending
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.trades[t.ID] = &cp
	return nil
}

func (m tradeStoreView) GetByID(ctx context.Context, id uint64) (*model.TradeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.trades[id]
	if !ok {
		return nil, repository.ErrTradeNotFound
	}
	cp := *tr
	return &cp, nil
}

func (m tradeStoreView) UpdateStatus(ctx context.Context, id uint64, from, to model.TradeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.trades[id]
	if !ok {
		return repository.ErrTradeNotFound
	}
	if tr.Status != from {
		return repository.ErrInvalidState
	}
	tr.Status = to
	tr.UpdatedAt = time.Now().UTC()
	return nil
}

func (m tradeStoreView) ListByRequester(ctx context.Context, requesterID uint64) ([]model.TradeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TradeRequest
	for _, tr := range m.trades {
		if tr.RequesterID != requesterID {
			continue
		}
		cp := *tr
		if s, ok := m.skills[tr.SkillID]; ok {
			cp.Skill = m.skillCopy(s)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m tradeStoreView) ListIncoming(ctx context.Context, ownerID uint64) ([]model.TradeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TradeRequest
	for _, tr := range m.trades {
		s, ok := m.skills[tr.SkillID]
		if !ok || s.OwnerID != ownerID {
			continue
		}
		cp := *tr
		cp.Skill = m.skillCopy(s)
		if u, ok := m.users[tr.RequesterID]; ok {
			p := u.Public()
			cp.Requester = &p
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ----- request helpers -----

// doReq builds an echo context carrying an optional JSON body, an
// authenticated user and an optional :id path parameter, then runs the
// handler against it.
func doReq(t *testing.T, h echo.HandlerFunc, method, target string, body any, uid uint64, pathID uint64) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", uid)
	}
	if pathID != 0 {
		c.SetParamNames("id")
		c.SetParamValues(strconv.FormatUint(pathID, 10))
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// decodeBody unmarshals a recorder body into the given target.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// ensure the views satisfy the interfaces the handlers expect.
var (
	_ SkillStore      = skillStoreView{}
	_ SavedSkillStore = savedStoreView{}
	_ TradeStore      = tradeStoreView{}
	_ UserStore       = (*memStore)(nil)
)
