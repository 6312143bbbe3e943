package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

func mustMarshalJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// In-memory repository fakes backing the service tests. They implement the db
// interfaces with the same ErrNotFound semantics as the Firestore versions.

type fakeUserRepo struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*models.User
	history map[string][]*models.LoginHistory
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, history: map[string][]*models.LoginHistory{}}
}

func (r *fakeUserRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("user-%d", r.seq)
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = r.nextID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, filter db.ListFilter) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, user := range r.users {
		if filter == db.ListActive && user.IsDeleted {
			continue
		}
		if filter == db.ListTrashed && !user.IsDeleted {
			continue
		}
		cp := *user
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return db.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) AddLoginHistory(_ context.Context, userID string, entry *models.LoginHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.history[userID] = append(r.history[userID], &cp)
	return nil
}

func (r *fakeUserRepo) ListLoginHistory(_ context.Context, userID string, limit int) ([]*models.LoginHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.history[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]*models.LoginHistory, 0, len(entries))
	for _, e := range entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) DeleteLoginHistory(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.history[userID])
	delete(r.history, userID)
	return n, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*models.Category{}}
}

func copyCategory(c *models.Category) *models.Category {
	cp := *c
	cp.Subcategories = append([]models.Subcategory(nil), c.Subcategories...)
	return &cp
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		r.seq++
		category.ID = fmt.Sprintf("cat-%d", r.seq)
	}
	r.categories[category.ID] = copyCategory(category)
	return category.ID, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, categoryID string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[categoryID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return copyCategory(category), nil
}

func (r *fakeCategoryRepo) List(_ context.Context, filter db.ListFilter) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, category := range r.categories {
		if filter == db.ListActive && category.IsDeleted {
			continue
		}
		if filter == db.ListTrashed && !category.IsDeleted {
			continue
		}
		out = append(out, copyCategory(category))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return db.ErrNotFound
	}
	r.categories[category.ID] = copyCategory(category)
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[categoryID]; !ok {
		return db.ErrNotFound
	}
	delete(r.categories, categoryID)
	return nil
}

type fakeCountryRepo struct {
	mu        sync.Mutex
	seq       int
	countries map[string]*models.Country
}

func newFakeCountryRepo() *fakeCountryRepo {
	return &fakeCountryRepo{countries: map[string]*models.Country{}}
}

func copyCountry(c *models.Country) *models.Country {
	cp := *c
	cp.Categories = append([]string(nil), c.Categories...)
	return &cp
}

func (r *fakeCountryRepo) Create(_ context.Context, country *models.Country) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if country.ID == "" {
		r.seq++
		country.ID = fmt.Sprintf("country-%d", r.seq)
	}
	r.countries[country.ID] = copyCountry(country)
	return country.ID, nil
}

func (r *fakeCountryRepo) GetByID(_ context.Context, countryID string) (*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	country, ok := r.countries[countryID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return copyCountry(country), nil
}

func (r *fakeCountryRepo) List(_ context.Context, filter db.ListFilter) ([]*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Country
	for _, country := range r.countries {
		if filter == db.ListActive && country.IsDeleted {
			continue
		}
		if filter == db.ListTrashed && !country.IsDeleted {
			continue
		}
		out = append(out, copyCountry(country))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCountryRepo) ListByCategoryID(_ context.Context, categoryID string) ([]*models.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Country
	for _, country := range r.countries {
		if country.IsDeleted {
			continue
		}
		for _, id := range country.Categories {
			if id == categoryID {
				out = append(out, copyCountry(country))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCountryRepo) Update(_ context.Context, country *models.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.countries[country.ID]; !ok {
		return db.ErrNotFound
	}
	r.countries[country.ID] = copyCountry(country)
	return nil
}

func (r *fakeCountryRepo) Delete(_ context.Context, countryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.countries[countryID]; !ok {
		return db.ErrNotFound
	}
	delete(r.countries, countryID)
	return nil
}

type fakePromptRepo struct {
	mu      sync.Mutex
	seq     int
	prompts map[string]*models.Prompt
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: map[string]*models.Prompt{}}
}

func (r *fakePromptRepo) Create(_ context.Context, prompt *models.Prompt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prompt.ID == "" {
		r.seq++
		prompt.ID = fmt.Sprintf("prompt-%d", r.seq)
	}
	cp := *prompt
	r.prompts[prompt.ID] = &cp
	return prompt.ID, nil
}

func (r *fakePromptRepo) GetByID(_ context.Context, promptID string) (*models.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prompt, ok := r.prompts[promptID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *prompt
	return &cp, nil
}

func (r *fakePromptRepo) List(_ context.Context, q db.PromptQuery) ([]*models.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prompt
	for _, prompt := range r.prompts {
		if q.Filter == db.ListActive && prompt.IsDeleted {
			continue
		}
		if q.Filter == db.ListTrashed && !prompt.IsDeleted {
			continue
		}
		if q.CategoryID != "" && prompt.CategoryID != q.CategoryID {
			continue
		}
		if q.SubCategoryID != "" && prompt.SubCategoryID != q.SubCategoryID {
			continue
		}
		if q.TrendingOnly && !prompt.IsTrending {
			continue
		}
		cp := *prompt
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePromptRepo) CountByCategoryID(_ context.Context, categoryID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, prompt := range r.prompts {
		if !prompt.IsDeleted && prompt.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakePromptRepo) Update(_ context.Context, prompt *models.Prompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prompts[prompt.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *prompt
	r.prompts[prompt.ID] = &cp
	return nil
}

func (r *fakePromptRepo) Delete(_ context.Context, promptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prompts[promptID]; !ok {
		return db.ErrNotFound
	}
	delete(r.prompts, promptID)
	return nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	seq   int
	plans map[string]*models.SubscriptionPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*models.SubscriptionPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *models.SubscriptionPlan) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan.ID == "" {
		r.seq++
		plan.ID = fmt.Sprintf("plan-%d", r.seq)
	}
	cp := *plan
	r.plans[plan.ID] = &cp
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, planID string) (*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[planID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (r *fakePlanRepo) List(_ context.Context) ([]*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SubscriptionPlan
	for _, plan := range r.plans {
		cp := *plan
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *models.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *plan
	r.plans[plan.ID] = &cp
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[planID]; !ok {
		return db.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	seq  int
	subs map[string]*models.UserSubscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[string]*models.UserSubscription{}}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *models.UserSubscription) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		r.seq++
		sub.ID = fmt.Sprintf("sub-%d", r.seq)
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return sub.ID, nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, subID string) (*models.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) List(_ context.Context, q db.SubscriptionQuery) ([]*models.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserSubscription
	for _, sub := range r.subs {
		if q.UserID != "" && sub.UserID != q.UserID {
			continue
		}
		if q.PlanID != "" && sub.PlanID != q.PlanID {
			continue
		}
		if q.ActiveOnly != nil && sub.IsActive != *q.ActiveOnly {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *models.UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) DeleteByUserID(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, sub := range r.subs {
		if sub.UserID == userID {
			delete(r.subs, id)
			n++
		}
	}
	return n, nil
}

type fakeGenerationRepo struct {
	mu   sync.Mutex
	gens map[string]*models.UserGeneration
}

func newFakeGenerationRepo() *fakeGenerationRepo {
	return &fakeGenerationRepo{gens: map[string]*models.UserGeneration{}}
}

func (r *fakeGenerationRepo) add(gen *models.UserGeneration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *gen
	r.gens[gen.ID] = &cp
}

func (r *fakeGenerationRepo) GetByID(_ context.Context, genID string) (*models.UserGeneration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen, ok := r.gens[genID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *gen
	return &cp, nil
}

func (r *fakeGenerationRepo) List(_ context.Context, userID, status string) ([]*models.UserGeneration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserGeneration
	for _, gen := range r.gens {
		if userID != "" && gen.UserID != userID {
			continue
		}
		if status != "" && gen.Status != status {
			continue
		}
		cp := *gen
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGenerationRepo) DeleteByUserID(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var urls []string
	for id, gen := range r.gens {
		if gen.UserID == userID {
			if gen.ImageURL != "" {
				urls = append(urls, gen.ImageURL)
			}
			delete(r.gens, id)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries map[string]*models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{entries: map[string]*models.Feedback{}}
}

func (r *fakeFeedbackRepo) add(f *models.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.entries[f.ID] = &cp
}

func (r *fakeFeedbackRepo) GetByID(_ context.Context, feedbackID string) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.entries[feedbackID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFeedbackRepo) List(_ context.Context, rating int) ([]*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Feedback
	for _, f := range r.entries {
		if rating != 0 && f.Rating != rating {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, feedbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[feedbackID]; !ok {
		return db.ErrNotFound
	}
	delete(r.entries, feedbackID)
	return nil
}

func (r *fakeFeedbackRepo) DeleteByUserID(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, f := range r.entries {
		if f.UserID == userID {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

// fakeAuditRepo records entries so tests can assert on actions.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, logEntry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeObjectStore records deletes and can be told to fail them.
type fakeObjectStore struct {
	mu          sync.Mutex
	deletedURLs []string
	failDeletes bool
}

func (s *fakeObjectStore) Put(context.Context, string, io.Reader, string) error { return nil }

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	return s.DeleteByURL(nil, key)
}

func (s *fakeObjectStore) DeleteByURL(_ context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDeletes {
		return fmt.Errorf("delete failed for %s", rawURL)
	}
	s.deletedURLs = append(s.deletedURLs, rawURL)
	return nil
}

func (s *fakeObjectStore) Has(context.Context, string) (bool, error) { return false, nil }
