package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

var (
	admin = entity.Identity{UserID: "admin-1", Email: "admin@crm.test", Name: "Ada", Role: entity.RoleAdmin}
	rep   = entity.Identity{UserID: "rep-1", Email: "rep@crm.test", Name: "Rex", Role: entity.RoleSalesRep}
	other = entity.Identity{UserID: "rep-2", Email: "rep2@crm.test", Name: "Rita", Role: entity.RoleSalesRep}
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context, scope entity.LeadScope) ([]*entity.Lead, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, scope entity.LeadScope, id string) (*entity.Lead, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) CreateMany(ctx context.Context, leads []*entity.Lead) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockLeadRepository) ReplaceTags(ctx context.Context, leadID string, tags []string) error {
	return m.Called(ctx, leadID, tags).Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, meta entity.UserMetadata) error {
	return m.Called(ctx, id, meta).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	return m.Called(ctx, a).Error(0)
}

// MockFollowupRepository
type MockFollowupRepository struct {
	mock.Mock
}

func (m *MockFollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFollowupRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockFollowupRepository) LeadOwnerOf(ctx context.Context, followupID string) (string, error) {
	args := m.Called(ctx, followupID)
	return args.String(0), args.Error(1)
}

func (m *MockFollowupRepository) ListForRep(ctx context.Context, repID, status string) ([]*entity.Followup, error) {
	args := m.Called(ctx, repID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Followup), args.Error(1)
}

func (m *MockFollowupRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// MockStageRepository
type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) List(ctx context.Context) ([]*entity.PipelineStage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PipelineStage), args.Error(1)
}

func (m *MockStageRepository) Create(ctx context.Context, s *entity.PipelineStage) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStageRepository) Update(ctx context.Context, s *entity.PipelineStage) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStageRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]*entity.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id string) (*entity.EmailTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, t *entity.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockEmailLogRepository
type MockEmailLogRepository struct {
	mock.Mock
}

func (m *MockEmailLogRepository) Create(ctx context.Context, l *entity.EmailLog) error {
	return m.Called(ctx, l).Error(0)
}

// MockIdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string, meta entity.UserMetadata) (*entity.Session, error) {
	args := m.Called(ctx, email, password, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockIdentityProvider) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

func (m *MockIdentityProvider) UpdatePassword(ctx context.Context, accessToken, password string) error {
	return m.Called(ctx, accessToken, password).Error(0)
}

func (m *MockIdentityProvider) AdminCreateUser(ctx context.Context, email, password string, meta entity.UserMetadata) (string, error) {
	args := m.Called(ctx, email, password, meta)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) AdminUpdateMetadata(ctx context.Context, userID string, meta entity.UserMetadata) error {
	return m.Called(ctx, userID, meta).Error(0)
}

func (m *MockIdentityProvider) AdminDeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, bucket, name, contentType string, body io.Reader) error {
	return m.Called(ctx, bucket, name, contentType, body).Error(0)
}

func (m *MockStorage) PublicURL(bucket, name string) string {
	return "https://cdn.test/" + bucket + "/" + name
}

// MockBoard
type MockBoard struct {
	mock.Mock
}

func (m *MockBoard) PublishBoardEvent(ctx context.Context, ev entity.BoardEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// memCache is an in-memory RouteCache that records invalidated paths.
type memCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memCache) Invalidate(_ context.Context, paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		c.invalidated = append(c.invalidated, p)
		for k := range c.items {
			if strings.HasPrefix(k, p) {
				delete(c.items, k)
			}
		}
	}
	return nil
}

func (c *memCache) wasInvalidated(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.invalidated {
		if p == path {
			return true
		}
	}
	return false
}

func domainCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
