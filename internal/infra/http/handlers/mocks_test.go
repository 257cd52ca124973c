package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

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

func (m *MockFollowupRepository) ListForRep(ctx context.Context, repID string, status string) ([]*entity.Followup, error) {
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
