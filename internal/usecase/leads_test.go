package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

func newLeadUC() (*LeadUseCase, *MockLeadRepository, *MockActivityRepository, *memCache, *MockBoard) {
	repo := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	board := new(MockBoard)
	cache := newMemCache()
	uc := NewLeadUseCase(repo, new(MockUserRepository), activities, cache, board)
	return uc, repo, activities, cache, board
}

func strPtr(s string) *string { return &s }

func TestListLeads_ScopesSalesRepToOwnLeads(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()
	ctx := context.Background()

	leads := []*entity.Lead{
		{ID: "l1", Name: "Acme", Status: "New", Source: "Website"},
		{ID: "l2", Name: "Globex", Status: "Won", Source: "LinkedIn"},
	}
	repo.On("List", ctx, entity.LeadScope{OwnerID: rep.UserID}).Return(leads, nil)

	got, err := uc.ListLeads(ctx, rep, entity.LeadFilter{Stage: "Won"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l2", got[0].ID)
	repo.AssertExpectations(t)
}

func TestListLeads_AdminSeesEverything(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()
	ctx := context.Background()

	repo.On("List", ctx, entity.LeadScope{}).Return([]*entity.Lead{{ID: "l1"}, {ID: "l2"}}, nil)

	got, err := uc.ListLeads(ctx, admin, entity.LeadFilter{Stage: "All"})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListLeads_RequiresIdentity(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()

	_, err := uc.ListLeads(context.Background(), entity.Identity{}, entity.LeadFilter{})

	assert.Equal(t, CodeUnauthenticated, domainCode(err))
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetLead_IncludesScore(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()
	ctx := context.Background()

	lead := &entity.Lead{ID: "l1", Name: "Acme", Email: "a@acme.test", Phone: "555", Company: "Acme", Source: "Website", Status: "Won"}
	repo.On("FindByID", ctx, entity.LeadScope{OwnerID: rep.UserID}, "l1").Return(lead, nil)

	got, err := uc.GetLead(ctx, rep, "l1")

	require.NoError(t, err)
	assert.Equal(t, 100, got.Quality.Score)
	assert.Equal(t, "Acme", got.Name)
}

func TestGetLead_OtherRepsLeadIsNotFound(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()
	ctx := context.Background()

	repo.On("FindByID", ctx, entity.LeadScope{OwnerID: other.UserID}, "l1").Return(nil, entity.ErrNotFound)

	_, err := uc.GetLead(ctx, other, "l1")

	assert.Equal(t, CodeNotFound, domainCode(err))
}

func TestCreateLead_SalesRepIsAlwaysTheAssignee(t *testing.T) {
	uc, repo, _, cache, board := newLeadUC()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.AssignedRepID == rep.UserID &&
			l.Source == entity.DefaultLeadSource &&
			l.Status == entity.DefaultLeadStatus &&
			assert.ObjectsAreEqual([]string{"vip", "q3"}, l.Tags)
	})).Return(nil)
	board.On("PublishBoardEvent", ctx, mock.MatchedBy(func(ev entity.BoardEvent) bool {
		return ev.Action == entity.BoardLeadCreated && ev.OwnerID == rep.UserID
	})).Return(nil)

	result, err := uc.CreateLead(ctx, rep, LeadInput{Name: " Acme ", AssignedRepID: "someone-else", Tags: strPtr("vip, q3,")})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ID)
	assert.True(t, cache.wasInvalidated(PathAdminLeads))
	assert.True(t, cache.wasInvalidated(PathRepLeads))
	repo.AssertExpectations(t)
	board.AssertExpectations(t)
}

func TestCreateLead_AdminAssignsRep(t *testing.T) {
	uc, repo, _, _, board := newLeadUC()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.AssignedRepID == rep.UserID
	})).Return(nil)
	board.On("PublishBoardEvent", ctx, mock.Anything).Return(nil)

	_, err := uc.CreateLead(ctx, admin, LeadInput{Name: "Acme", AssignedRepID: rep.UserID})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateLead_ValidationFails(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()

	_, err := uc.CreateLead(context.Background(), rep, LeadInput{Name: "  ", Email: "not-an-email"})

	require.Error(t, err)
	assert.Equal(t, CodeValidation, domainCode(err))
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "email")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLead_PublishFailureDoesNotFailTheWrite(t *testing.T) {
	uc, repo, _, _, board := newLeadUC()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	board.On("PublishBoardEvent", ctx, mock.Anything).Return(errors.New("broker down"))

	result, err := uc.CreateLead(ctx, rep, LeadInput{Name: "Acme"})

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestUpdateLead_SalesRepCannotTouchOthersLead(t *testing.T) {
	uc, repo, _, _, _ := newLeadUC()
	ctx := context.Background()

	repo.On("FindByID", ctx, entity.LeadScope{OwnerID: other.UserID}, "l1").Return(nil, entity.ErrNotFound)

	_, err := uc.UpdateLead(ctx, other, "l1", LeadInput{Name: "Acme"})

	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, domainCode(err))
	assert.Equal(t, msgUpdateNotOwner, err.Error())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateLead_SalesRepKeepsAssigneeAndReplacesTags(t *testing.T) {
	uc, repo, _, cache, board := newLeadUC()
	ctx := context.Background()

	existing := &entity.Lead{ID: "l1", Name: "Acme", Status: "New", Source: "Website", AssignedRepID: rep.UserID}
	repo.On("FindByID", ctx, entity.LeadScope{OwnerID: rep.UserID}, "l1").Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.AssignedRepID == rep.UserID && l.Status == "Qualified" && l.Source == "Website"
	})).Return(nil)
	repo.On("ReplaceTags", ctx, "l1", []string{"hot"}).Return(nil)
	board.On("PublishBoardEvent", ctx, mock.MatchedBy(func(ev entity.BoardEvent) bool {
		return ev.Action == entity.BoardLeadMoved && ev.Status == "Qualified"
	})).Return(nil)

	_, err := uc.UpdateLead(ctx, rep, "l1", LeadInput{Name: "Acme", Status: "Qualified", AssignedRepID: other.UserID, Tags: strPtr("hot")})

	require.NoError(t, err)
	assert.True(t, cache.wasInvalidated("/rep/leads/l1"))
	repo.AssertExpectations(t)
	board.AssertExpectations(t)
}

func TestUpdateLead_NilTagsLeavesTagsAlone(t *testing.T) {
	uc, repo, _, _, board := newLeadUC()
	ctx := context.Background()

	existing := &entity.Lead{ID: "l1", Name: "Acme", Status: "New", Source: "Website"}
	repo.On("FindByID", ctx, entity.LeadScope{}, "l1").Return(existing, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	_, err := uc.UpdateLead(ctx, admin, "l1", LeadInput{Name: "Acme"})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ReplaceTags", mock.Anything, mock.Anything, mock.Anything)
	board.AssertNotCalled(t, "PublishBoardEvent", mock.Anything, mock.Anything)
}

func TestUpdateLeadStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner moves the card", func(t *testing.T) {
		uc, repo, _, cache, board := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)
		repo.On("UpdateStatus", ctx, "l1", "Proposal").Return(nil)
		board.On("PublishBoardEvent", ctx, entity.BoardEvent{
			Action: entity.BoardLeadMoved, LeadID: "l1", Status: "Proposal", OwnerID: rep.UserID, ActorID: rep.UserID,
		}).Return(nil)

		result, err := uc.UpdateLeadStatus(ctx, rep, "l1", "Proposal")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, cache.wasInvalidated(PathRepPipeline))
		board.AssertExpectations(t)
	})

	t.Run("other rep is rejected", func(t *testing.T) {
		uc, repo, _, _, _ := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)

		_, err := uc.UpdateLeadStatus(ctx, other, "l1", "Proposal")

		assert.Equal(t, CodeUnauthorized, domainCode(err))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin gets not found for a missing lead", func(t *testing.T) {
		uc, repo, _, _, _ := newLeadUC()
		repo.On("OwnerOf", ctx, "missing").Return("", entity.ErrNotFound)

		_, err := uc.UpdateLeadStatus(ctx, admin, "missing", "Won")

		assert.Equal(t, CodeNotFound, domainCode(err))
	})

	t.Run("blank status", func(t *testing.T) {
		uc, _, _, _, _ := newLeadUC()

		_, err := uc.UpdateLeadStatus(ctx, admin, "l1", "  ")

		assert.Equal(t, CodeValidation, domainCode(err))
	})
}

func TestDeleteLead(t *testing.T) {
	ctx := context.Background()

	t.Run("sales rep is rejected", func(t *testing.T) {
		uc, repo, _, _, _ := newLeadUC()

		_, err := uc.DeleteLead(ctx, rep, "l1")

		require.Error(t, err)
		assert.Equal(t, msgDeleteNotAdmin, err.Error())
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes and notifies the owner's board", func(t *testing.T) {
		uc, repo, _, _, board := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)
		repo.On("Delete", ctx, "l1").Return(nil)
		board.On("PublishBoardEvent", ctx, mock.MatchedBy(func(ev entity.BoardEvent) bool {
			return ev.Action == entity.BoardLeadDeleted && ev.OwnerID == rep.UserID
		})).Return(nil)

		result, err := uc.DeleteLead(ctx, admin, "l1")

		require.NoError(t, err)
		assert.Equal(t, "l1", result.ID)
		board.AssertExpectations(t)
	})

	t.Run("database failure is technical", func(t *testing.T) {
		uc, repo, _, _, _ := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)
		repo.On("Delete", ctx, "l1").Return(errors.New("connection reset"))

		_, err := uc.DeleteLead(ctx, admin, "l1")

		assert.True(t, IsTechnicalError(err))
		assert.Equal(t, "connection reset", err.Error())
	})
}

func TestCreateActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("owner logs a call", func(t *testing.T) {
		uc, repo, activities, _, _ := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)
		activities.On("Create", ctx, mock.MatchedBy(func(a *entity.Activity) bool {
			return a.LeadID == "l1" && a.Type == "Call" && a.Notes == "left voicemail"
		})).Return(nil)

		_, err := uc.CreateActivity(ctx, rep, "l1", ActivityInput{Type: "Call", Notes: "left voicemail"})

		require.NoError(t, err)
		activities.AssertExpectations(t)
	})

	t.Run("other rep is rejected", func(t *testing.T) {
		uc, repo, activities, _, _ := newLeadUC()
		repo.On("OwnerOf", ctx, "l1").Return(rep.UserID, nil)

		_, err := uc.CreateActivity(ctx, other, "l1", ActivityInput{Type: "Call"})

		assert.Equal(t, msgNotOwner, err.Error())
		activities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
