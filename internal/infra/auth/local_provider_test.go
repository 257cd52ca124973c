package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

type memStore struct {
	mu   sync.Mutex
	byID map[string]*entity.Credential
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]*entity.Credential{}}
}

func (s *memStore) Create(_ context.Context, c *entity.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == c.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	cp := *c
	s.byID[c.ID] = &cp
	return nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*entity.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.Email == strings.ToLower(email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (*entity.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) UpdateMetadata(_ context.Context, id string, meta entity.UserMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return entity.ErrNotFound
	}
	if meta.Replace {
		c.Meta.Name, c.Meta.AvatarURL = meta.Name, meta.AvatarURL
	}
	if meta.Name != "" {
		c.Meta.Name = meta.Name
	}
	if meta.Role != "" {
		c.Meta.Role = meta.Role
	}
	if meta.AvatarURL != "" {
		c.Meta.AvatarURL = meta.AvatarURL
	}
	return nil
}

func (s *memStore) UpdatePassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return entity.ErrNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type capturedMail struct {
	to, link string
}

type fakeMailer struct {
	sent []capturedMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.sent = append(m.sent, capturedMail{to, link})
	return nil
}

func providerError(t *testing.T, err error) *entity.ProviderError {
	t.Helper()
	var pe *entity.ProviderError
	require.ErrorAs(t, err, &pe)
	return pe
}

func TestLocalProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(newMemStore(), "s3cret", nil)

	session, err := p.SignUp(ctx, " Rex@CRM.test ", "secret1", entity.UserMetadata{Name: "Rex"})
	require.NoError(t, err)
	assert.Equal(t, "rex@crm.test", session.User.Email)
	assert.Equal(t, entity.RoleSalesRep, session.User.Role)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	id, err := NewVerifier("s3cret").Verify(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, id.UserID)

	_, err = p.SignUp(ctx, "rex@crm.test", "other12", entity.UserMetadata{})
	assert.Equal(t, 422, providerError(t, err).Status)

	again, err := p.SignIn(ctx, "rex@crm.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, again.User.UserID)

	_, err = p.SignIn(ctx, "rex@crm.test", "wrong")
	pe := providerError(t, err)
	assert.Equal(t, 400, pe.Status)
	assert.Equal(t, "Invalid login credentials", pe.Message)

	_, err = p.SignIn(ctx, "ghost@crm.test", "secret1")
	assert.Equal(t, "Invalid login credentials", providerError(t, err).Message)
}

func TestLocalProvider_RefreshPicksUpRoleChange(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(newMemStore(), "s3cret", nil)

	uid, err := p.AdminCreateUser(ctx, "rex@crm.test", "secret1", entity.UserMetadata{Name: "Rex", Role: entity.RoleSalesRep})
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "rex@crm.test", "secret1")
	require.NoError(t, err)

	require.NoError(t, p.AdminUpdateMetadata(ctx, uid, entity.UserMetadata{Role: entity.RoleAdmin}))

	refreshed, err := p.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, refreshed.User.Role)
	assert.Equal(t, "Rex", refreshed.User.Name)

	_, err = p.Refresh(ctx, session.AccessToken)
	assert.Equal(t, 401, providerError(t, err).Status)
}

func TestLocalProvider_PasswordReset(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	p := NewLocalProvider(newMemStore(), "s3cret", mailer)

	_, err := p.AdminCreateUser(ctx, "rex@crm.test", "secret1", entity.UserMetadata{Name: "Rex"})
	require.NoError(t, err)

	require.NoError(t, p.SendPasswordReset(ctx, "nobody@crm.test", "https://crm.test/update-password"))
	assert.Empty(t, mailer.sent)

	require.NoError(t, p.SendPasswordReset(ctx, "rex@crm.test", "https://crm.test/update-password"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "rex@crm.test", mailer.sent[0].to)

	link, err := url.Parse(mailer.sent[0].link)
	require.NoError(t, err)
	assert.Equal(t, "/update-password", link.Path)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	_, err = NewVerifier("s3cret").Verify(token)
	assert.Error(t, err, "reset tokens must not authenticate API calls")

	require.NoError(t, p.UpdatePassword(ctx, token, "brandnew"))
	_, err = p.SignIn(ctx, "rex@crm.test", "brandnew")
	assert.NoError(t, err)

	err = p.UpdatePassword(ctx, "garbage", "x")
	assert.Equal(t, "Auth session missing!", providerError(t, err).Message)
}

func TestLocalProvider_AdminDeleteUnknownUser(t *testing.T) {
	p := NewLocalProvider(newMemStore(), "s3cret", nil)

	err := p.AdminDeleteUser(context.Background(), "ghost")

	assert.Equal(t, 404, providerError(t, err).Status)
}
