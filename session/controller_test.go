package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/cesi-vents/vents/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	loginErr     error
	registerErr  error
	profile      *client.Profile
	profileErr   error
	updateResult *client.Profile
	updateErr    error
	avatarResult *client.Profile
	avatarErr    error
	refreshErr   error

	loginCalls   int
	profileCalls int
	refreshCalls int
}

func (m *mockAPI) Login(ctx context.Context, email, password string) error {
	m.loginCalls++
	return m.loginErr
}

func (m *mockAPI) Register(ctx context.Context, form client.RegisterForm) error {
	return m.registerErr
}

func (m *mockAPI) FetchProfile(ctx context.Context) (*client.Profile, error) {
	m.profileCalls++
	return m.profile, m.profileErr
}

func (m *mockAPI) UpdateProfile(ctx context.Context, update client.ProfileUpdate) (*client.Profile, error) {
	return m.updateResult, m.updateErr
}

func (m *mockAPI) UploadAvatar(ctx context.Context, filePath string) (*client.Profile, error) {
	return m.avatarResult, m.avatarErr
}

func (m *mockAPI) RefreshSession(ctx context.Context) error {
	m.refreshCalls++
	return m.refreshErr
}

type mockStore struct {
	refresh    string
	refreshErr error
	clearCalls int
}

func (m *mockStore) RefreshToken(ctx context.Context) (string, error) {
	return m.refresh, m.refreshErr
}

func (m *mockStore) ClearAll(ctx context.Context) error {
	m.clearCalls++
	m.refresh = ""
	return nil
}

func studentProfile() *client.Profile {
	return &client.Profile{ID: 42, Email: "student@cesi.fr", FirstName: "Ada", Role: "user", Points: 120}
}

func TestLoginSuccessFetchesProfile(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	ctrl := session.NewController(api, &mockStore{})

	require.NoError(t, ctrl.Login(context.Background(), "student@cesi.fr", "secret123"))

	state := ctrl.Current()
	assert.Equal(t, session.StatusAuthenticated, state.Status)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "student@cesi.fr", state.Profile.Email)
	assert.Empty(t, state.LastError)
	assert.Equal(t, 1, api.profileCalls)
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	api := &mockAPI{loginErr: clierr.New(clierr.Auth, "Invalid credentials", nil)}
	ctrl := session.NewController(api, &mockStore{})

	err := ctrl.Login(context.Background(), "user@x.com", "wrong")
	require.Error(t, err)

	state := ctrl.Current()
	assert.Equal(t, session.StatusAnonymous, state.Status)
	assert.Nil(t, state.Profile)
	assert.Equal(t, "Invalid credentials", state.LastError)
	assert.Equal(t, 0, api.profileCalls, "no profile fetch after a failed login")
}

func TestRegisterSuccessFetchesProfile(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	ctrl := session.NewController(api, &mockStore{})

	form := client.RegisterForm{Email: "student@cesi.fr", Password: "secret123", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, ctrl.Register(context.Background(), form))
	assert.Equal(t, session.StatusAuthenticated, ctrl.Current().Status)
}

func TestFetchProfileAuthFailureDemotesToAnonymous(t *testing.T) {
	api := &mockAPI{profileErr: clierr.New(clierr.Auth, "session expired, please log in again", nil)}
	store := &mockStore{refresh: "stale"}
	ctrl := session.NewController(api, store)

	err := ctrl.FetchProfile(context.Background())
	require.Error(t, err)

	state := ctrl.Current()
	assert.Equal(t, session.StatusAnonymous, state.Status)
	assert.Nil(t, state.Profile)
	assert.Equal(t, 1, store.clearCalls, "auth failure must clear stored credentials")
}

func TestFetchProfileNetworkFailureKeepsSession(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	store := &mockStore{refresh: "ref"}
	ctrl := session.NewController(api, store)
	require.NoError(t, ctrl.Restore(context.Background()))
	require.Equal(t, session.StatusAuthenticated, ctrl.Current().Status)

	api.profileErr = clierr.New(clierr.Network, "could not reach the server", errors.New("dial tcp: refused"))
	err := ctrl.FetchProfile(context.Background())
	require.Error(t, err)

	state := ctrl.Current()
	assert.Equal(t, session.StatusAuthenticated, state.Status, "a network failure must not destroy the session")
	assert.Equal(t, "could not reach the server", state.LastError)
	assert.Equal(t, 0, store.clearCalls)
}

func TestUpdateProfileReplacesWholesale(t *testing.T) {
	api := &mockAPI{
		profile:      studentProfile(),
		updateResult: &client.Profile{ID: 42, Email: "student@cesi.fr", FirstName: "Augusta", Role: "user"},
	}
	ctrl := session.NewController(api, &mockStore{})
	require.NoError(t, ctrl.Login(context.Background(), "student@cesi.fr", "secret123"))

	require.NoError(t, ctrl.UpdateProfile(context.Background(), client.ProfileUpdate{FirstName: "Augusta"}))

	state := ctrl.Current()
	assert.Equal(t, "Augusta", state.Profile.FirstName)
	assert.Zero(t, state.Profile.Points, "the profile is replaced with the server record, never merged")
}

func TestRestoreWithoutRefreshTokenMakesNoNetworkCall(t *testing.T) {
	api := &mockAPI{}
	ctrl := session.NewController(api, &mockStore{})

	require.NoError(t, ctrl.Restore(context.Background()))

	assert.Equal(t, session.StatusAnonymous, ctrl.Current().Status)
	assert.Equal(t, 0, api.refreshCalls)
	assert.Equal(t, 0, api.profileCalls)
}

func TestRestoreWithRefreshTokenAuthenticates(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	store := &mockStore{refresh: "persisted-refresh"}
	ctrl := session.NewController(api, store)

	var seen []session.Status
	cancel := ctrl.Subscribe(func(s session.Session) { seen = append(seen, s.Status) })
	defer cancel()

	require.NoError(t, ctrl.Restore(context.Background()))

	state := ctrl.Current()
	assert.Equal(t, session.StatusAuthenticated, state.Status)
	require.NotNil(t, state.Profile)
	assert.Equal(t, 1, api.refreshCalls, "exactly one refresh call")
	assert.Equal(t, 1, api.profileCalls, "exactly one profile call")
	assert.Contains(t, seen, session.StatusRestoring, "observers see the restoring state before settlement")
}

func TestRestoreRefreshAuthFailureSettlesAnonymous(t *testing.T) {
	api := &mockAPI{refreshErr: clierr.New(clierr.Auth, "invalid refresh token", nil)}
	store := &mockStore{refresh: "expired-refresh"}
	ctrl := session.NewController(api, store)

	err := ctrl.Restore(context.Background())
	require.Error(t, err)

	state := ctrl.Current()
	assert.Equal(t, session.StatusAnonymous, state.Status)
	assert.Equal(t, 1, store.clearCalls)
}

func TestRestoreNetworkFailureSettlesError(t *testing.T) {
	api := &mockAPI{refreshErr: clierr.New(clierr.Network, "could not reach the server", nil)}
	store := &mockStore{refresh: "ref"}
	ctrl := session.NewController(api, store)

	err := ctrl.Restore(context.Background())
	require.Error(t, err)

	state := ctrl.Current()
	assert.Equal(t, session.StatusError, state.Status, "transport failure during restore is not evidence the credential is bad")
	assert.Equal(t, 0, store.clearCalls)
}

func TestLogoutIsIdempotent(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	store := &mockStore{refresh: "ref"}
	ctrl := session.NewController(api, store)
	require.NoError(t, ctrl.Restore(context.Background()))

	require.NoError(t, ctrl.Logout(context.Background()))
	state := ctrl.Current()
	assert.Equal(t, session.StatusAnonymous, state.Status)
	assert.Nil(t, state.Profile)

	// A second logout leaves the same end state without error.
	require.NoError(t, ctrl.Logout(context.Background()))
	assert.Equal(t, session.StatusAnonymous, ctrl.Current().Status)
	assert.Equal(t, 2, store.clearCalls)
}

func TestSubscribeAndCancel(t *testing.T) {
	api := &mockAPI{profile: studentProfile()}
	ctrl := session.NewController(api, &mockStore{})

	var notifications int
	cancel := ctrl.Subscribe(func(s session.Session) { notifications++ })

	require.NoError(t, ctrl.Login(context.Background(), "student@cesi.fr", "secret123"))
	assert.Greater(t, notifications, 0)

	cancel()
	before := notifications
	require.NoError(t, ctrl.Logout(context.Background()))
	assert.Equal(t, before, notifications, "a cancelled observer receives no further updates")
}
