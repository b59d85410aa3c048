package store

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"vehicleregistry/internal/domain"
	"vehicleregistry/internal/remote"
	"vehicleregistry/internal/remote/remotetest"
	"vehicleregistry/internal/vault"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newSessionFixture(t *testing.T) (*Session, *remotetest.Server, *vault.MemoryVault) {
	t.Helper()
	fake := remotetest.New()
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)

	v := vault.NewMemoryVault()
	client := remote.NewClient(srv.URL, 5*time.Second, v, quietLogger())
	return NewSession(client, v, quietLogger()), fake, v
}

func TestLoginPersistsToken(t *testing.T) {
	session, fake, v := newSessionFixture(t)
	fake.SeedUser("taro", "pw")

	err := session.Login(context.Background(), domain.Credentials{Username: "taro", Password: "pw"})
	require.NoError(t, err)

	token, err := v.Get()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Successfully logged in!", StatusLoginOK)
}

func TestLoginFailureLeavesVaultUntouched(t *testing.T) {
	session, fake, v := newSessionFixture(t)
	fake.SeedUser("taro", "pw")
	require.NoError(t, v.Set("previous"))

	err := session.Login(context.Background(), domain.Credentials{Username: "taro", Password: "wrong"})
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))

	token, err := v.Get()
	require.NoError(t, err)
	require.Equal(t, "previous", token)
	require.Equal(t, "Login error!", StatusLoginError)
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	session, _, v := newSessionFixture(t)

	err := session.Register(context.Background(), domain.Credentials{Username: "hanako", Password: "pw"})
	require.NoError(t, err)

	// Registration issues no token; login is a separate round trip.
	token, err := v.Get()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, session.Login(context.Background(), domain.Credentials{Username: "hanako", Password: "pw"}))
	token, err = v.Get()
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	session, fake, _ := newSessionFixture(t)
	fake.SeedUser("taro", "pw")

	err := session.Register(context.Background(), domain.Credentials{Username: "taro", Password: "other"})
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "Registration error!", StatusRegisterError)
}

func TestFetchProfile(t *testing.T) {
	session, fake, v := newSessionFixture(t)
	fake.SeedToken("tok", "taro")
	require.NoError(t, v.Set("tok"))

	profile, err := session.FetchProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "taro", profile.Username)
	require.Equal(t, profile, session.Profile())
}

func TestFetchProfileFailureKeepsPrevious(t *testing.T) {
	session, fake, v := newSessionFixture(t)
	fake.SeedToken("tok", "taro")
	require.NoError(t, v.Set("tok"))

	first, err := session.FetchProfile(context.Background())
	require.NoError(t, err)

	fake.FailNext(500)
	_, err = session.FetchProfile(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, first, session.Profile())
}

func TestLogoutClearsVaultAndProfile(t *testing.T) {
	session, fake, v := newSessionFixture(t)
	fake.SeedToken("tok", "taro")
	require.NoError(t, v.Set("tok"))

	_, err := session.FetchProfile(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Logout())

	token, err := v.Get()
	require.NoError(t, err)
	require.Empty(t, token)
	require.Equal(t, domain.Profile{}, session.Profile())
}
