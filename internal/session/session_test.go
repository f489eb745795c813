package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "crio.do",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return signed
}

func TestSession_Authenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.True(t, Session{Token: "tok"}.Authenticated())
}

func TestSession_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(6 * time.Hour).Truncate(time.Second)
	s := Session{Token: signedToken(t, exp)}

	// The client never holds the signing key; expiry comes from an
	// unverified decode.
	assert.WithinDuration(t, exp, s.ExpiresAt(), time.Second)
}

func TestSession_ExpiresAt_Garbage(t *testing.T) {
	assert.True(t, Session{}.ExpiresAt().IsZero())
	assert.True(t, Session{Token: "not-a-jwt"}.ExpiresAt().IsZero())
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "session.json"))
	want := Session{Token: "tok", Username: "shopper", Balance: 5000}

	require.NoError(t, st.Save(want))

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_Load_NoSession(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Load_EmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"username":"shopper"}`), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Clear(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, st.Save(Session{Token: "tok"}))

	require.NoError(t, st.Clear())
	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is fine.
	require.NoError(t, st.Clear())
}
