package authsvc

import (
	"context"
	"testing"
	"time"

	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenFixture(t *testing.T) (*TokenService, *datastore.MemoryStore) {
	t.Helper()
	store := datastore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.InsertUser(ctx, &authmodels.User{ID: 1, Name: "Admin", Role: "admin"}))
	require.NoError(t, store.InsertUser(ctx, &authmodels.User{ID: 2, Name: "Sales", Role: "sales"}))
	require.NoError(t, store.InsertUser(ctx, &authmodels.User{ID: 3, Name: "Blank", Role: ""}))
	svc := NewTokenService("test-secret", time.Hour, store, time.Minute)
	t.Cleanup(svc.Close)
	return svc, store
}

func TestResolveRequester(t *testing.T) {
	svc, _ := newTokenFixture(t)
	ctx := context.Background()

	token, err := svc.Sign(authmodels.User{ID: 1, Role: "admin"})
	require.NoError(t, err)
	r, err := svc.ResolveRequester(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID)
	assert.True(t, r.IsPrivileged())

	// role trong token bị bỏ qua, đọc từ bản ghi user
	token, err = svc.Sign(authmodels.User{ID: 2, Role: "SuperAdmin"})
	require.NoError(t, err)
	r, err = svc.ResolveRequester(ctx, token)
	require.NoError(t, err)
	assert.False(t, r.IsPrivileged())
}

func TestResolveRequester_Failures(t *testing.T) {
	svc, _ := newTokenFixture(t)
	ctx := context.Background()

	_, err := svc.ResolveRequester(ctx, "")
	assert.ErrorIs(t, err, common.ErrTokenMissing)

	_, err = svc.ResolveRequester(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	other := NewTokenService("other-secret", time.Hour, datastore.NewMemoryStore(), 0)
	forged, err := other.Sign(authmodels.User{ID: 1})
	require.NoError(t, err)
	_, err = svc.ResolveRequester(ctx, forged)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	ghost, err := svc.Sign(authmodels.User{ID: 99})
	require.NoError(t, err)
	_, err = svc.ResolveRequester(ctx, ghost)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	assert.Equal(t, common.StatusUnauthorized, common.StatusOf(err))

	blank, err := svc.Sign(authmodels.User{ID: 3})
	require.NoError(t, err)
	_, err = svc.ResolveRequester(ctx, blank)
	assert.ErrorIs(t, err, common.ErrUnknownRole)
}

func TestParse_Expired(t *testing.T) {
	svc, _ := newTokenFixture(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Sign(authmodels.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	svc, _ := newTokenFixture(t)
	claims := authmodels.JwtToken{UserID: 1, StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Parse(raw)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

type countingUsers struct {
	datastore.UserReader
	calls int
}

func (c *countingUsers) GetUser(ctx context.Context, id int64) (*authmodels.User, error) {
	c.calls++
	return c.UserReader.GetUser(ctx, id)
}

func TestResolveRequester_CachesRoleLookup(t *testing.T) {
	_, store := newTokenFixture(t)
	users := &countingUsers{UserReader: store}
	svc := NewTokenService("test-secret", time.Hour, users, time.Minute)
	defer svc.Close()

	token, err := svc.Sign(authmodels.User{ID: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.ResolveRequester(context.Background(), token)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, users.calls)

	svc.Invalidate(2)
	_, err = svc.ResolveRequester(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 2, users.calls)
}
