package auth

import (
	"testing"
	"time"

	"github.com/lostlink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator_RoundTrip(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)
	user := &models.User{ID: "U1", UserName: "Alice", Role: models.RoleStandard}

	token, err := tg.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tg.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "U1", identity.UserID)
	assert.Equal(t, "Alice", identity.UserName)
	assert.Equal(t, models.RoleStandard, identity.Role)
}

func TestTokenGenerator_Expired(t *testing.T) {
	tg := NewTokenGenerator("test-secret", -time.Second)

	token, err := tg.Generate(&models.User{ID: "U1", UserName: "Alice", Role: models.RoleStandard})
	require.NoError(t, err)

	_, err = tg.Verify(token)
	assert.Error(t, err)
}

func TestTokenGenerator_WrongSecret(t *testing.T) {
	tg := NewTokenGenerator("right-secret", time.Hour)

	token, err := tg.Generate(&models.User{ID: "U1", UserName: "Alice", Role: models.RoleStandard})
	require.NoError(t, err)

	_, err = NewTokenGenerator("wrong-secret", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenGenerator_Garbage(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	_, err := tg.Verify("not-a-token")
	assert.Error(t, err)
}

func TestIdentity_CanModify(t *testing.T) {
	owner := Identity{UserID: "U1", Role: models.RoleStandard}
	stranger := Identity{UserID: "U2", Role: models.RoleStandard}
	admin := Identity{UserID: "U3", Role: models.RoleAdmin}

	assert.True(t, owner.CanModify("U1"))
	assert.False(t, stranger.CanModify("U1"))
	assert.True(t, admin.CanModify("U1"))
}
