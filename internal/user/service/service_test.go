package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spearow/internal/user/models"
	"spearow/internal/user/store"
	pkgerrors "spearow/pkg/errors"
)

func seedUser(t *testing.T, st store.Store, user *models.User) *models.User {
	t.Helper()
	require.NoError(t, st.Create(context.Background(), user))
	return user
}

func Test_Profile(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	seedUser(t, st, &models.User{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		UserType: models.UserTypeAdmin,
		Verified: true,
		IDFile:   "uploaded_ids/jane@example.com_id.png",
	})

	svc := NewService(st)

	profile, err := svc.Profile(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeAdmin, profile.UserType)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.True(t, profile.Verified)
	assert.True(t, profile.HasIDFile)
}

func Test_Profile_UnknownUser(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	_, err := svc.Profile(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func Test_Profile_BackfillsMissingUserType(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	user := seedUser(t, st, &models.User{Name: "Jane", Email: "jane@example.com"})

	svc := NewService(st)

	profile, err := svc.Profile(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeStandard, profile.UserType)

	// The backfill is persisted, not just returned.
	stored, err := st.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeStandard, stored.UserType)
}

func Test_DisplayName(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	seedUser(t, st, &models.User{Name: "Jane Doe", Email: "jane@example.com"})
	seedUser(t, st, &models.User{Email: "john.smith@example.com"})

	svc := NewService(st)

	name, err := svc.DisplayName(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	name, err = svc.DisplayName(ctx, "john.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", name, "nameless accounts derive a name from the email")

	name, err = svc.DisplayName(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func Test_SetAdminStatus(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	user := seedUser(t, st, &models.User{Email: "jane@example.com", UserType: models.UserTypeStandard})

	svc := NewService(st)

	require.NoError(t, svc.SetAdminStatus(ctx, user.ID, true))
	stored, _ := st.GetByID(ctx, user.ID)
	assert.Equal(t, models.UserTypeAdmin, stored.UserType)

	require.NoError(t, svc.SetAdminStatus(ctx, user.ID, false))
	stored, _ = st.GetByID(ctx, user.ID)
	assert.Equal(t, models.UserTypeStandard, stored.UserType)

	err := svc.SetAdminStatus(ctx, uuid.New(), true)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func Test_SetVerifyStatus(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	user := seedUser(t, st, &models.User{Email: "jane@example.com"})

	svc := NewService(st)

	require.NoError(t, svc.SetVerifyStatus(ctx, user.ID, true))
	stored, _ := st.GetByID(ctx, user.ID)
	assert.True(t, stored.Verified)
}
