package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pg-portal/models"
	"pg-portal/storage"
)

type profileFixture struct {
	w        *ProfileWorkflow
	session  *TenantSession
	api      *fakeTenantAPI
	kv       *storage.MemoryStore
	notifier *recordingNotifier
	muts     *MutationController
}

func newProfile(t *testing.T, tenant *models.Tenant) profileFixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	session := NewTenantSession(ctx, kv, NewTokenValidator(clockAt(fixedNow)))
	if tenant != nil {
		_, err := session.Establish(ctx, validToken(), tenant)
		require.NoError(t, err)
	}
	api := &fakeTenantAPI{}
	if tenant != nil {
		api.tenants = []*models.Tenant{tenant.Clone()}
	}
	notifier := &recordingNotifier{}
	muts := NewMutationController(notifier)
	return profileFixture{
		w:        NewProfileWorkflow(session, api, muts, notifier),
		session:  session,
		api:      api,
		kv:       kv,
		notifier: notifier,
		muts:     muts,
	}
}

func asha() *models.Tenant {
	return &models.Tenant{ID: "t1", Name: "Asha", Email: "asha@x.io", Phone: "9876543210", MealPreference: models.MealVeg}
}

func TestProfileViewLoadsLatestOnce(t *testing.T) {
	f := newProfile(t, asha())
	f.api.tenants[0].Phone = "9000000000"

	view := f.w.View(context.Background())
	assert.Equal(t, "9000000000", view.User.Phone)
	assert.Equal(t, "9000000000", view.Form.Phone)
	assert.Equal(t, "Inactive", view.AccountStatus)
	assert.Equal(t, []string{"Veg", "Non-Veg"}, view.MealOptions)

	f.api.tenants[0].Phone = "9111111111"
	assert.Equal(t, "9000000000", f.w.View(context.Background()).User.Phone)
}

func TestProfileRefresh(t *testing.T) {
	f := newProfile(t, asha())
	assert.True(t, f.w.Refresh(context.Background()))
	assert.Equal(t, "🔄 Profile refreshed.", f.notifier.last().Message)

	f.api.byEmailErr = errBackend
	assert.False(t, f.w.Refresh(context.Background()))
	assert.Equal(t, recordedNotice{models.LevelError, "❌ Unable to refresh profile."}, f.notifier.last())

	empty := newProfile(t, nil)
	assert.False(t, empty.w.Refresh(context.Background()))
	assert.Equal(t, models.LevelInfo, empty.notifier.last().Level)
}

func TestProfileToggleActivePersists(t *testing.T) {
	f := newProfile(t, asha())
	ctx := context.Background()

	res := f.w.ToggleActive(ctx, true)

	require.Equal(t, MutationCommitted, res.State)
	assert.True(t, f.session.Current().IsActive)
	assert.Equal(t, "✅ Meal status activated.", f.notifier.last().Message)
	raw, _, err := f.kv.Get(ctx, storage.KeyTenantUser)
	require.NoError(t, err)
	assert.Contains(t, raw, `"isActive":true`)

	assert.Equal(t, MutationSkipped, f.w.ToggleActive(ctx, true).State)
}

func TestProfileToggleActiveWithoutIdentity(t *testing.T) {
	f := newProfile(t, nil)

	res := f.w.ToggleActive(context.Background(), true)

	assert.Equal(t, MutationRejected, res.State)
	assert.Equal(t, recordedNotice{models.LevelWarning, "⚠️ Tenant information is incomplete."}, f.notifier.last())
	assert.Empty(t, f.api.statusUpdates)
}

func TestProfileChangeMealPreference(t *testing.T) {
	f := newProfile(t, asha())
	ctx := context.Background()

	assert.EqualError(t, f.w.ChangeMealPreference(ctx, "Vegan").Err, "Choose Veg or Non-Veg.")
	assert.Equal(t, MutationSkipped, f.w.ChangeMealPreference(ctx, models.MealVeg).State)

	res := f.w.ChangeMealPreference(ctx, models.MealNonVeg)
	require.Equal(t, MutationCommitted, res.State)
	assert.Equal(t, models.MealNonVeg, f.session.Current().MealPreference)
	assert.Equal(t, models.MealNonVeg, f.w.View(ctx).Form.MealPreference)
}

func TestProfileChangeMealPreferenceRevertsForm(t *testing.T) {
	f := newProfile(t, asha())
	f.api.updateErr = errBackend
	ctx := context.Background()

	res := f.w.ChangeMealPreference(ctx, models.MealNonVeg)

	assert.Equal(t, MutationRolledBack, res.State)
	assert.Equal(t, models.MealVeg, f.session.Current().MealPreference)
	assert.Equal(t, models.MealVeg, f.w.View(ctx).Form.MealPreference)
}

func TestProfileMealBlockedWhileStayUpdates(t *testing.T) {
	f := newProfile(t, asha())
	require.True(t, f.muts.acquire(profileKey("t1", "stay")))
	defer f.muts.release(profileKey("t1", "stay"))

	assert.Equal(t, MutationSkipped, f.w.ChangeMealPreference(context.Background(), models.MealNonVeg).State)
	assert.Equal(t, MutationSkipped, f.w.SavePhone(context.Background(), "9000000000").State)
	assert.Empty(t, f.api.profileUpdates)
}

func TestProfileToggleContinuousStay(t *testing.T) {
	f := newProfile(t, asha())

	res := f.w.ToggleContinuousStay(context.Background(), true)

	require.Equal(t, MutationCommitted, res.State)
	assert.True(t, f.session.Current().ContinuousStay)
	assert.Equal(t, "🛏️ Continuous stay enabled.", f.notifier.last().Message)
}

func TestProfileSavePhone(t *testing.T) {
	f := newProfile(t, asha())
	ctx := context.Background()

	assert.EqualError(t, f.w.SavePhone(ctx, "12345").Err, "Phone number must be exactly 10 digits.")
	assert.Equal(t, MutationSkipped, f.w.SavePhone(ctx, "9876543210").State)

	res := f.w.SavePhone(ctx, " 9000000001 ")
	require.Equal(t, MutationCommitted, res.State)
	assert.Equal(t, "9000000001", f.session.Current().Phone)

	f.api.updateErr = errBackend
	failed := f.w.SavePhone(ctx, "9000000002")
	assert.Equal(t, MutationRolledBack, failed.State)
	assert.Equal(t, "9000000001", f.w.View(ctx).Form.Phone)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("0123456789"))
	assert.False(t, ValidPhone("012345678"))
	assert.False(t, ValidPhone("01234567890"))
	assert.False(t, ValidPhone("01234abcde"))
}

type statusObserver struct {
	*fakeTenantAPI
	seen func()
}

func (o *statusObserver) UpdateStatus(ctx context.Context, id string, active bool) (*models.Tenant, error) {
	o.seen()
	return o.fakeTenantAPI.UpdateStatus(ctx, id, active)
}

func TestProfileToggleActiveAppliesThenReverts(t *testing.T) {
	f := newProfile(t, asha())
	f.api.updateErr = errBackend
	ctx := context.Background()

	var during ProfileForm
	observer := &statusObserver{fakeTenantAPI: f.api}
	w := NewProfileWorkflow(f.session, observer, f.muts, f.notifier)
	observer.seen = func() { during = w.View(ctx).Form }
	w.View(ctx)

	res := w.ToggleActive(ctx, true)

	assert.Equal(t, MutationRolledBack, res.State)
	assert.True(t, during.IsActive)
	assert.False(t, w.View(ctx).Form.IsActive)
	assert.False(t, f.session.Current().IsActive)
}

func TestProfileToggleContinuousStayRevertsForm(t *testing.T) {
	f := newProfile(t, asha())
	ctx := context.Background()

	require.Equal(t, MutationCommitted, f.w.ToggleContinuousStay(ctx, true).State)
	assert.True(t, f.w.View(ctx).Form.ContinuousStay)

	f.api.updateErr = errBackend
	assert.Equal(t, MutationRolledBack, f.w.ToggleContinuousStay(ctx, false).State)
	assert.True(t, f.w.View(ctx).Form.ContinuousStay)
	assert.True(t, f.session.Current().ContinuousStay)
}

func TestProfileLogoutResetsFormAndReloadsNextTenant(t *testing.T) {
	f := newProfile(t, asha())
	ctx := context.Background()
	f.w.View(ctx)

	require.NoError(t, f.session.Logout(ctx))
	assert.Equal(t, ProfileForm{}, f.w.View(ctx).Form)

	bob := &models.Tenant{ID: "t2", Name: "Bob", Email: "bob@x.io", Phone: "1111111111"}
	f.api.tenants = append(f.api.tenants, &models.Tenant{ID: "t2", Name: "Bob", Email: "bob@x.io", Phone: "2222222222"})
	_, err := f.session.Establish(ctx, validToken(), bob)
	require.NoError(t, err)

	view := f.w.View(ctx)
	assert.Equal(t, "2222222222", view.User.Phone)
	assert.Equal(t, "2222222222", view.Form.Phone)
}
