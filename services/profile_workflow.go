package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"pg-portal/config"
	"pg-portal/models"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// MealOptions are the meal preferences a tenant can pick.
var MealOptions = []string{models.MealVeg, models.MealNonVeg}

// ProfileForm holds the editable controls of the profile page.
type ProfileForm struct {
	Phone          string `json:"phone"`
	MealPreference string `json:"mealPreference"`
	IsActive       bool   `json:"isActive"`
	ContinuousStay bool   `json:"continuousStay"`
}

// ProfileView is a snapshot of the profile page.
type ProfileView struct {
	User                   *models.Tenant `json:"user"`
	AccountStatus          string         `json:"accountStatus"`
	Form                   ProfileForm    `json:"form"`
	MealOptions            []string       `json:"mealOptions"`
	Loading                bool           `json:"loading"`
	StatusUpdating         bool           `json:"statusUpdating"`
	MealUpdating           bool           `json:"mealUpdating"`
	PhoneSaving            bool           `json:"phoneSaving"`
	ContinuousStayUpdating bool           `json:"continuousStayUpdating"`
}

// ProfileWorkflow lets the signed-in tenant edit their own profile.
// Every successful write is merged into the tenant session and persisted.
type ProfileWorkflow struct {
	session  *TenantSession
	tenants  TenantAPI
	muts     *MutationController
	notifier Notifier

	mu      sync.Mutex
	form    ProfileForm
	loading bool
	fetched bool
	owner   string // tenant the form belongs to
}

func NewProfileWorkflow(session *TenantSession, tenants TenantAPI, muts *MutationController, notifier Notifier) *ProfileWorkflow {
	w := &ProfileWorkflow{session: session, tenants: tenants, muts: muts, notifier: notifier}
	session.Subscribe(func(t *models.Tenant, _ bool) {
		if t == nil {
			w.mu.Lock()
			w.form = ProfileForm{}
			w.fetched = false
			w.owner = ""
			w.mu.Unlock()
			return
		}
		w.mu.Lock()
		if t.ID != w.owner {
			w.fetched = false
			w.owner = t.ID
		}
		w.mu.Unlock()
		w.syncForm(t)
	})
	return w
}

func profileKey(id, field string) string {
	return "profile:" + id + ":" + field
}

func (w *ProfileWorkflow) syncForm(t *models.Tenant) {
	w.mu.Lock()
	w.form = ProfileForm{
		Phone:          t.Phone,
		MealPreference: t.MealPreference,
		IsActive:       t.IsActive,
		ContinuousStay: t.ContinuousStay,
	}
	w.mu.Unlock()
}

func (w *ProfileWorkflow) setForm(fn func(*ProfileForm)) {
	w.mu.Lock()
	fn(&w.form)
	w.mu.Unlock()
}

func (w *ProfileWorkflow) isLoading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// View returns the page state. The first call loads the latest profile from the backend.
func (w *ProfileWorkflow) View(ctx context.Context) ProfileView {
	w.mu.Lock()
	first := !w.fetched
	w.fetched = true
	w.mu.Unlock()

	user := w.session.Current()
	if first && user != nil && user.Email != "" {
		w.fetchLatest(ctx, user.Email, false)
		user = w.session.Current()
	}

	w.mu.Lock()
	view := ProfileView{User: user, Form: w.form, MealOptions: MealOptions, Loading: w.loading}
	w.mu.Unlock()

	view.AccountStatus = "Inactive"
	if user != nil {
		if user.IsActive {
			view.AccountStatus = "Active"
		}
		view.StatusUpdating = w.muts.Busy(profileKey(user.ID, "status"))
		view.MealUpdating = w.muts.Busy(profileKey(user.ID, "meal"))
		view.PhoneSaving = w.muts.Busy(profileKey(user.ID, "phone"))
		view.ContinuousStayUpdating = w.muts.Busy(profileKey(user.ID, "stay"))
	}
	return view
}

// Refresh reloads the profile by email and reports the outcome.
func (w *ProfileWorkflow) Refresh(ctx context.Context) bool {
	user := w.session.Current()
	if user == nil || user.Email == "" {
		w.notifier.Notify(models.LevelInfo, "ℹ️ No profile email available to refresh.")
		return false
	}
	return w.fetchLatest(ctx, user.Email, true)
}

func (w *ProfileWorkflow) fetchLatest(ctx context.Context, email string, announce bool) bool {
	w.mu.Lock()
	w.loading = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.loading = false
		w.mu.Unlock()
	}()

	tenant, err := w.tenants.GetByEmail(ctx, email)
	if err != nil {
		config.Log.WithError(err).Error("🌐 Failed to load profile from server")
		if announce {
			w.notifier.Notify(models.LevelError, "❌ Unable to refresh profile.")
		}
		return false
	}
	if tenant == nil {
		return false
	}

	if err := w.store(ctx, tenant); err != nil {
		return false
	}
	if announce {
		w.notifier.Notify(models.LevelSuccess, "🔄 Profile refreshed.")
	}
	return true
}

// store makes t the session identity, persists it and syncs the form.
func (w *ProfileWorkflow) store(ctx context.Context, t *models.Tenant) error {
	normalized, err := w.session.SetCurrent(t)
	if err != nil {
		return err
	}
	if err := w.session.Persist(ctx, normalized); err != nil {
		config.Log.WithError(err).Error("❌ Failed to persist profile")
		return err
	}
	w.syncForm(normalized)
	return nil
}

func (w *ProfileWorkflow) merge(ctx context.Context, updated *models.Tenant) {
	merged := MergeTenant(w.session.Current(), updated)
	_ = w.store(ctx, merged)
}

func (w *ProfileWorkflow) incomplete() error {
	return &ValidationError{
		Message: "Tenant information is incomplete.",
		Notice:  "⚠️ Tenant information is incomplete.",
	}
}

// ToggleActive turns the tenant's meal status on or off.
func (w *ProfileWorkflow) ToggleActive(ctx context.Context, active bool) MutationResult[*models.Tenant] {
	user := w.session.Current()
	id := ""
	if user != nil {
		id = user.ID
	}
	state := "deactivated"
	if active {
		state = "activated"
	}

	return RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: profileKey(id, "status"),
		Validate: func() error {
			if id == "" {
				return w.incomplete()
			}
			if user.IsActive == active {
				return ErrNoChange
			}
			return nil
		},
		Apply: func() { w.setForm(func(f *ProfileForm) { f.IsActive = active }) },
		Call: func(ctx context.Context) (*models.Tenant, error) {
			return w.tenants.UpdateStatus(ctx, id, active)
		},
		Commit:  func(t *models.Tenant) { w.merge(ctx, t) },
		Revert:  func(error) { w.setForm(func(f *ProfileForm) { f.IsActive = user.IsActive }) },
		Success: fmt.Sprintf("✅ Meal status %s.", state),
		Failure: "❌ Unable to update status. Please try again.",
	})
}

// blocked reports whether meal and phone edits must wait for a load or a continuous-stay write.
func (w *ProfileWorkflow) blocked(id string) bool {
	return w.isLoading() || w.muts.Busy(profileKey(id, "stay"))
}

// ChangeMealPreference switches between Veg and Non-Veg.
func (w *ProfileWorkflow) ChangeMealPreference(ctx context.Context, preference string) MutationResult[*models.Tenant] {
	user := w.session.Current()
	if user == nil || user.ID == "" || w.blocked(user.ID) {
		return MutationResult[*models.Tenant]{State: MutationSkipped}
	}
	previous := user.MealPreference

	return RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: profileKey(user.ID, "meal"),
		Validate: func() error {
			if preference != models.MealVeg && preference != models.MealNonVeg {
				return invalid("Choose %s.", strings.Join(MealOptions, " or "))
			}
			if preference == previous {
				return ErrNoChange
			}
			return nil
		},
		Apply: func() { w.setForm(func(f *ProfileForm) { f.MealPreference = preference }) },
		Call: func(ctx context.Context) (*models.Tenant, error) {
			return w.tenants.UpdateProfile(ctx, user.ID, models.ProfileUpdate{MealPreference: &preference})
		},
		Commit:  func(t *models.Tenant) { w.merge(ctx, t) },
		Revert:  func(error) { w.setForm(func(f *ProfileForm) { f.MealPreference = previous }) },
		Success: "🍽️ Meal preference updated.",
		Failure: "🍽️ Unable to update meal preference. Please try again.",
	})
}

// ToggleContinuousStay switches the continuous-stay flag.
func (w *ProfileWorkflow) ToggleContinuousStay(ctx context.Context, enabled bool) MutationResult[*models.Tenant] {
	user := w.session.Current()
	id := ""
	if user != nil {
		id = user.ID
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}

	return RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: profileKey(id, "stay"),
		Validate: func() error {
			if id == "" {
				return w.incomplete()
			}
			if user.ContinuousStay == enabled {
				return ErrNoChange
			}
			return nil
		},
		Apply: func() { w.setForm(func(f *ProfileForm) { f.ContinuousStay = enabled }) },
		Call: func(ctx context.Context) (*models.Tenant, error) {
			return w.tenants.UpdateProfile(ctx, id, models.ProfileUpdate{ContinuousStay: &enabled})
		},
		Commit:  func(t *models.Tenant) { w.merge(ctx, t) },
		Revert:  func(error) { w.setForm(func(f *ProfileForm) { f.ContinuousStay = user.ContinuousStay }) },
		Success: fmt.Sprintf("🛏️ Continuous stay %s.", state),
		Failure: "🛏️ Unable to update continuous stay. Please try again.",
	})
}

// ValidPhone reports whether phone is exactly ten digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// SavePhone stores a new ten digit phone number.
func (w *ProfileWorkflow) SavePhone(ctx context.Context, phone string) MutationResult[*models.Tenant] {
	user := w.session.Current()
	if user == nil || user.ID == "" || w.blocked(user.ID) {
		return MutationResult[*models.Tenant]{State: MutationSkipped}
	}
	phone = strings.TrimSpace(phone)

	return RunMutation(ctx, w.muts, Mutation[*models.Tenant]{
		Key: profileKey(user.ID, "phone"),
		Validate: func() error {
			if !ValidPhone(phone) {
				return invalid("Phone number must be exactly 10 digits.")
			}
			if phone == user.Phone {
				return ErrNoChange
			}
			return nil
		},
		Apply: func() { w.setForm(func(f *ProfileForm) { f.Phone = phone }) },
		Call: func(ctx context.Context) (*models.Tenant, error) {
			return w.tenants.UpdateProfile(ctx, user.ID, models.ProfileUpdate{Phone: &phone})
		},
		Commit:  func(t *models.Tenant) { w.merge(ctx, t) },
		Revert:  func(error) { w.setForm(func(f *ProfileForm) { f.Phone = user.Phone }) },
		Success: "☎️ Phone number updated.",
		Failure: "☎️ Unable to update phone number. Please try again.",
	})
}
