package customers

import (
	"context"
	"testing"

	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	customers []models.Customer
	statsErr  error
	renamed   []models.UsernameUpdate
	renameErr error
	passwords int
}

func (s *stubBackend) ListCustomers(context.Context) ([]models.Customer, error) {
	return s.customers, nil
}

func (s *stubBackend) GetCustomer(_ context.Context, id int) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (s *stubBackend) GetCustomerByUserID(_ context.Context, userID int) (*models.Customer, error) {
	return &models.Customer{ID: userID * 10}, nil
}

func (s *stubBackend) GetEmployeeByUserID(_ context.Context, userID int) (*models.Employee, error) {
	return &models.Employee{ID: 1, UserID: userID}, nil
}

func (s *stubBackend) GetUserProfile(_ context.Context, userID int) (*models.UserProfile, error) {
	return &models.UserProfile{UserID: userID, Username: "ada"}, nil
}

func (s *stubBackend) GetUserStatistics(context.Context, int) (*models.UserStatistics, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &models.UserStatistics{TotalOrders: 3, CompletedOrders: 1}, nil
}

func (s *stubBackend) UpdateUserProfile(_ context.Context, userID int, _ models.ProfileUpdate) (*models.UserProfile, error) {
	return &models.UserProfile{UserID: userID}, nil
}

func (s *stubBackend) UpdateUsername(_ context.Context, _ int, in models.UsernameUpdate) (*models.ActionResult, error) {
	if s.renameErr != nil {
		return nil, s.renameErr
	}
	s.renamed = append(s.renamed, in)
	return &models.ActionResult{Message: "Username updated"}, nil
}

func (s *stubBackend) ChangePassword(context.Context, int, models.PasswordChange) (*models.ActionResult, error) {
	s.passwords++
	return &models.ActionResult{Message: "Password changed"}, nil
}

type recordingSessions struct {
	names map[string]string
}

func (r *recordingSessions) SetUsername(_ context.Context, sessionID, username string) error {
	r.names[sessionID] = username
	return nil
}

func newTestService(t *testing.T, b *stubBackend) (Service, *recordingSessions) {
	t.Helper()
	sessions := &recordingSessions{names: map[string]string{}}
	svc, err := NewService(b, sessions, nil)
	require.NoError(t, err)
	return svc, sessions
}

func strPtr(s string) *string { return &s }

func TestSearch(t *testing.T) {
	all := []models.Customer{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: strPtr("ada@example.com")},
		{ID: 2, FirstName: "Alan", LastName: "Turing", PhoneNumber: strPtr("555-0100")},
		{ID: 3, FirstName: "Grace", LastName: "Hopper", Username: strPtr("ghopper")},
	}
	assert.Len(t, Search(all, ""), 3)
	assert.Equal(t, 1, Search(all, "LOVE")[0].ID)
	assert.Equal(t, 2, Search(all, "0100")[0].ID)
	assert.Equal(t, 3, Search(all, "ghop")[0].ID)
	assert.Empty(t, Search(all, "nobody"))
}

func TestSettingsToleratesMissingStatistics(t *testing.T) {
	b := &stubBackend{statsErr: pkgerrors.New(pkgerrors.CodeDependency, "down")}
	svc, _ := newTestService(t, b)

	settings, err := svc.Settings(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Profile.UserID)
	assert.Nil(t, settings.Statistics)
}

func TestChangeUsernameUpdatesSession(t *testing.T) {
	b := &stubBackend{}
	svc, sessions := newTestService(t, b)

	_, err := svc.ChangeUsername(context.Background(), "sid", 4, models.UsernameUpdate{NewUsername: "  grace  "})
	require.NoError(t, err)
	assert.Equal(t, "grace", b.renamed[0].NewUsername)
	assert.Equal(t, "grace", sessions.names["sid"])

	_, err = svc.ChangeUsername(context.Background(), "sid", 4, models.UsernameUpdate{NewUsername: "ab"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	b.renameErr = pkgerrors.New(pkgerrors.CodeConflict, "Username already taken")
	_, err = svc.ChangeUsername(context.Background(), "sid", 4, models.UsernameUpdate{NewUsername: "turing"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, "grace", sessions.names["sid"], "session keeps the old name when the backend refuses")
}

func TestChangePasswordValidation(t *testing.T) {
	b := &stubBackend{}
	svc, _ := newTestService(t, b)
	ctx := context.Background()

	cases := []struct {
		name  string
		input models.PasswordChange
		field string
	}{
		{"mismatch", models.PasswordChange{CurrentPassword: "old-secret", NewPassword: "new-secret1", ConfirmPassword: "new-secret2"}, "ConfirmPassword"},
		{"too short", models.PasswordChange{CurrentPassword: "old-secret", NewPassword: "short", ConfirmPassword: "short"}, "NewPassword"},
		{"unchanged", models.PasswordChange{CurrentPassword: "same-secret", NewPassword: "same-secret", ConfirmPassword: "same-secret"}, "new_password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ChangePassword(ctx, 4, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Contains(t, typed.Details(), tc.field)
		})
	}

	_, err := svc.ChangePassword(ctx, 4, models.PasswordChange{CurrentPassword: "old-secret", NewPassword: "new-secret1", ConfirmPassword: "new-secret1"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.passwords)
}
