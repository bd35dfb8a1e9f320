package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

// Settings is what the account settings page renders.
type Settings struct {
	Profile    *models.UserProfile    `json:"profile"`
	Statistics *models.UserStatistics `json:"statistics,omitempty"`
}

// Service covers the customer directory and per-user account settings.
type Service interface {
	ListCustomers(ctx context.Context, query string) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	CustomerByUserID(ctx context.Context, userID int) (*models.Customer, error)
	EmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error)

	Settings(ctx context.Context, userID int) (*Settings, error)
	UpdateProfile(ctx context.Context, userID int, input models.ProfileUpdate) (*models.UserProfile, error)
	ChangeUsername(ctx context.Context, sessionID string, userID int, input models.UsernameUpdate) (*models.ActionResult, error)
	ChangePassword(ctx context.Context, userID int, input models.PasswordChange) (*models.ActionResult, error)
}

type backend interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	GetCustomerByUserID(ctx context.Context, userID int) (*models.Customer, error)
	GetEmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error)
	GetUserProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	GetUserStatistics(ctx context.Context, userID int) (*models.UserStatistics, error)
	UpdateUserProfile(ctx context.Context, userID int, in models.ProfileUpdate) (*models.UserProfile, error)
	UpdateUsername(ctx context.Context, userID int, in models.UsernameUpdate) (*models.ActionResult, error)
	ChangePassword(ctx context.Context, userID int, in models.PasswordChange) (*models.ActionResult, error)
}

// usernameRecorder keeps the session's cached username in step with the
// backend after a rename.
type usernameRecorder interface {
	SetUsername(ctx context.Context, sessionID, username string) error
}

type service struct {
	backend  backend
	sessions usernameRecorder
	validate *validator.Validate
	logg     *logger.Logger
}

func NewService(b backend, sessions usernameRecorder, logg *logger.Logger) (Service, error) {
	if b == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: b, sessions: sessions, validate: validator.New(), logg: logg}, nil
}

// ListCustomers returns every customer, narrowed by a case-insensitive match
// on name, email, phone or username when query is non-empty.
func (s *service) ListCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	all, err := s.backend.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return Search(all, query), nil
}

func (s *service) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id must be positive")
	}
	return s.backend.GetCustomer(ctx, id)
}

func (s *service) CustomerByUserID(ctx context.Context, userID int) (*models.Customer, error) {
	return s.backend.GetCustomerByUserID(ctx, userID)
}

func (s *service) EmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error) {
	return s.backend.GetEmployeeByUserID(ctx, userID)
}

// Settings loads the profile. Statistics are optional and dropped on error.
func (s *service) Settings(ctx context.Context, userID int) (*Settings, error) {
	profile, err := s.backend.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &Settings{Profile: profile}
	stats, err := s.backend.GetUserStatistics(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, fmt.Sprint(userID)), "user statistics unavailable")
		return out, nil
	}
	out.Statistics = stats
	return out, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int, input models.ProfileUpdate) (*models.UserProfile, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	return s.backend.UpdateUserProfile(ctx, userID, input)
}

// ChangeUsername renames the account and then updates the session so the
// header shows the new name without a fresh login.
func (s *service) ChangeUsername(ctx context.Context, sessionID string, userID int, input models.UsernameUpdate) (*models.ActionResult, error) {
	input.NewUsername = strings.TrimSpace(input.NewUsername)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	res, err := s.backend.UpdateUsername(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SetUsername(ctx, sessionID, input.NewUsername); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, fmt.Sprint(userID)), "username changed")
	return res, nil
}

func (s *service) ChangePassword(ctx context.Context, userID int, input models.PasswordChange) (*models.ActionResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	if input.CurrentPassword == input.NewPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new password must differ from the current one").
			WithDetails(map[string]string{"new_password": "must differ from current_password"})
	}
	return s.backend.ChangePassword(ctx, userID, input)
}

// Search filters customers by a case-insensitive substring.
func Search(all []models.Customer, query string) []models.Customer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	out := make([]models.Customer, 0)
	for _, c := range all {
		fields := []string{c.FirstName, c.LastName, deref(c.Email), deref(c.PhoneNumber), deref(c.Username)}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), query) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var fieldMessages = map[string]string{
	"required": "is required",
	"min":      "is too short",
	"max":      "is too long",
	"email":    "must be a valid email",
	"eqfield":  "does not match",
}

func validationError(err error) error {
	details := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			details[fe.Field()] = msg
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid input").WithDetails(details)
}
