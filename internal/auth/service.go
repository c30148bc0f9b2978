package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
)

// Store is the account and session part of storage.Storage.
type Store interface {
	RegisterAccount(ctx context.Context, user *models.User, profile *models.Profile, student *models.Student, roles ...models.AppRole) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUserEmail(ctx context.Context, userID, email string) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	AddRole(ctx context.Context, userID string, role models.AppRole) error
	GetUserRoles(ctx context.Context, userID string) ([]models.AppRole, error)

	SaveSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	SessionActive(ctx context.Context, jti string) (bool, error)
	RevokeSession(ctx context.Context, jti string) error
}

// Publisher receives auth-state changes.
type Publisher interface {
	Publish(ctx context.Context, event models.AuthEvent)
}

// Service owns sign-up, sign-in and the session lifecycle.
type Service struct {
	Store  Store
	Events Publisher
	Secret string
	Logger *zap.Logger
	now    func() time.Time
}

// NewService builds an auth service. events may be nil.
func NewService(store Store, events Publisher, secret string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:  store,
		Events: events,
		Secret: secret,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SignUpInput is the registration form.
type SignUpInput struct {
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	RollNumber      string `json:"roll_number"`
	Program         string `json:"program,omitempty"`
	ContactNumber   string `json:"contact_number,omitempty"`
}

// Validate applies the form checks in order: email, phone, confirmation, length.
func (in SignUpInput) Validate() error {
	if !ValidEmail(in.Email) {
		return ErrInvalidEmail
	}
	if in.ContactNumber != "" && !phonePattern.MatchString(in.ContactNumber) {
		return ErrInvalidPhone
	}
	if err := checkNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return err
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.RollNumber) == "" {
		return ErrMissingField
	}
	return nil
}

// ValidEmail applies the loose address check used by every account form.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < config.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SignUp registers a student account. It does not sign the user in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: normalizeEmail(in.Email), PasswordHash: hash}
	profile := &models.Profile{FullName: optional(in.FullName), Username: optional(in.Username)}
	student := &models.Student{
		RollNumber:    strings.TrimSpace(in.RollNumber),
		Program:       optional(in.Program),
		ContactNumber: optional(in.ContactNumber),
	}

	if err := s.Store.RegisterAccount(ctx, user, profile, student, models.RoleStudent); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Session is what a successful sign-in returns.
type Session struct {
	Token     string           `json:"token"`
	UserID    string           `json:"user_id"`
	Email     string           `json:"email"`
	Roles     []models.AppRole `json:"roles"`
	Route     string           `json:"route"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// SignIn checks credentials, stores a session and announces SIGNED_IN.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventSignedIn, user.ID, session.Route)
	s.Logger.Info("user signed in", zap.String("user_id", user.ID))
	return session, nil
}

func (s *Service) issue(ctx context.Context, userID, email string) (*Session, error) {
	roles, err := s.Store.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, claims, err := GenerateToken(userID, roles, s.Secret, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Store.SaveSession(ctx, claims.ID, userID, config.SessionDuration); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		Email:     email,
		Roles:     roles,
		Route:     DashboardRoute(roles),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate validates a token and its session record.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := ParseToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	active, err := s.Store.SessionActive(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrSessionRevoked
	}

	// Roles in the token are a sign-in snapshot; guards use the current rows.
	roles, err := s.Store.GetUserRoles(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	claims.Roles = roles
	return claims, nil
}

// SignOut revokes the session and announces SIGNED_OUT.
func (s *Service) SignOut(ctx context.Context, claims *Claims) error {
	if err := s.Store.RevokeSession(ctx, claims.ID); err != nil {
		return err
	}
	s.publish(ctx, models.EventSignedOut, claims.UserID, config.RouteAuth)
	s.Logger.Info("user signed out", zap.String("user_id", claims.UserID))
	return nil
}

// Refresh swaps a live token for a new one with current roles.
func (s *Service) Refresh(ctx context.Context, claims *Claims) (*Session, error) {
	user, err := s.Store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	session, err := s.issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.Store.RevokeSession(ctx, claims.ID); err != nil {
		s.Logger.Warn("failed to revoke refreshed session", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.publish(ctx, models.EventTokenRefreshed, user.ID, session.Route)
	return session, nil
}

// UpdateEmail changes the sign-in address.
func (s *Service) UpdateEmail(ctx context.Context, claims *Claims, email string) error {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if err := s.Store.UpdateUserEmail(ctx, claims.UserID, normalizeEmail(email)); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return ErrEmailTaken
		}
		return err
	}
	s.publish(ctx, models.EventUserUpdated, claims.UserID, DashboardRoute(claims.Roles))
	return nil
}

// UpdatePassword replaces the password after the same checks as sign-up.
func (s *Service) UpdatePassword(ctx context.Context, claims *Claims, password, confirm string) error {
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateUserPassword(ctx, claims.UserID, hash); err != nil {
		return err
	}
	s.publish(ctx, models.EventUserUpdated, claims.UserID, DashboardRoute(claims.Roles))
	return nil
}

// UpdateAccount changes email and/or password. Both inputs are checked before
// either is written, so a rejected password never leaves a changed email behind.
func (s *Service) UpdateAccount(ctx context.Context, claims *Claims, email, password, confirm string) error {
	email = strings.TrimSpace(email)
	if email == "" && password == "" {
		return ErrNothingToUpdate
	}
	if email != "" && !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if password != "" {
		if err := checkNewPassword(password, confirm); err != nil {
			return err
		}
	}

	if email != "" {
		if err := s.UpdateEmail(ctx, claims, email); err != nil {
			return err
		}
	}
	if password != "" {
		return s.UpdatePassword(ctx, claims, password, confirm)
	}
	return nil
}

// CreateAdmin registers an account with the admin role. The actor must be elevated;
// a nil actor is the operator CLI.
func (s *Service) CreateAdmin(ctx context.Context, actor *Claims, email, password, fullName string) (*models.User, error) {
	if actor != nil && !actor.Elevated() {
		return nil, ErrForbidden
	}
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < config.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: normalizeEmail(email), PasswordHash: hash}
	profile := &models.Profile{FullName: optional(fullName)}
	if err := s.Store.RegisterAccount(ctx, user, profile, nil, models.RoleAdmin); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	fields := []zap.Field{zap.String("user_id", user.ID)}
	if actor != nil {
		fields = append(fields, zap.String("created_by", actor.UserID))
	}
	s.Logger.Info("admin account created", fields...)
	return user, nil
}

// GrantRole adds a role to an existing user.
func (s *Service) GrantRole(ctx context.Context, userID string, role models.AppRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if _, err := s.Store.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.AddRole(ctx, userID, role); err != nil {
		return err
	}
	roles, err := s.Store.GetUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	s.publish(ctx, models.EventUserUpdated, userID, DashboardRoute(roles))
	return nil
}

func (s *Service) publish(ctx context.Context, kind models.AuthEventType, userID, route string) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(ctx, models.AuthEvent{
		Type:   kind,
		UserID: userID,
		Route:  route,
		At:     s.now(),
	})
}
