package storage

import (
	"context"
	"time"

	"ethereal/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterAccount creates the user, profile, optional student row and roles atomically.
// profile.ID is set to the new user's ID.
func (s *Service) RegisterAccount(ctx context.Context, user *models.User, profile *models.Profile, student *models.Student, roles ...models.AppRole) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile != nil {
			profile.ID = user.ID
			profile.IsActive = true
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		if student != nil {
			student.UserID = user.ID
			if err := tx.Create(student).Error; err != nil {
				return err
			}
		}
		for _, role := range roles {
			if err := tx.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Warn("failed to register account", zap.String("email", user.Email), zap.Error(err))
		return Classify(err)
	}

	s.Logger.Info("new account registered", zap.String("user_id", user.ID), zap.Any("roles", roles))
	return nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, Classify(err)
	}
	return &user, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, Classify(err)
	}
	return &user, nil
}

func (s *Service) UpdateUserEmail(ctx context.Context, userID, email string) error {
	return s.updateUser(ctx, userID, map[string]interface{}{"email": email})
}

func (s *Service) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	return s.updateUser(ctx, userID, map[string]interface{}{"password_hash": passwordHash})
}

func (s *Service) updateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = s.now()
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return &Error{Kind: ErrNotFound, Err: gorm.ErrRecordNotFound}
	}
	return nil
}

// GetProfile returns nil, nil when the user has no profile row.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&profile).Error
	if err != nil {
		return nil, Classify(err)
	}
	if profile.ID == "" {
		return nil, nil
	}
	return &profile, nil
}

// AddRole grants role to the user. Granting a role twice is a no-op.
func (s *Service) AddRole(ctx context.Context, userID string, role models.AppRole) error {
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role, CreatedAt: time.Now().UTC()}).Error
	return Classify(err)
}

// GetUserRoles returns every role held by the user.
func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]models.AppRole, error) {
	var roles []models.AppRole
	err := s.DB.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("role", &roles).Error
	if err != nil {
		return nil, Classify(err)
	}
	return roles, nil
}
