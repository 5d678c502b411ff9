package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var total int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", username).
		Count(&total).Error
	return total > 0, err
}

// Activate flips both activation flags in one update. Returns
// ErrRecordNotFound when the user row is gone.
func (u *UserStore) Activate(ctx context.Context, userID domain.UserID) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"is_active": true, "is_activated": true})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SaveProfile writes the user-editable fields only.
func (u *UserStore) SaveProfile(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", usr.ID).
		Updates(map[string]any{
			"username":      usr.Username,
			"send_messages": usr.SendMessages,
		}).Error
}

// SaveCredential persists a rehashed password after a policy upgrade.
func (u *UserStore) SaveCredential(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", usr.ID).
		Updates(map[string]any{
			"pass_algo":   usr.PassAlgo,
			"pass_hash":   usr.PassHash,
			"pass_salt":   usr.PassSalt,
			"pass_params": usr.PassParams,
			"pass_ver":    usr.PassVer,
		}).Error
}
