package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

type UserRepo struct {
	DB *gorm.DB
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateWithCart stores a new user and its empty cart in one transaction,
// so a user never exists without a cart. The unique index on username is
// the only duplicate check, so concurrent registrations of the same name
// cannot race past it; the violation comes back as ErrUserAlreadyExist.
func (r *UserRepo) CreateWithCart(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrUserAlreadyExist
			}
			return err
		}
		cart := models.Cart{UserID: user.ID, Total: decimal.Zero}
		return tx.Create(&cart).Error
	})
}

// isUniqueViolation matches the duplicate-key errors of the drivers in
// use: gorm's translated sentinel, postgres ("duplicate key value") and
// sqlite ("UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
