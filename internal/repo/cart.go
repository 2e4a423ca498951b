package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/models"
)

type CartRepo struct {
	DB *gorm.DB
}

// ForUser loads the user's cart with its full item sequence. The sequence
// comes back non-nil even when empty, so callers can tell a loaded empty
// cart apart from one that was never loaded.
func (r *CartRepo) ForUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}

	items := []models.Item{}
	err := r.DB.WithContext(ctx).
		Model(&models.CartLine{}).
		Select("items.*").
		Joins("JOIN items ON items.id = cart_lines.item_id").
		Where("cart_lines.cart_id = ?", cart.ID).
		Order("cart_lines.id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	cart.Items = items
	return &cart, nil
}

// Save persists the cart total and rewrites its line rows to match the
// in-memory sequence, keeping order and duplicates.
func (r *CartRepo) Save(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(cart).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			line := models.CartLine{CartID: cart.ID, ItemID: cart.Items[i].ID}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
