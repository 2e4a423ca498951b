package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/models"
)

type OrderRepo struct {
	DB *gorm.DB
}

// Save stores the order and its line rows in one transaction.
func (r *OrderRepo) Save(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			line := models.OrderLine{OrderID: order.ID, ItemID: order.Items[i].ID}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ByUser returns the user's order history, oldest first, with each order's
// item sequence attached.
func (r *OrderRepo) ByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}

	for i := range orders {
		items := []models.Item{}
		err := r.DB.WithContext(ctx).
			Model(&models.OrderLine{}).
			Select("items.*").
			Joins("JOIN items ON items.id = order_lines.item_id").
			Where("order_lines.order_id = ?", orders[i].ID).
			Order("order_lines.id").
			Scan(&items).Error
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}
