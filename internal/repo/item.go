package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkravets/web_store/internal/models"
)

type ItemRepo struct {
	DB *gorm.DB
}

func (r *ItemRepo) FindAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepo) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepo) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Where("name = ?", name).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepo) Save(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *ItemRepo) Delete(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Delete(item).Error
}

// Seed fills an empty catalog with the default widgets.
func (r *ItemRepo) Seed(ctx context.Context, items []models.Item) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}
