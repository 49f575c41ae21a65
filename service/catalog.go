package service

import (
	"Lotus/dao"
	"Lotus/dao/cache"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/types"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type CatalogService struct {
	TxManager *database.Manager
	ItemDAO   *dao.Item
	ItemCache *cache.ItemCache
}

var _ ICatalogService = (*CatalogService)(nil)

type ICatalogService interface {
	FindByID(ctx context.Context, id uint64) (*models.Item, error)
	FindByName(ctx context.Context, name string) (*models.Item, error)
	FindOrCreate(ctx context.Context, item models.Item) (*models.Item, error)
	ListItems(ctx context.Context) ([]types.ItemInfo, error)
}

// FindByID 不存在返回 nil, nil
func (s *CatalogService) FindByID(ctx context.Context, id uint64) (*models.Item, error) {
	if item, ok := s.ItemCache.GetByID(id); ok {
		return item, nil
	}
	item, err := s.ItemDAO.FindById(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	s.ItemCache.Set(item)
	return item, nil
}

// FindByName 不存在返回 nil, nil
func (s *CatalogService) FindByName(ctx context.Context, name string) (*models.Item, error) {
	if item, ok := s.ItemCache.GetByName(name); ok {
		return item, nil
	}
	item, err := s.ItemDAO.FindByName(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	s.ItemCache.Set(item)
	return item, nil
}

// FindOrCreate 按名称查找，不存在则创建
func (s *CatalogService) FindOrCreate(ctx context.Context, item models.Item) (*models.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, errors.New("item name is required")
	}
	item.ID = 0

	got, err := database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*models.Item, error) {
		return s.ItemDAO.FindOrCreate(ctx, tx, &item)
	})
	if err != nil {
		return nil, err
	}
	s.ItemCache.Set(got)
	return got, nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]types.ItemInfo, error) {
	items, err := s.ItemDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]types.ItemInfo, 0, len(items))
	for i := range items {
		s.ItemCache.Set(&items[i])
		resp = append(resp, toItemInfo(&items[i]))
	}
	return resp, nil
}

func toItemInfo(item *models.Item) types.ItemInfo {
	return types.ItemInfo{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		IconURL:     item.IconURL,
		IsUsable:    item.IsUsable,
	}
}
