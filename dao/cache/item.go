package cache

import (
	"Lotus/models"
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// ItemCache 进程内物品定义缓存。物品创建后不再修改，只缓存已提交的数据。
type ItemCache struct {
	items cmap.ConcurrentMap[string, models.Item]
}

func NewItemCache() *ItemCache {
	return &ItemCache{items: cmap.New[models.Item]()}
}

func (c *ItemCache) GetByID(id uint64) (*models.Item, bool) {
	return c.get(idKey(id))
}

func (c *ItemCache) GetByName(name string) (*models.Item, bool) {
	return c.get(nameKey(name))
}

// Set 同时按 ID 与名称缓存
func (c *ItemCache) Set(item *models.Item) {
	if item == nil || item.ID == 0 {
		return
	}
	c.items.Set(idKey(item.ID), *item)
	c.items.Set(nameKey(item.Name), *item)
}

func (c *ItemCache) Len() int {
	return c.items.Count()
}

func (c *ItemCache) get(key string) (*models.Item, bool) {
	item, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return &item, true
}

func idKey(id uint64) string {
	return "id:" + strconv.FormatUint(id, 10)
}

func nameKey(name string) string {
	return "name:" + name
}
