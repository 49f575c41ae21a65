package handler

import (
	"Lotus/config"
	"Lotus/middleware"
	"Lotus/pkg/context"
	"Lotus/pkg/response"
	"Lotus/service"

	"github.com/gin-gonic/gin"
)

// Item 物品目录
type Item struct {
	Config         *config.Config
	CatalogService service.ICatalogService
}

func (h *Item) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	r.GET("/v1/items", authorize, context.Wrap(h.List))
}

func (h *Item) List(c *gin.Context) error {
	items, err := h.CatalogService.ListItems(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"items": items})
	return nil
}
