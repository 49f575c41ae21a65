package handler

import (
	"Lotus/config"
	"Lotus/middleware"
	"Lotus/pkg/context"
	"Lotus/pkg/response"
	"Lotus/service"
	"Lotus/types"

	"github.com/gin-gonic/gin"
)

// Backpack 背包：余额查询、使用物品、使用记录
type Backpack struct {
	Config         *config.Config
	BalanceService service.IBalanceService
	UsageService   service.IUsageService
}

func (b *Backpack) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(b.Config.Jwt.Secret))
	g := r.Group("/v1/backpack", authorize)
	g.GET("", context.Wrap(b.List))
	g.GET("/history", context.Wrap(b.History))
	g.GET("/:item_id", context.Wrap(b.Balance))
	g.POST("/use", context.Wrap(b.Use))
}

// List 背包中持有的所有物品
func (b *Backpack) List(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}

	items, err := b.BalanceService.List(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"items": items})
	return nil
}

// Balance 单个物品余额，从未持有过时数量为 0 且 held=false
func (b *Backpack) Balance(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return err
	}

	resp, err := b.BalanceService.GetBalance(c.Request.Context(), userID, itemID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

// Use 使用物品
func (b *Backpack) Use(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}
	var req types.UseItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	resp, err := b.UsageService.UseItem(c.Request.Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

// History 使用记录，可按物品过滤
func (b *Backpack) History(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}
	var req types.ListUsageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return invalidParams(err)
	}

	page, err := b.UsageService.History(c.Request.Context(), userID, req.Limit, req.Offset, req.ItemID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, page)
	return nil
}
