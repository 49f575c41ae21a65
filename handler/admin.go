package handler

import (
	"Lotus/config"
	"Lotus/middleware"
	"Lotus/pkg/context"
	"Lotus/pkg/log"
	"Lotus/pkg/response"
	"Lotus/service"
	"Lotus/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Admin 运营后台：维护兑换规则、人工补发
type Admin struct {
	Config          *config.Config
	ExchangeService service.IExchangeService
	BalanceService  service.IBalanceService
}

func (h *Admin) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/admin", middleware.AdminAuth(h.Config.App.AdminToken))
	g.GET("/exchange/rules", context.Wrap(h.ListRules))
	g.POST("/exchange/rules", context.Wrap(h.CreateRule))
	g.PUT("/exchange/rules/:id", context.Wrap(h.UpdateRule))
	g.DELETE("/exchange/rules/:id", context.Wrap(h.DeleteRule))
	g.POST("/balance/credit", context.Wrap(h.Credit))
}

// ListRules 包含已停用的规则
func (h *Admin) ListRules(c *gin.Context) error {
	rules, err := h.ExchangeService.ListAll(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"rules": rules})
	return nil
}

func (h *Admin) CreateRule(c *gin.Context) error {
	var req types.CreateExchangeRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	rule, err := h.ExchangeService.Create(c.Request.Context(), &req)
	if err != nil {
		return bizError(err)
	}
	log.L.Info("exchange rule created", zap.Uint64("rule_id", rule.ID))
	response.Success(c, rule)
	return nil
}

func (h *Admin) UpdateRule(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateExchangeRuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	rule, err := h.ExchangeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		return bizError(err)
	}
	log.L.Info("exchange rule updated", zap.Uint64("rule_id", id))
	response.Success(c, rule)
	return nil
}

func (h *Admin) DeleteRule(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ExchangeService.Delete(c.Request.Context(), id); err != nil {
		return bizError(err)
	}
	log.L.Info("exchange rule deleted", zap.Uint64("rule_id", id))
	response.Success(c, gin.H{"deleted": true})
	return nil
}

// Credit 人工补发物品
func (h *Admin) Credit(c *gin.Context) error {
	var req types.CreditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}

	qty, err := h.BalanceService.Credit(c.Request.Context(), req.UserID, req.ItemID, req.Amount)
	if err != nil {
		return bizError(err)
	}
	log.L.Info("manual credit",
		zap.String("user_id", req.UserID),
		zap.Uint64("item_id", req.ItemID),
		zap.Int64("amount", req.Amount))
	response.Success(c, types.BalanceResp{ItemID: req.ItemID, Quantity: qty, Held: true})
	return nil
}
