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

type Exchange struct {
	Config          *config.Config
	ExchangeService service.IExchangeService
}

func (h *Exchange) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	g := r.Group("/v1/exchange", authorize)
	g.GET("/rules", context.Wrap(h.Rules))
	g.POST("", context.Wrap(h.Perform))
	g.GET("/records", context.Wrap(h.Records))
}

// Rules 当前可用的兑换规则
func (h *Exchange) Rules(c *gin.Context) error {
	rules, err := h.ExchangeService.ListActive(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"rules": rules})
	return nil
}

// Perform 执行兑换，repetitions 缺省为 1
func (h *Exchange) Perform(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}
	var req types.PerformExchangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return invalidParams(err)
	}
	if req.Repetitions == 0 {
		req.Repetitions = 1
	}

	result, err := h.ExchangeService.Perform(c.Request.Context(), userID, req.RuleID, req.Repetitions)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, result)
	return nil
}

func (h *Exchange) Records(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}
	var req types.ListPageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return invalidParams(err)
	}

	page, err := h.ExchangeService.Records(c.Request.Context(), userID, req.Limit, req.Offset)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, page)
	return nil
}
