package handler

import (
	"Lotus/config"
	"Lotus/middleware"
	"Lotus/pkg/context"
	"Lotus/pkg/response"
	"Lotus/service"

	"github.com/gin-gonic/gin"
)

type Checkin struct {
	Config         *config.Config
	CheckinService service.ICheckinService
}

func (h *Checkin) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	g := r.Group("/v1/checkin", authorize)
	g.GET("/status", context.Wrap(h.Status))
	g.POST("", context.Wrap(h.CheckIn))
}

func (h *Checkin) Status(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}

	status, err := h.CheckinService.Status(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, status)
	return nil
}

// CheckIn 领取今日签到奖励
func (h *Checkin) CheckIn(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return unauthorized()
	}

	reward, err := h.CheckinService.CheckIn(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, reward)
	return nil
}
