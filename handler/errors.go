package handler

import (
	"Lotus/pkg/response"
	"Lotus/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bizError 把业务错误翻译成前端可展示的错误码，基础设施错误原样返回交给 Wrap 处理
func bizError(err error) error {
	var insufficient *service.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		return response.NewError(response.CodeInsufficientBalance, insufficient.Error()).WithData(gin.H{
			"item_id":   insufficient.ItemID,
			"item_name": insufficient.ItemName,
			"need":      insufficient.Need,
			"have":      insufficient.Have,
		})
	}

	codes := []struct {
		target error
		code   int
	}{
		{service.ErrInvalidQuantity, response.CodeInvalidQuantity},
		{service.ErrItemNotFound, response.CodeItemNotFound},
		{service.ErrItemNotUsable, response.CodeItemNotUsable},
		{service.ErrAlreadyCheckedIn, response.CodeAlreadyCheckedIn},
		{service.ErrCheckinBusy, response.CodeCheckinBusy},
		{service.ErrRuleNotFound, response.CodeRuleNotFound},
		{service.ErrRuleInactive, response.CodeRuleInactive},
		{service.ErrRuleDuplicate, response.CodeRuleConflict},
		{service.ErrRuleSameItem, response.CodeRuleConflict},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return response.NewError(c.code, c.target.Error())
		}
	}
	return err
}

func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.NewError(response.CodeInvalidParams, name+" 格式错误")
	}
	return id, nil
}

func invalidParams(err error) error {
	return response.NewError(response.CodeInvalidParams, "参数错误: "+err.Error())
}

func unauthorized() error {
	return response.NewError(http.StatusUnauthorized, "未登录")
}
