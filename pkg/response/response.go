package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CtxBizCode 记录本次响应的业务码，供指标中间件按业务结果分类
const CtxBizCode = "biz_code"

// Response 统一响应结构，Code 为 0 表示成功
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

func Fail(c *gin.Context, code int, msg string) {
	c.Set(CtxBizCode, code)
	c.JSON(http.StatusOK, Response{
		Code: code,
		Msg:  msg,
	})
}
