package response

import (
	"Lotus/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 业务错误码，与 HTTP 状态码区分开
const (
	CodeInvalidParams       = 40000
	CodeInvalidQuantity     = 40001
	CodeItemNotFound        = 40401
	CodeRuleNotFound        = 40402
	CodeItemNotUsable       = 42201
	CodeInsufficientBalance = 42202
	CodeAlreadyCheckedIn    = 42901
	CodeCheckinBusy         = 42902
	CodeRuleInactive        = 42203
	CodeRuleConflict        = 40901
)

type BizError struct {
	Code int
	Msg  string
	Data any
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// WithData 附带额外信息，例如余额不足时的缺口
func (e *BizError) WithData(data any) *BizError {
	e.Data = data
	return e
}

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				c.Set(CtxBizCode, 500)
				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
			}
		}()

		c.Next()
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.Set(CtxBizCode, httpStatus)
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
