package response

import (
	"github.com/gin-gonic/gin"
)

type Code string

const (
	SUCCESS Code = "SUCCESS"
	FAIL    Code = "FAIL"
)

func Success(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"Code":    SUCCESS,
		"Message": nil,
		"Data":    data,
	})
}

func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"Code":    FAIL,
		"Message": message,
		"Data":    nil,
	})
}

func FailWithData(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, gin.H{
		"Code":    FAIL,
		"Message": message,
		"Data":    data,
	})
}
