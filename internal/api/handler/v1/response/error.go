package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	statusCode int

	Message string `json:"error"`
}

func (e *Err) Error() string {
	return e.Message
}

func ErrBadRequest(err error) *Err {
	return &Err{
		statusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		statusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%v not found with %v %v", resource, key, value),
	}
}

// ErrUnprocessableEntity reports a well-formed request that cannot be
// honored, e.g. an expired or wrong-event check-in token.
func ErrUnprocessableEntity(err error) *Err {
	return &Err{
		statusCode: http.StatusUnprocessableEntity,
		Message:    err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		statusCode: http.StatusInternalServerError,
		Message:    "internal server error",
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.statusCode, err)
}
