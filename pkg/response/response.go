package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MessageSuccess          = "Success"
	DefaultErrorMessage     = "Something went wrong"
	InternalServerErrorCode = 500
	ValidationErrorCode     = 400
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends a 400 validation error with optional field details.
func Error(c *gin.Context, err error, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: ValidationErrorCode,
		Message:   err.Error(),
		Data:      data,
	})
}

// ErrorWithStatus sends an error response with an explicit HTTP status and
// application error code, e.g. when relaying an upstream failure.
func ErrorWithStatus(c *gin.Context, status, code int, message string) {
	c.JSON(status, Resp{
		ErrorCode: code,
		Message:   message,
	})
}

// InternalError sends 500 internal server error. err is not exposed.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Unauthorized aborts with 401.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Resp{
		ErrorCode: 401,
		Message:   "Unauthorized",
	})
}
