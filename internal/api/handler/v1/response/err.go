package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every error response.
type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorMsg       string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}

	return e.Err.Error()
}

// RenderErr writes e and aborts the chain. 5xx causes are logged, never returned.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.StatusText,
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		ErrorMsg:       err.Error(),
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Authentication required.",
		ErrorMsg:       err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied.",
		ErrorMsg:       err.Error(),
	}
}

func ErrNotFound(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorMsg:       err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorMsg:       err.Error(),
	}
}

// ErrAlreadyReviewed is the conflict a reviewer sees after losing a race.
func ErrAlreadyReviewed(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorMsg:       "already reviewed by someone else",
	}
}

func ErrPayloadTooLarge(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		StatusText:     "Payload too large.",
		ErrorMsg:       err.Error(),
	}
}

func ErrUnsupportedMediaType(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnsupportedMediaType,
		StatusText:     "Unsupported media type.",
		ErrorMsg:       err.Error(),
	}
}

func ErrTooManyRequests() *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests.",
		ErrorMsg:       "rate limit exceeded, slow down",
	}
}

func ErrServiceUnavailable(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusServiceUnavailable,
		StatusText:     "Service temporarily unavailable.",
		ErrorMsg:       "a dependency is unavailable, retry later",
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}
