package response

import (
	"net/http"
	"time"

	"talenta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	// DebugKey is the gin context key that enables error detail in 500
	// responses. It is set by middleware.DebugErrors.
	DebugKey = "debug_errors"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Warning    string      `json:"warning,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

var now = time.Now

// NewPagination computes the pagination block for a page of a list.
func NewPagination(page, limit int, totalCount int64) *Pagination {
	if limit <= 0 {
		limit = 1
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}

func timestamp() string {
	return now().UTC().Format(time.RFC3339Nano)
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// SuccessWithWarning reports a request that succeeded while a requested
// enhancement did not complete.
func SuccessWithWarning(c *gin.Context, statusCode int, message string, data interface{}, warning string) {
	c.JSON(statusCode, Response{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Warning:   warning,
		Timestamp: timestamp(),
	})
}

func Paginated(c *gin.Context, message string, data interface{}, pagination *Pagination) {
	c.JSON(http.StatusOK, Response{
		Status:     StatusSuccess,
		Message:    message,
		Data:       data,
		Pagination: pagination,
		Timestamp:  timestamp(),
	})
}

// Error responses
func Error(c *gin.Context, statusCode int, message string, errs interface{}) {
	c.JSON(statusCode, Response{
		Status:    StatusError,
		Message:   message,
		Errors:    errs,
		Timestamp: timestamp(),
	})
}

// FromError renders err with the status of its apperror code. Unknown
// errors and upstream failures become a generic 500; the cause is only
// exposed when the debug flag is set on the context.
func FromError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal("Internal server error", err)
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")

		var detail interface{}
		if c.GetBool(DebugKey) {
			detail = gin.H{"detail": err.Error()}
		}
		message := appErr.Message
		if appErr.Code == apperror.CodeInternal || message == "" {
			message = "Internal server error"
		}
		Error(c, status, message, detail)
		return
	}

	var errs interface{}
	if len(appErr.Fields) > 0 {
		errs = appErr.Fields
	} else if appErr.Reason != "" {
		errs = gin.H{"reason": appErr.Reason}
	}
	Error(c, status, appErr.Message, errs)
}

// Common error responses
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message, nil)
}
