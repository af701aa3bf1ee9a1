package utils

import (
	"errors"
	"fmt"
	"io"

	"talenta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParamUUID parses the named path parameter as a UUID.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(fmt.Sprintf("Invalid %s format", name),
			apperror.FieldError{Field: name, Message: "must be a valid UUID"})
	}
	return id, nil
}

// BindJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.Validation("Invalid request body: " + err.Error())
	}
	return nil
}
