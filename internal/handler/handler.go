package handler

import (
	"taxclarity/internal/apperr"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err in the standard envelope with its mapped status.
func respondError(c *gin.Context, err error) {
	status, body := response.FromError(err)
	if status >= 500 {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

func invalidPayload(err error) error {
	return apperr.Validation("Invalid request payload: " + err.Error())
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid " + name)
	}
	return id, nil
}
