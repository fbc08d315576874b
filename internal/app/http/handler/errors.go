package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"activityboard/internal/app/dto"
	"activityboard/internal/domain"
)

func (h *Handler) writeError(c *gin.Context, de *domain.DomainError) {
	c.JSON(de.HTTPStatus, dto.ErrorResponse{
		Error: dto.Error{
			Code:    string(de.Code),
			Message: de.Message,
		},
	})
}

var errSessionNotFound = &domain.DomainError{
	Code:       domain.ErrorCodeNotFound,
	Message:    "session not found",
	HTTPStatus: http.StatusNotFound,
}
