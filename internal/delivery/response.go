package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog_service/internal/domain"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// mapErrorToStatus translates the domain error kinds into HTTP status codes:
// absent row 404, domain rule violation 422, delete denied 409, bad
// credentials 401, anything else 500.
func mapErrorToStatus(err error) int {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// pagePayload is the wire shape of one listing page.
type pagePayload[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

func newPagePayload[T any](page *domain.Page[T]) pagePayload[T] {
	return pagePayload[T]{
		Items:      page.Items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		Size:       page.Size,
	}
}
