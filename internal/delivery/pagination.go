package delivery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog_service/internal/domain"
)

// parsePageSpec reads the page, size and sort query parameters into one
// structured page request. Sort accepts repeated "field" or
// "field,direction" values, e.g. ?sort=name,asc&sort=price,desc.
func parsePageSpec(c *gin.Context) (domain.PageSpec, error) {
	spec := domain.PageSpec{Page: 0, Size: 10}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return spec, &domain.ValidationError{Field: "page", Message: "page must be a non-negative integer"}
		}
		spec.Page = page
	}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return spec, &domain.ValidationError{Field: "size", Message: "size must be a positive integer"}
		}
		spec.Size = size
	}

	for _, raw := range c.QueryArray("sort") {
		parts := strings.Split(raw, ",")
		field := strings.TrimSpace(parts[0])
		if field == "" || len(parts) > 2 {
			return spec, &domain.ValidationError{Field: "sort", Message: fmt.Sprintf("invalid sort expression '%s'", raw)}
		}
		order := domain.SortOrder{Field: field}
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				order.Desc = true
			default:
				return spec, &domain.ValidationError{Field: "sort", Message: fmt.Sprintf("invalid sort direction '%s'", parts[1])}
			}
		}
		spec.Sort = append(spec.Sort, order)
	}

	return spec, nil
}

func parseIDParam(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id '%s'", idStr)
	}
	return id, nil
}
