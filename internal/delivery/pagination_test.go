package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_service/internal/domain"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePageSpec_Defaults(t *testing.T) {
	c := testContext(t, "/products")

	spec, err := parsePageSpec(c)
	require.NoError(t, err)
	assert.Equal(t, 0, spec.Page)
	assert.Equal(t, 10, spec.Size)
	assert.Empty(t, spec.Sort)
}

func TestParsePageSpec_PageSizeAndSort(t *testing.T) {
	c := testContext(t, "/products?page=2&size=5&sort=name,asc&sort=price,desc")

	spec, err := parsePageSpec(c)
	require.NoError(t, err)
	assert.Equal(t, 2, spec.Page)
	assert.Equal(t, 5, spec.Size)
	require.Len(t, spec.Sort, 2)
	assert.Equal(t, domain.SortOrder{Field: "name"}, spec.Sort[0])
	assert.Equal(t, domain.SortOrder{Field: "price", Desc: true}, spec.Sort[1])
}

func TestParsePageSpec_BareSortFieldIsAscending(t *testing.T) {
	c := testContext(t, "/products?sort=name")

	spec, err := parsePageSpec(c)
	require.NoError(t, err)
	require.Len(t, spec.Sort, 1)
	assert.False(t, spec.Sort[0].Desc)
}

func TestParsePageSpec_InvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		target string
		field  string
	}{
		{"negative page", "/products?page=-1", "page"},
		{"non-numeric page", "/products?page=abc", "page"},
		{"zero size", "/products?size=0", "size"},
		{"bad sort direction", "/products?sort=name,sideways", "sort"},
		{"empty sort field", "/products?sort=,asc", "sort"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext(t, tc.target)

			_, err := parsePageSpec(c)

			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	c := testContext(t, "/products/15")
	c.Params = gin.Params{{Key: "id", Value: "15"}}

	id, err := parseIDParam(c)
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = parseIDParam(c)
	assert.Error(t, err)

	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, err = parseIDParam(c)
	assert.Error(t, err)
}
