package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royalty-backend/internal/shared/apperror"
	"royalty-backend/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
	FromError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func errorBody(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	assert.Equal(t, false, body["success"])
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "error object missing: %v", body)
	return e
}

func TestFromError_Validation(t *testing.T) {
	t.Parallel()

	status, body := render(t, apperror.FieldError("quantity", "Quantity is required."))

	assert.Equal(t, http.StatusBadRequest, status)
	e := errorBody(t, body)
	assert.Equal(t, apperror.CodeValidation, e["code"])
	assert.Equal(t, map[string]any{"quantity": "Quantity is required."}, e["details"])
}

func TestFromError_Conflict(t *testing.T) {
	t.Parallel()

	status, body := render(t, apperror.Conflict("name", "An author with this name already exists.", errors.New("unique")))

	assert.Equal(t, http.StatusConflict, status)
	e := errorBody(t, body)
	assert.Equal(t, apperror.CodeConflict, e["code"])
	assert.Equal(t, map[string]any{"name": "An author with this name already exists."}, e["details"])
}

func TestFromError_NotFound(t *testing.T) {
	t.Parallel()

	status, body := render(t, apperror.NotFound("sale", 42, nil))

	assert.Equal(t, http.StatusNotFound, status)
	e := errorBody(t, body)
	assert.Equal(t, apperror.CodeNotFound, e["code"])
	assert.Equal(t, "sale 42 not found", e["message"])
	assert.NotContains(t, e, "details")
}

func TestFromError_BatchItems(t *testing.T) {
	t.Parallel()

	err := apperror.Batch([]apperror.ItemError{
		{Index: 3, Errors: validation.Errors{"date": errors.New("Date is required.")}},
		{Index: 0, Errors: validation.Errors{"quantity": errors.New("Quantity is required.")}},
	})

	status, body := render(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	e := errorBody(t, body)
	assert.Equal(t, apperror.CodeBatch, e["code"])
	assert.Equal(t, []any{
		map[string]any{"index": float64(0), "errors": map[string]any{"quantity": "Quantity is required."}},
		map[string]any{"index": float64(3), "errors": map[string]any{"date": "Date is required."}},
	}, e["details"])
}

func TestFromError_WrappedAppError(t *testing.T) {
	t.Parallel()

	err := errors.Join(errors.New("tx rolled back"), apperror.NotFound("author", 7, nil))

	status, _ := render(t, err)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestFromError_UnknownErrorHidesCause(t *testing.T) {
	t.Parallel()

	status, body := render(t, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, status)
	e := errorBody(t, body)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", e["code"])
	assert.Equal(t, "Internal server error", e["message"])
}

func TestPageMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  utils.Page
		total int64
		want  Meta
	}{
		{"first page", utils.Page{Number: 1, Size: 10}, 25, Meta{Page: 1, PageSize: 10, Total: 25, TotalPages: 3}},
		{"empty result", utils.Page{Number: 1, Size: 10}, 0, Meta{Page: 1, PageSize: 10, Total: 0, TotalPages: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, *PageMeta(tt.page, tt.total))
		})
	}
}
