package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "royalty-backend/internal/domains/book/model"
	bookservice "royalty-backend/internal/domains/book/service"
	salemodel "royalty-backend/internal/domains/sale/model"
	saleservice "royalty-backend/internal/domains/sale/service"
	"royalty-backend/internal/domains/settlement/handler"
	"royalty-backend/internal/domains/settlement/model"
	"royalty-backend/internal/domains/settlement/service"
	"royalty-backend/internal/testutil/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	sales  saleservice.ServiceInterface
	author int64
	book   int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memstore.New()
	books := bookservice.NewService(store.Books(), store.Authors(), nil, store)
	rate := decimal.RequireFromString("0.10")
	b, err := books.CreateBook(context.Background(), bookmodel.CreateBookRequest{
		Title:           "The Long Ledger",
		PublicationDate: "2024-01-01",
		ISBN13:          "9780000000001",
		Authors:         []bookmodel.ContractInput{{Name: "Ann Author", RoyaltyRate: &rate}},
	})
	require.NoError(t, err)

	h := handler.NewSettlementHandler(service.NewSettlementService(store.Settlement(), store.Authors(), store.Sales(), nil, store))
	r := gin.New()
	r.POST("/authors/:id/pay-unpaid", h.PayAuthorUnpaid)
	r.GET("/authors/:id/unpaid-subtotal", h.UnpaidSubtotal)
	r.POST("/sales/:id/pay-authors", h.PayAuthorsForSale)

	return &testServer{
		router: r,
		sales:  saleservice.NewService(store.Sales(), store.Books(), store.Authors(), nil, store),
		author: b.Contracts[0].AuthorID,
		book:   b.ID,
	}
}

func (s *testServer) sale(t *testing.T, revenue string) int64 {
	t.Helper()

	book, date := s.book, "2024-03-15"
	qty, rev := decimal.NewFromInt(1), decimal.RequireFromString(revenue)
	created, err := s.sales.CreateSale(context.Background(), salemodel.SaleInput{
		BookID: &book, Date: &date, Quantity: &qty, PublisherRevenue: &rev,
	})
	require.NoError(t, err)
	return created.ID
}

func do[T any](t *testing.T, r http.Handler, method, path string) (int, envelope[T]) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestPayAuthorUnpaid(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	first := s.sale(t, "100.00")
	second := s.sale(t, "50.00")
	path := fmt.Sprintf("/authors/%d/pay-unpaid", s.author)

	status, env := do[model.AuthorSettlementResponse](t, s.router, http.MethodPost, path)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, s.author, env.Data.AuthorID)
	assert.Equal(t, 2, env.Data.AuthorSalesMarkedPaid)
	assert.Equal(t, "15.00", env.Data.TotalRoyaltiesPaid)
	assert.ElementsMatch(t, []int64{first, second}, env.Data.SaleIDsAffected)

	status, env = do[model.AuthorSettlementResponse](t, s.router, http.MethodPost, path)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, env.Data.AuthorSalesMarkedPaid)
	assert.Equal(t, "0.00", env.Data.TotalRoyaltiesPaid)
	assert.Equal(t, []int64{}, env.Data.SaleIDsAffected)
}

func TestPayAuthorUnpaid_Errors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	status, env := do[model.AuthorSettlementResponse](t, s.router, http.MethodPost, "/authors/999/pay-unpaid")
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = do[model.AuthorSettlementResponse](t, s.router, http.MethodPost, "/authors/ann/pay-unpaid")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPayAuthorsForSale(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	id := s.sale(t, "80.00")

	status, env := do[model.SaleSettlementResponse](t, s.router, http.MethodPost, fmt.Sprintf("/sales/%d/pay-authors", id))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, env.Data.SaleID)
	assert.Equal(t, 1, env.Data.AuthorsMarkedPaid)
	assert.Equal(t, "8.00", env.Data.TotalRoyaltiesPaid)

	status, _ = do[model.SaleSettlementResponse](t, s.router, http.MethodPost, "/sales/999/pay-authors")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnpaidSubtotal(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.sale(t, "12.50")
	path := fmt.Sprintf("/authors/%d/unpaid-subtotal", s.author)

	status, env := do[model.UnpaidSubtotalResponse](t, s.router, http.MethodGet, path)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1.25", env.Data.UnpaidSubtotal)
}
