package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_watchlist/internal/feature/watchlist/transport/handler"
)

// mockWatchlist はWatchlistインターフェースのモック実装です。
type mockWatchlist struct {
	ListFunc func() []string
}

func (m *mockWatchlist) List() []string {
	return m.ListFunc()
}

// TestWatchlistHandler_List は監視銘柄一覧がソート済みJSONで返ることを検証します。
func TestWatchlistHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		symbols      []string
		expectedBody string
	}{
		{
			name:         "success: symbols are sorted for a stable response",
			symbols:      []string{"TSLA", "AAPL", "MSFT"},
			expectedBody: `{"symbols":["AAPL","MSFT","TSLA"]}`,
		},
		{
			name:         "success: empty registry yields an empty list",
			symbols:      []string{},
			expectedBody: `{"symbols":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewWatchlistHandler(&mockWatchlist{
				ListFunc: func() []string { return tt.symbols },
			})
			r := gin.New()
			r.GET("/symbols", h.List)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/symbols", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
