// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"stock_watchlist/internal/feature/watchlist/transport/http/dto"
)

// Watchlist は監視中の銘柄一覧を提供するインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider.
type Watchlist interface {
	List() []string
}

// WatchlistHandler は監視銘柄一覧のHTTPリクエストを処理します。
type WatchlistHandler struct {
	watchlist Watchlist
}

// NewWatchlistHandler は新しい WatchlistHandler を作成します。
func NewWatchlistHandler(w Watchlist) *WatchlistHandler {
	return &WatchlistHandler{watchlist: w}
}

// List は監視中の銘柄一覧をJSONで返します。
// レジストリの列挙順は不定のため、レスポンスを安定させる目的でソートします。
//
// エンドポイント例:
// GET /symbols
func (h *WatchlistHandler) List(c *gin.Context) {
	symbols := h.watchlist.List()
	sort.Strings(symbols)
	c.JSON(http.StatusOK, dto.WatchlistResponse{Symbols: symbols})
}
