package router

import (
	stockhandler "stock_watchlist/internal/feature/stocks/transport/handler"
	watchlisthandler "stock_watchlist/internal/feature/watchlist/transport/handler"
	platformhandler "stock_watchlist/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter はサービスの全ルートを登録したginエンジンを返します。
func NewRouter(stocks *stockhandler.StockHandler, watchlist *watchlisthandler.WatchlistHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// 株価スナップショットと監視の開始/停止
	r.GET("/stock/:symbol", stocks.GetStock)
	r.PUT("/stock/:symbol", stocks.StartTracking)
	r.DELETE("/stock/:symbol", stocks.StopTracking)

	// 監視中の銘柄一覧
	r.GET("/symbols", watchlist.List)

	return r
}
