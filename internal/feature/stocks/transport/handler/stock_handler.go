// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	quotesdomain "stock_watchlist/internal/feature/quotes/domain"
	stocksdomain "stock_watchlist/internal/feature/stocks/domain"
	"stock_watchlist/internal/feature/stocks/domain/entity"
	"stock_watchlist/internal/feature/stocks/transport/http/dto"
	"stock_watchlist/internal/shared/symbol"
)

// StockUsecase は株価ウォッチリスト操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetStockData(ctx context.Context, symbol string) (*entity.Snapshot, error)
	StartTracking(ctx context.Context, symbol string) (string, error)
	StopTracking(ctx context.Context, symbol string) (string, error)
}

// StockHandler は株価ウォッチリストのHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// validSymbol は銘柄パラメータを検証し、不正な場合は400を返してfalseを返します。
func validSymbol(c *gin.Context) (string, bool) {
	s := c.Param("symbol")
	if !symbol.Valid(s) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "symbol must be 1-5 alphanumeric characters"})
		return "", false
	}
	return s, true
}

// statusFromError は分類済みエラーをHTTPステータスコードに対応付けます。
// 分類（無効な銘柄 / レートリミット / 上流障害）はコアから透過してきたものを
// そのまま反映し、ここで潰しません。
func statusFromError(err error) int {
	switch {
	case errors.Is(err, quotesdomain.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, quotesdomain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, quotesdomain.ErrUnavailable), errors.Is(err, stocksdomain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetStock は銘柄の現在のスナップショットをJSONで返します。
//
// エンドポイント例:
// GET /stock/AAPL
func (h *StockHandler) GetStock(c *gin.Context) {
	s, ok := validSymbol(c)
	if !ok {
		return
	}

	snap, err := h.uc.GetStockData(c.Request.Context(), s)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SnapshotResponse{
		Symbol:        snap.Symbol,
		CurrentPrice:  snap.CurrentPrice,
		LastUpdated:   snap.LastUpdated.UTC().Format(time.RFC3339),
		MovingAverage: snap.MovingAverage,
		BeingWatched:  snap.BeingWatched,
	})
}

// StartTracking は銘柄の定期ポーリングを開始します。
//
// エンドポイント例:
// PUT /stock/AAPL
func (h *StockHandler) StartTracking(c *gin.Context) {
	s, ok := validSymbol(c)
	if !ok {
		return
	}

	tracked, err := h.uc.StartTracking(c.Request.Context(), s)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TrackingResponse{Message: fmt.Sprintf("Started tracking %s", tracked)})
}

// StopTracking は銘柄の定期ポーリングを停止します。未登録の銘柄でも正常応答します。
//
// エンドポイント例:
// DELETE /stock/AAPL
func (h *StockHandler) StopTracking(c *gin.Context) {
	s, ok := validSymbol(c)
	if !ok {
		return
	}

	stopped, err := h.uc.StopTracking(c.Request.Context(), s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TrackingResponse{Message: fmt.Sprintf("Stopped tracking %s", stopped)})
}
