package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quotesdomain "stock_watchlist/internal/feature/quotes/domain"
	"stock_watchlist/internal/feature/stocks/domain"
	"stock_watchlist/internal/feature/stocks/domain/entity"
	"stock_watchlist/internal/feature/stocks/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockPriceRepository はPriceRepositoryインターフェースのモック実装です。
type mockPriceRepository struct {
	RecentFunc func(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error)
	RecordFunc func(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error
	PurgeFunc  func(ctx context.Context, symbol string) error
}

func (m *mockPriceRepository) Append(ctx context.Context, symbol string, price float64, observedAt time.Time) error {
	return errors.New("AppendFunc is not implemented")
}

func (m *mockPriceRepository) Latest(ctx context.Context, symbol string) (*entity.PriceSample, error) {
	return nil, errors.New("LatestFunc is not implemented")
}

func (m *mockPriceRepository) Recent(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, symbol, limit)
	}
	return nil, nil
}

func (m *mockPriceRepository) TrimToLimit(ctx context.Context, symbol string, limit int) error {
	return errors.New("TrimToLimitFunc is not implemented")
}

func (m *mockPriceRepository) Record(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, symbol, price, observedAt, limit)
	}
	return errors.New("RecordFunc is not implemented")
}

func (m *mockPriceRepository) Purge(ctx context.Context, symbol string) error {
	if m.PurgeFunc != nil {
		return m.PurgeFunc(ctx, symbol)
	}
	return errors.New("PurgeFunc is not implemented")
}

// mockQuoteRepository はQuoteRepositoryインターフェースのモック実装です。
type mockQuoteRepository struct {
	GetPriceFunc func(ctx context.Context, symbol string) (float64, error)
}

func (m *mockQuoteRepository) GetPrice(ctx context.Context, symbol string) (float64, error) {
	if m.GetPriceFunc != nil {
		return m.GetPriceFunc(ctx, symbol)
	}
	return 0, errors.New("GetPriceFunc is not implemented")
}

// mockWatchlist はWatchlistインターフェースのモック実装です。
type mockWatchlist struct {
	AddFunc       func(ctx context.Context, symbol string) error
	RemoveFunc    func(ctx context.Context, symbol string) error
	IsWatchedFunc func(symbol string) bool
}

func (m *mockWatchlist) Add(ctx context.Context, symbol string) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, symbol)
	}
	return errors.New("AddFunc is not implemented")
}

func (m *mockWatchlist) Remove(ctx context.Context, symbol string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, symbol)
	}
	return errors.New("RemoveFunc is not implemented")
}

func (m *mockWatchlist) IsWatched(symbol string) bool {
	if m.IsWatchedFunc != nil {
		return m.IsWatchedFunc(symbol)
	}
	return false
}

// TestStockUsecase_GetStockData_CachedWindow は保存済みウィンドウからスナップショットが
// 計算されることを検証します。
func TestStockUsecase_GetStockData_CachedWindow(t *testing.T) {
	t.Parallel()

	newest := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := []entity.PriceSample{
		{Symbol: "AAPL", Price: 110, ObservedAt: newest},
		{Symbol: "AAPL", Price: 100, ObservedAt: newest.Add(-time.Minute)},
		{Symbol: "AAPL", Price: 90, ObservedAt: newest.Add(-2 * time.Minute)},
	}

	prices := &mockPriceRepository{
		RecentFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
			assert.Equal(t, "AAPL", symbol)
			assert.Equal(t, 10, limit)
			return window, nil
		},
	}
	quotes := &mockQuoteRepository{
		GetPriceFunc: func(ctx context.Context, symbol string) (float64, error) {
			t.Fatal("live fetch must not happen when history exists")
			return 0, nil
		},
	}
	watchlist := &mockWatchlist{
		IsWatchedFunc: func(symbol string) bool { return true },
	}

	uc := usecase.NewStockUsecase(prices, quotes, watchlist, 10)

	// 小文字の入力も正規化されて同じ銘柄として扱われる
	snap, err := uc.GetStockData(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 110.0, snap.CurrentPrice)
	assert.Equal(t, newest, snap.LastUpdated)
	assert.InDelta(t, 100.0, snap.MovingAverage, 1e-9)
	assert.True(t, snap.BeingWatched)
}

// TestStockUsecase_GetStockData_LiveFallback は履歴が無い銘柄で単発フェッチに
// フォールバックすることを検証します。
func TestStockUsecase_GetStockData_LiveFallback(t *testing.T) {
	t.Parallel()

	prices := &mockPriceRepository{
		RecentFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
			return nil, nil
		},
	}
	quotes := &mockQuoteRepository{
		GetPriceFunc: func(ctx context.Context, symbol string) (float64, error) {
			assert.Equal(t, "MSFT", symbol)
			return 150, nil
		},
	}
	watchlist := &mockWatchlist{}

	uc := usecase.NewStockUsecase(prices, quotes, watchlist, 10)

	before := time.Now()
	snap, err := uc.GetStockData(context.Background(), "MSFT")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", snap.Symbol)
	assert.Equal(t, 150.0, snap.CurrentPrice)
	assert.Equal(t, 150.0, snap.MovingAverage)
	// 単発フェッチは純粋な参照であり、監視状態にはしない
	assert.False(t, snap.BeingWatched)
	assert.WithinDuration(t, before, snap.LastUpdated, 5*time.Second)
}

// TestStockUsecase_GetStockData_ClassifiedErrors はフォールバック失敗時のエラー分類を検証します。
func TestStockUsecase_GetStockData_ClassifiedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fetchErr   error
		expectedIs error
	}{
		{
			name:       "invalid symbol propagates verbatim",
			fetchErr:   quotesdomain.ErrInvalidSymbol,
			expectedIs: quotesdomain.ErrInvalidSymbol,
		},
		{
			name:       "rate limited propagates verbatim, never masked as generic",
			fetchErr:   quotesdomain.ErrRateLimited,
			expectedIs: quotesdomain.ErrRateLimited,
		},
		{
			name:       "anything else becomes a generic fetch failure",
			fetchErr:   quotesdomain.ErrUnavailable,
			expectedIs: domain.ErrFetchFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prices := &mockPriceRepository{
				RecentFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
					return nil, nil
				},
			}
			quotes := &mockQuoteRepository{
				GetPriceFunc: func(ctx context.Context, symbol string) (float64, error) {
					return 0, tt.fetchErr
				},
			}

			uc := usecase.NewStockUsecase(prices, quotes, &mockWatchlist{}, 10)

			snap, err := uc.GetStockData(context.Background(), "ZZZZ")
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, tt.expectedIs)
		})
	}
}

// TestStockUsecase_StartTracking はシードサンプルの保存がレジストリ登録より先に
// 行われることを検証します。履歴ゼロの監視銘柄が観測されてはなりません。
func TestStockUsecase_StartTracking(t *testing.T) {
	t.Parallel()

	var calls []string

	prices := &mockPriceRepository{
		RecordFunc: func(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error {
			assert.Equal(t, "GOOG", symbol)
			assert.Equal(t, 180.0, price)
			assert.Equal(t, 10, limit)
			calls = append(calls, "record")
			return nil
		},
	}
	quotes := &mockQuoteRepository{
		GetPriceFunc: func(ctx context.Context, symbol string) (float64, error) {
			calls = append(calls, "fetch")
			return 180, nil
		},
	}
	watchlist := &mockWatchlist{
		AddFunc: func(ctx context.Context, symbol string) error {
			assert.Equal(t, "GOOG", symbol)
			calls = append(calls, "add")
			return nil
		},
	}

	uc := usecase.NewStockUsecase(prices, quotes, watchlist, 10)

	tracked, err := uc.StartTracking(context.Background(), "goog")
	require.NoError(t, err)
	assert.Equal(t, "GOOG", tracked)
	assert.Equal(t, []string{"fetch", "record", "add"}, calls)
}

// TestStockUsecase_StartTracking_FetchFailure は検証フェッチ失敗時に何も保存・登録
// されず、分類が維持されることを検証します。
func TestStockUsecase_StartTracking_FetchFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fetchErr   error
		expectedIs error
	}{
		{name: "invalid symbol", fetchErr: quotesdomain.ErrInvalidSymbol, expectedIs: quotesdomain.ErrInvalidSymbol},
		{name: "rate limited keeps its classification", fetchErr: quotesdomain.ErrRateLimited, expectedIs: quotesdomain.ErrRateLimited},
		{name: "other failures become generic", fetchErr: errors.New("connection reset"), expectedIs: domain.ErrFetchFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prices := &mockPriceRepository{
				RecordFunc: func(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error {
					t.Fatal("nothing may be stored when the validation fetch fails")
					return nil
				},
			}
			quotes := &mockQuoteRepository{
				GetPriceFunc: func(ctx context.Context, symbol string) (float64, error) {
					return 0, tt.fetchErr
				},
			}
			watchlist := &mockWatchlist{
				AddFunc: func(ctx context.Context, symbol string) error {
					t.Fatal("nothing may be registered when the validation fetch fails")
					return nil
				},
			}

			uc := usecase.NewStockUsecase(prices, quotes, watchlist, 10)

			_, err := uc.StartTracking(context.Background(), "GOOG")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedIs)
		})
	}
}

// TestStockUsecase_StopTracking は登録解除と履歴削除が行われ、未登録の銘柄でも
// 正常に完了する（冪等）ことを検証します。
func TestStockUsecase_StopTracking(t *testing.T) {
	t.Parallel()

	removed := 0
	purged := 0

	prices := &mockPriceRepository{
		PurgeFunc: func(ctx context.Context, symbol string) error {
			assert.Equal(t, "TSLA", symbol)
			purged++
			return nil
		},
	}
	watchlist := &mockWatchlist{
		RemoveFunc: func(ctx context.Context, symbol string) error {
			assert.Equal(t, "TSLA", symbol)
			removed++
			return nil
		},
	}

	uc := usecase.NewStockUsecase(prices, &mockQuoteRepository{}, watchlist, 10)

	// 一度も登録されていない銘柄でもエラーにならない
	stopped, err := uc.StopTracking(context.Background(), "tsla")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", stopped)

	// 二度呼んでも観測可能な状態は同じ
	stopped, err = uc.StopTracking(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", stopped)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, purged)
}

// TestStockUsecase_GetStockData_RepositoryError はストア障害がそのまま呼び出し元に
// 返ることを検証します。
func TestStockUsecase_GetStockData_RepositoryError(t *testing.T) {
	t.Parallel()

	prices := &mockPriceRepository{
		RecentFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
			return nil, ErrDB
		},
	}

	uc := usecase.NewStockUsecase(prices, &mockQuoteRepository{}, &mockWatchlist{}, 10)

	_, err := uc.GetStockData(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrDB)
}
