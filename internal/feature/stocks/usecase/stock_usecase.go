// Package usecase は株価ウォッチリスト操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	quotesdomain "stock_watchlist/internal/feature/quotes/domain"
	"stock_watchlist/internal/feature/stocks/domain"
	"stock_watchlist/internal/feature/stocks/domain/entity"
	"stock_watchlist/internal/shared/symbol"
)

// DefaultWindowSize は銘柄ごとに保持する価格サンプルの上限件数です。
const DefaultWindowSize = 10

// PriceRepository は価格サンプルの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceRepository interface {
	// Append は1件のサンプルを追加します。保持上限はここでは適用されません。
	Append(ctx context.Context, symbol string, price float64, observedAt time.Time) error
	// Latest は最新のサンプルを返します。サンプルが無い場合は nil を返します。
	Latest(ctx context.Context, symbol string) (*entity.PriceSample, error)
	// Recent は新しい順に最大limit件のサンプルを返します。
	Recent(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error)
	// TrimToLimit は observed_at（同値の場合はID）が大きい順にlimit件を残し、残りを削除します。
	TrimToLimit(ctx context.Context, symbol string, limit int) error
	// Record は Append と TrimToLimit を1トランザクションで実行します。
	// 並行する読み取りからは追加とトリムが常に一体で観測されます。
	Record(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error
	// Purge は銘柄のサンプルをすべて削除します。
	Purge(ctx context.Context, symbol string) error
}

// QuoteRepository は外部プロバイダから現在価格を取得するインターフェースです。
// 失敗は quotes/domain の分類済みエラーとして返されます。
type QuoteRepository interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// Watchlist は監視対象銘柄の登録状態を抽象化します。
type Watchlist interface {
	Add(ctx context.Context, symbol string) error
	Remove(ctx context.Context, symbol string) error
	IsWatched(symbol string) bool
}

// StockUsecase は株価クエリと監視開始/停止のユースケースを定義します。
type StockUsecase struct {
	prices    PriceRepository
	quotes    QuoteRepository
	watchlist Watchlist
	window    int
	now       func() time.Time
}

// NewStockUsecase は新しい StockUsecase を作成します。
// window が0以下の場合は DefaultWindowSize を使用します。
func NewStockUsecase(prices PriceRepository, quotes QuoteRepository, watchlist Watchlist, window int) *StockUsecase {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &StockUsecase{
		prices:    prices,
		quotes:    quotes,
		watchlist: watchlist,
		window:    window,
		now:       time.Now,
	}
}

// GetStockData は銘柄の現在のスナップショットを返します。
//
// 保存済みのウィンドウがあればそれを使用し、無い場合（未登録、または登録直後で
// まだポーリングが走っていない場合）はプロバイダへの単発フェッチにフォールバック
// します。フォールバックは純粋な参照であり、監視状態は変更しません。
func (su *StockUsecase) GetStockData(ctx context.Context, sym string) (*entity.Snapshot, error) {
	s := symbol.Normalize(sym)

	window, err := su.prices.Recent(ctx, s, su.window)
	if err != nil {
		return nil, fmt.Errorf("load price history for %s: %w", s, err)
	}

	if len(window) > 0 {
		newest := window[0]
		return &entity.Snapshot{
			Symbol:        s,
			CurrentPrice:  newest.Price,
			LastUpdated:   newest.ObservedAt,
			MovingAverage: MovingAverage(window),
			BeingWatched:  su.watchlist.IsWatched(s),
		}, nil
	}

	price, err := su.quotes.GetPrice(ctx, s)
	if err != nil {
		// 分類済みエラー（無効な銘柄・レートリミット）はそのまま伝播し、
		// それ以外は汎用の取得失敗として返す
		if errors.Is(err, quotesdomain.ErrInvalidSymbol) || errors.Is(err, quotesdomain.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w for symbol %s: %v", domain.ErrFetchFailed, s, err)
	}

	return &entity.Snapshot{
		Symbol:        s,
		CurrentPrice:  price,
		LastUpdated:   su.now(),
		MovingAverage: price,
		BeingWatched:  false,
	}, nil
}

// StartTracking は銘柄の定期ポーリングを開始し、正規化済みの銘柄名を返します。
//
// 次のティックを待たずに即座に履歴を持たせるため、まずプロバイダから価格を
// 取得して銘柄を検証し、シードサンプルを保存します。ウォッチリストへの登録は
// シードが永続化された後にのみ行われるため、履歴ゼロの監視銘柄は存在しません。
func (su *StockUsecase) StartTracking(ctx context.Context, sym string) (string, error) {
	s := symbol.Normalize(sym)

	price, err := su.quotes.GetPrice(ctx, s)
	if err != nil {
		if errors.Is(err, quotesdomain.ErrInvalidSymbol) || errors.Is(err, quotesdomain.ErrRateLimited) {
			return "", err
		}
		return "", fmt.Errorf("%w for symbol %s: %v", domain.ErrFetchFailed, s, err)
	}

	if err := su.prices.Record(ctx, s, price, su.now(), su.window); err != nil {
		return "", fmt.Errorf("store seed sample for %s: %w", s, err)
	}
	if err := su.watchlist.Add(ctx, s); err != nil {
		return "", fmt.Errorf("register %s: %w", s, err)
	}

	return s, nil
}

// StopTracking は銘柄の定期ポーリングを停止し、正規化済みの銘柄名を返します。
//
// 保存済みの履歴は即座に削除されます。未登録の銘柄に対して呼んでも正常に
// 完了します（冪等）。
func (su *StockUsecase) StopTracking(ctx context.Context, sym string) (string, error) {
	s := symbol.Normalize(sym)

	// 先にウォッチリストから外してポーラーの対象から除外し、その後に履歴を削除する
	if err := su.watchlist.Remove(ctx, s); err != nil {
		return "", fmt.Errorf("unregister %s: %w", s, err)
	}
	if err := su.prices.Purge(ctx, s); err != nil {
		return "", fmt.Errorf("purge history for %s: %w", s, err)
	}

	return s, nil
}
