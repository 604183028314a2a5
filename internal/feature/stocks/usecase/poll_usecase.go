package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_watchlist/internal/shared/ratelimiter"
)

// WatchlistSource はポーラーが参照する監視銘柄の一覧を提供します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type WatchlistSource interface {
	// List は現時点の監視銘柄のスナップショットを返します。
	List() []string
}

// PollUsecase は監視中の全銘柄の価格を定期的に更新するユースケースを定義します。
type PollUsecase struct {
	quotes      QuoteRepository
	prices      PriceRepository
	watchlist   WatchlistSource
	limiter     ratelimiter.RateLimiterInterface
	window      int
	tickTimeout time.Duration
	now         func() time.Time
}

// NewPollUsecase は新しい PollUsecase を作成します。
func NewPollUsecase(quotes QuoteRepository, prices PriceRepository, watchlist WatchlistSource,
	limiter ratelimiter.RateLimiterInterface, window int, tickTimeout time.Duration) *PollUsecase {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &PollUsecase{
		quotes:      quotes,
		prices:      prices,
		watchlist:   watchlist,
		limiter:     limiter,
		window:      window,
		tickTimeout: tickTimeout,
		now:         time.Now,
	}
}

// PollAll は1ティック分の更新を実行します。
//
// ティック開始時にウォッチリストのスナップショットを1回だけ読み、各銘柄に
// ついて価格を取得して保存（追加+トリム）します。ティック中に追加・削除された
// 銘柄は次のティックから反映されます。1銘柄の失敗はログに記録して次の銘柄へ
// 進むため、他の銘柄の更新を妨げません。エラーは上位へ伝播しません。
//
// ティック全体にはポーリング間隔より短いソフトデッドラインを設け、処理の
// 滞留が無制限に積み上がらないようにします。
func (pu *PollUsecase) PollAll(ctx context.Context) {
	symbols := pu.watchlist.List()
	if len(symbols) == 0 {
		return
	}

	tickCtx := ctx
	if pu.tickTimeout > 0 {
		var cancel context.CancelFunc
		tickCtx, cancel = context.WithTimeout(ctx, pu.tickTimeout)
		defer cancel()
	}

	start := pu.now()
	updated := 0
	for i, s := range symbols {
		if tickCtx.Err() != nil {
			slog.Warn("poll tick deadline reached, deferring remaining symbols to next tick",
				"remaining", len(symbols)-i)
			break
		}

		pu.limiter.WaitIfNeeded()

		price, err := pu.quotes.GetPrice(tickCtx, s)
		if err != nil {
			// 失敗した銘柄はこのティックでは再試行しない。次のティックが再試行となる。
			slog.Error("failed to refresh price", "symbol", s, "error", err)
			continue
		}

		if err := pu.prices.Record(tickCtx, s, price, pu.now(), pu.window); err != nil {
			slog.Error("failed to store price", "symbol", s, "price", price, "error", err)
			continue
		}

		slog.Info("refreshed price", "symbol", s, "price", price)
		updated++
	}

	slog.Info("poll tick finished", "symbols", len(symbols), "updated", updated,
		"elapsed", pu.now().Sub(start))
}
