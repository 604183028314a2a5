package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"stock_watchlist/internal/feature/quotes/adapters/finnhub/dto"
	"stock_watchlist/internal/feature/quotes/domain"
	"stock_watchlist/internal/feature/stocks/usecase"
)

// Client はFinnhub APIから現在価格を取得するQuoteRepository実装です。
// トランスポート層の失敗はすべて quotes/domain の分類済みエラーに変換されるため、
// 呼び出し側がHTTPステータスコードやレスポンス形状を検査することはありません。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがQuoteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.QuoteRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{cfg: cfg, client: client}
}

// GetPrice はFinnhubの /quote エンドポイントから現在価格を取得します。
//
// 失敗の分類:
//   - プロバイダが銘柄を知らない場合（全ゼロのレスポンス）は ErrInvalidSymbol
//   - HTTP 429 は ErrRateLimited
//   - それ以外の失敗（ネットワークエラー、タイムアウト、5xx、不正なボディ）は ErrUnavailable
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", c.cfg.APIKey)

	u := fmt.Sprintf("%s/quote?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", domain.ErrUnavailable, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return 0, fmt.Errorf("finnhub: %w", domain.ErrRateLimited)
	case res.StatusCode >= 400:
		return 0, fmt.Errorf("%w: finnhub http %d", domain.ErrUnavailable, res.StatusCode)
	}

	var body dto.QuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", domain.ErrUnavailable, err)
	}

	// Finnhubは未知の銘柄に対してエラーではなく全ゼロのボディを返す
	if body.Current <= 0 && body.Timestamp == 0 {
		return 0, fmt.Errorf("finnhub: %q: %w", symbol, domain.ErrInvalidSymbol)
	}
	if body.Current <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %v for %s", domain.ErrUnavailable, body.Current, symbol)
	}

	return body.Current, nil
}
