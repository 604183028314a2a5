// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"stock_watchlist/internal/feature/watchlist/domain/entity"
	"stock_watchlist/internal/feature/watchlist/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// watchlistGorm はWatchlistRepositoryインターフェースのGORM実装です。
type watchlistGorm struct {
	db *gorm.DB
}

var _ usecase.WatchlistRepository = (*watchlistGorm)(nil)

// NewWatchlistRepository は指定されたDB接続でwatchlistGormリポジトリの新しいインスタンスを生成します。
func NewWatchlistRepository(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

// Add は銘柄を監視テーブルに登録します。既に登録済みの場合は何もしません（冪等）。
func (r *watchlistGorm) Add(ctx context.Context, symbol string) error {
	m := entity.WatchedSymbol{Symbol: symbol}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoNothing: true,
		}).
		Create(&m).Error
}

// Remove は銘柄を監視テーブルから削除します。未登録の場合は何もしません（冪等）。
func (r *watchlistGorm) Remove(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Delete(&entity.WatchedSymbol{}).Error
}

// List は登録済みのすべての銘柄を返します。順序は保証されません。
func (r *watchlistGorm) List(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&entity.WatchedSymbol{}).
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
