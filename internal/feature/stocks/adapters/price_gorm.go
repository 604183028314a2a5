// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"stock_watchlist/internal/feature/stocks/domain/entity"
	"stock_watchlist/internal/feature/stocks/usecase"

	"gorm.io/gorm"
)

// PriceSampleModel は価格サンプルのデータベース表現です。
// IDは挿入順の連番で、observed_atが同値のサンプルのタイブレークに使われます。
type PriceSampleModel struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"size:5;not null;index:idx_samples_sym_time,priority:1"`
	Price      float64   `gorm:"not null"`
	ObservedAt time.Time `gorm:"not null;index:idx_samples_sym_time,priority:2"`
}

// TableName はこのモデルのテーブル名を返します。
func (PriceSampleModel) TableName() string {
	return "price_samples"
}

// priceGorm はPriceRepositoryインターフェースのGORM実装です。
type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

// NewPriceRepository は指定されたDB接続でpriceGormリポジトリの新しいインスタンスを生成します。
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

func toEntity(m PriceSampleModel) entity.PriceSample {
	return entity.PriceSample{
		Symbol:     m.Symbol,
		Price:      m.Price,
		ObservedAt: m.ObservedAt,
	}
}

func appendSample(tx *gorm.DB, symbol string, price float64, observedAt time.Time) error {
	m := PriceSampleModel{Symbol: symbol, Price: price, ObservedAt: observedAt}
	return tx.Create(&m).Error
}

// trimToLimit は observed_at DESC, id DESC の順でlimit件を残し、残りを削除します。
// サンプルがlimit件以下の場合は何もしません。
func trimToLimit(tx *gorm.DB, symbol string, limit int) error {
	var keep []uint
	if err := tx.Model(&PriceSampleModel{}).
		Where("symbol = ?", symbol).
		Order("observed_at DESC, id DESC").
		Limit(limit).
		Pluck("id", &keep).Error; err != nil {
		return err
	}
	if len(keep) < limit {
		return nil
	}
	return tx.
		Where("symbol = ? AND id NOT IN ?", symbol, keep).
		Delete(&PriceSampleModel{}).Error
}

// Append は1件のサンプルを追加します。保持上限の適用は呼び出し側の責務です。
func (r *priceGorm) Append(ctx context.Context, symbol string, price float64, observedAt time.Time) error {
	return appendSample(r.db.WithContext(ctx), symbol, price, observedAt)
}

// TrimToLimit は新しい順にlimit件を残して残りを完全に削除します。
func (r *priceGorm) TrimToLimit(ctx context.Context, symbol string, limit int) error {
	return trimToLimit(r.db.WithContext(ctx), symbol, limit)
}

// Record は追加とトリムを1トランザクションで実行します。並行する読み取りが
// 「追加済みだがトリム前」の中間状態を観測することはありません。
func (r *priceGorm) Record(ctx context.Context, symbol string, price float64, observedAt time.Time, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendSample(tx, symbol, price, observedAt); err != nil {
			return err
		}
		return trimToLimit(tx, symbol, limit)
	})
}

// Latest は最新のサンプルを返します。サンプルが無い場合は nil, nil を返します。
func (r *priceGorm) Latest(ctx context.Context, symbol string) (*entity.PriceSample, error) {
	var m PriceSampleModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("observed_at DESC, id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// Recent は新しい順に最大limit件のサンプルを返します。
func (r *priceGorm) Recent(ctx context.Context, symbol string, limit int) ([]entity.PriceSample, error) {
	var rows []PriceSampleModel
	q := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("observed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PriceSample, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// Purge は銘柄のサンプルをすべて削除します。
func (r *priceGorm) Purge(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Delete(&PriceSampleModel{}).Error
}
