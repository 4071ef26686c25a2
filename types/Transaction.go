package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one executed buy or sell. Rows are append-only: the
// update and delete hooks refuse to touch an existing record.
type Transaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Reference  string    `gorm:"size:64;not null;uniqueIndex:idx_transaction_user_reference" json:"reference"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_transaction_user_reference" json:"user_id"`
	Symbol     string    `gorm:"size:16;not null;index" json:"symbol"`
	Side       Side      `gorm:"size:4;not null" json:"side"`
	Shares     int64     `gorm:"not null" json:"shares"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Replayed marks a record returned for a resubmitted reference rather
	// than written by this call.
	Replayed bool `gorm:"-" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Price is the per-share execution price.
func (t Transaction) Price() decimal.Decimal {
	return CentsToDecimal(t.PriceCents)
}

// TotalCents is shares × price in cents.
func (t Transaction) TotalCents() int64 {
	return t.Shares * t.PriceCents
}

// SignedShares is +shares for a buy and −shares for a sell.
func (t Transaction) SignedShares() int64 {
	return t.Side.Sign() * t.Shares
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *Transaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
