package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	CashCents int64     `gorm:"not null;default:0" json:"cash_cents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u User) Cash() decimal.Decimal {
	return CentsToDecimal(u.CashCents)
}
