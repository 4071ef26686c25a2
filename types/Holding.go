package types

import "time"

// Holding is a user's current share count in one symbol. A row only exists
// while Shares > 0.
type Holding struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_holding_user_symbol" json:"user_id"`
	Symbol    string    `gorm:"size:16;not null;uniqueIndex:idx_holding_user_symbol" json:"symbol"`
	Shares    int64     `gorm:"not null" json:"shares"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}
