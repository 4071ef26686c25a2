package ledger

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"papertrade.com/types"
)

type DiscrepancyKind string

const (
	NegativeCash        DiscrepancyKind = "negative_cash"
	NonPositiveHolding  DiscrepancyKind = "non_positive_holding"
	HoldingLogMismatch  DiscrepancyKind = "holding_log_mismatch"
	MissingHoldingEntry DiscrepancyKind = "missing_holding"
)

// Discrepancy is a ledger state that contradicts the transaction log.
type Discrepancy struct {
	Kind      DiscrepancyKind
	UserID    uint
	Symbol    string
	Holding   int64
	LogShares int64
	CashCents int64
}

func (d Discrepancy) String() string {
	switch d.Kind {
	case NegativeCash:
		return fmt.Sprintf("user %d has negative cash %s", d.UserID, types.FormatUSD(d.CashCents))
	default:
		return fmt.Sprintf("user %d %s: %s (holding=%d, log=%d)", d.UserID, d.Symbol, d.Kind, d.Holding, d.LogShares)
	}
}

type netPosition struct {
	UserID uint
	Symbol string
	Net    int64
}

// Audit recomputes every position from the transaction log and compares it
// with the holdings table and cash balances.
func (s *Store) Audit(ctx context.Context) ([]Discrepancy, error) {
	var (
		positions []netPosition
		holdings  []types.Holding
		broke     []types.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&types.Transaction{}).
			Select("user_id, symbol, SUM(CASE WHEN side = ? THEN shares ELSE -shares END) AS net", types.Buy).
			Group("user_id, symbol").
			Scan(&positions).Error
		if err != nil {
			return err
		}
		if err := tx.Find(&holdings).Error; err != nil {
			return err
		}
		return tx.Where("cash_cents < 0").Find(&broke).Error
	})
	if err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}

	type key struct {
		user   uint
		symbol string
	}
	fromLog := make(map[key]int64, len(positions))
	for _, p := range positions {
		fromLog[key{p.UserID, p.Symbol}] = p.Net
	}

	found := make([]Discrepancy, 0)
	for _, u := range broke {
		found = append(found, Discrepancy{Kind: NegativeCash, UserID: u.ID, CashCents: u.CashCents})
	}
	for _, h := range holdings {
		k := key{h.UserID, h.Symbol}
		net := fromLog[k]
		delete(fromLog, k)
		switch {
		case h.Shares <= 0:
			found = append(found, Discrepancy{Kind: NonPositiveHolding, UserID: h.UserID, Symbol: h.Symbol, Holding: h.Shares, LogShares: net})
		case h.Shares != net:
			found = append(found, Discrepancy{Kind: HoldingLogMismatch, UserID: h.UserID, Symbol: h.Symbol, Holding: h.Shares, LogShares: net})
		}
	}
	for k, net := range fromLog {
		if net != 0 {
			found = append(found, Discrepancy{Kind: MissingHoldingEntry, UserID: k.user, Symbol: k.symbol, LogShares: net})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].UserID != found[j].UserID {
			return found[i].UserID < found[j].UserID
		}
		return found[i].Symbol < found[j].Symbol
	})
	return found, nil
}
