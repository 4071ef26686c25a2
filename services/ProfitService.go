package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"papertrade.com/dto"
	"papertrade.com/types"
)

type buyLot struct {
	Quantity   int64
	PriceCents int64
}

// CalculateRealizedProfit matches every sell against the oldest open buys of
// the same symbol. Transactions may be passed in any order.
func CalculateRealizedProfit(userID uint, transactions []types.Transaction) dto.RealizedProfitResponse {
	ordered := make([]types.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	buyMap := map[string][]buyLot{} // symbol -> queue of buys
	profitMap := map[string]int64{} // symbol -> realized profit in cents

	for _, tx := range ordered {
		switch tx.Side {
		case types.Buy:
			buyMap[tx.Symbol] = append(buyMap[tx.Symbol], buyLot{
				Quantity:   tx.Shares,
				PriceCents: tx.PriceCents,
			})
		case types.Sell:
			remaining := tx.Shares
			queue := buyMap[tx.Symbol]

			for i := 0; i < len(queue) && remaining > 0; i++ {
				buy := &queue[i]
				matchQty := min(remaining, buy.Quantity)
				profitMap[tx.Symbol] += matchQty * (tx.PriceCents - buy.PriceCents)
				buy.Quantity -= matchQty
				remaining -= matchQty
			}

			// drop consumed lots
			filtered := queue[:0]
			for _, b := range queue {
				if b.Quantity > 0 {
					filtered = append(filtered, b)
				}
			}
			buyMap[tx.Symbol] = filtered
		}
	}

	perSymbol := make([]dto.SymbolProfit, 0, len(profitMap))
	var total int64
	for symbol, profit := range profitMap {
		perSymbol = append(perSymbol, dto.SymbolProfit{
			Symbol:  symbol,
			Profit:  types.CentsToDecimal(profit),
			Display: types.FormatUSD(profit),
		})
		total += profit
	}
	sort.Slice(perSymbol, func(i, j int) bool { return perSymbol[i].Symbol < perSymbol[j].Symbol })

	return dto.RealizedProfitResponse{
		UserID:       userID,
		TotalProfit:  types.CentsToDecimal(total),
		TotalDisplay: types.FormatUSD(total),
		PerSymbol:    perSymbol,
	}
}

// OpenCostBasis is the purchase cost of the shares still held, per symbol,
// under the same FIFO matching.
func OpenCostBasis(transactions []types.Transaction) map[string]decimal.Decimal {
	ordered := make([]types.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	lots := map[string][]buyLot{}
	for _, tx := range ordered {
		if tx.Side == types.Buy {
			lots[tx.Symbol] = append(lots[tx.Symbol], buyLot{Quantity: tx.Shares, PriceCents: tx.PriceCents})
			continue
		}
		remaining := tx.Shares
		queue := lots[tx.Symbol]
		for len(queue) > 0 && remaining > 0 {
			matchQty := min(remaining, queue[0].Quantity)
			queue[0].Quantity -= matchQty
			remaining -= matchQty
			if queue[0].Quantity == 0 {
				queue = queue[1:]
			}
		}
		lots[tx.Symbol] = queue
	}

	basis := map[string]decimal.Decimal{}
	for symbol, queue := range lots {
		var cents int64
		for _, l := range queue {
			cents += l.Quantity * l.PriceCents
		}
		if cents > 0 {
			basis[symbol] = types.CentsToDecimal(cents)
		}
	}
	return basis
}
