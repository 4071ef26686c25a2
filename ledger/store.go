// Package ledger persists users, holdings and the append-only transaction
// log, and applies every balance change as one atomic unit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade.com/types"
)

type Store struct {
	db    *gorm.DB
	locks *userLocks
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, locks: newUserLocks()}
}

// Entry is one requested balance change.
type Entry struct {
	UserID uint
	Symbol string
	Side   types.Side
	Shares int64
	Price  decimal.Decimal
	// Reference identifies the request. Replaying an entry with a reference
	// already in the log returns the stored record instead of trading twice.
	Reference string
}

func (s *Store) CreateUser(ctx context.Context, username string, cash decimal.Decimal) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, errors.New("username is required")
	}
	if cash.IsNegative() {
		return types.User{}, errors.New("starting cash must not be negative")
	}

	user := types.User{Username: username, CashCents: types.DecimalToCents(cash)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&types.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return types.ErrUsernameTaken
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, types.ErrUsernameTaken) {
			return types.User{}, err
		}
		// A concurrent registration got past the count first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.User{}, fmt.Errorf("%w: %q", types.ErrUsernameTaken, username)
		}
		return types.User{}, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	log.Infof("User %d registered with %s", user.ID, types.FormatUSD(user.CashCents))
	return user, nil
}

func (s *Store) CashBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user types.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return decimal.Zero, userError(userID, err)
	}
	return user.Cash(), nil
}

// Holding returns the share count for symbol, 0 when the user holds none.
func (s *Store) Holding(ctx context.Context, userID uint, symbol string) (int64, error) {
	holding, _, err := findHolding(s.db.WithContext(ctx), userID, symbol)
	if err != nil {
		return 0, err
	}
	return holding.Shares, nil
}

func (s *Store) ListHoldings(ctx context.Context, userID uint) ([]types.Holding, error) {
	return listHoldings(s.db.WithContext(ctx), userID)
}

// Balances reads cash and holdings in one transaction so both reflect the
// same committed state.
func (s *Store) Balances(ctx context.Context, userID uint) (decimal.Decimal, []types.Holding, error) {
	var (
		user     types.User
		holdings []types.Holding
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).First(&user, userID).Error; err != nil {
			return userError(userID, err)
		}
		var err error
		holdings, err = listHoldings(tx, userID)
		return err
	})
	if err != nil {
		return decimal.Zero, nil, err
	}
	return user.Cash(), holdings, nil
}

// Statement is one user's cash, holdings and transaction log as of a single
// committed state.
type Statement struct {
	Cash     decimal.Decimal
	Holdings []types.Holding
	// Transactions are newest first.
	Transactions []types.Transaction
}

// Statement reads Balances and History in one transaction, so values derived
// from the log agree with the holdings.
func (s *Store) Statement(ctx context.Context, userID uint) (Statement, error) {
	var (
		user types.User
		st   Statement
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).First(&user, userID).Error; err != nil {
			return userError(userID, err)
		}
		var err error
		if st.Holdings, err = listHoldings(tx, userID); err != nil {
			return err
		}
		st.Transactions, err = listHistory(tx, userID)
		return err
	})
	if err != nil {
		return Statement{}, err
	}
	st.Cash = user.Cash()
	return st, nil
}

// History returns the user's transactions, newest first.
func (s *Store) History(ctx context.Context, userID uint) ([]types.Transaction, error) {
	return listHistory(s.db.WithContext(ctx), userID)
}

// FindReplay looks up an earlier transaction recorded under e.Reference. It
// reports false when there is none, and ErrReferenceConflict when the stored
// record describes a different trade.
func (s *Store) FindReplay(ctx context.Context, e Entry) (types.Transaction, bool, error) {
	if e.Reference == "" {
		return types.Transaction{}, false, nil
	}
	return findReplay(s.db.WithContext(ctx), e)
}

// AppendTransactionAndAdjust appends the transaction record and moves the
// user's holding and cash in a single database transaction. Calls for the
// same user are serialized. The caller may abandon the call while it waits
// for the user's lock; once the database transaction starts it runs to
// commit or rollback regardless of ctx.
//
// When e.Reference is already in the log the stored record is returned with
// Replayed set and nothing is written.
func (s *Store) AppendTransactionAndAdjust(ctx context.Context, e Entry) (types.Transaction, error) {
	if e.Shares <= 0 {
		return types.Transaction{}, types.ErrInvalidQuantity
	}
	if !e.Side.Valid() {
		return types.Transaction{}, fmt.Errorf("invalid side %q", e.Side)
	}
	priceCents := types.DecimalToCents(e.Price)
	if priceCents <= 0 {
		return types.Transaction{}, fmt.Errorf("price must be positive, got %s", e.Price)
	}
	if e.Reference == "" {
		e.Reference = uuid.NewString()
	}

	release, err := s.locks.acquire(ctx, e.UserID)
	if err != nil {
		return types.Transaction{}, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return types.Transaction{}, err
	}

	var record types.Transaction
	err = s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var user types.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, e.UserID).Error; err != nil {
			return userError(e.UserID, err)
		}

		previous, found, err := findReplay(tx, e)
		if err != nil {
			return err
		}
		if found {
			record = previous
			return nil
		}

		holding, found, err := findHolding(tx, e.UserID, e.Symbol)
		if err != nil {
			return err
		}

		cash := user.CashCents
		switch e.Side {
		case types.Buy:
			if e.Shares > cash/priceCents {
				return fmt.Errorf("%w: %d %s at %s costs more than %s",
					types.ErrInsufficientFunds, e.Shares, e.Symbol,
					types.FormatUSD(priceCents), types.FormatUSD(cash))
			}
			cash -= e.Shares * priceCents
		case types.Sell:
			if e.Shares > holding.Shares {
				return fmt.Errorf("%w: selling %d %s, holding %d",
					types.ErrInsufficientShares, e.Shares, e.Symbol, holding.Shares)
			}
			if e.Shares > (math.MaxInt64-cash)/priceCents {
				return fmt.Errorf("proceeds of %d %s overflow the cash balance", e.Shares, e.Symbol)
			}
			cash += e.Shares * priceCents
		}

		record = types.Transaction{
			Reference:  e.Reference,
			UserID:     e.UserID,
			Symbol:     e.Symbol,
			Side:       e.Side,
			Shares:     e.Shares,
			PriceCents: priceCents,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		remaining := holding.Shares + e.Side.Sign()*e.Shares
		switch {
		case !found:
			holding = types.Holding{UserID: e.UserID, Symbol: e.Symbol, Shares: remaining}
			if err := tx.Create(&holding).Error; err != nil {
				return fmt.Errorf("failed to create holding: %w", err)
			}
		case remaining == 0:
			if err := tx.Delete(&holding).Error; err != nil {
				return fmt.Errorf("failed to remove holding: %w", err)
			}
		default:
			if err := tx.Model(&holding).Update("shares", remaining).Error; err != nil {
				return fmt.Errorf("failed to update holding: %w", err)
			}
		}

		if err := tx.Model(&user).Update("cash_cents", cash).Error; err != nil {
			return fmt.Errorf("failed to update cash: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Transaction{}, err
	}
	if record.Replayed {
		log.Debugf("Ledger: user=%d replayed transaction %d (ref %s)", record.UserID, record.ID, record.Reference)
		return record, nil
	}

	log.Infof("Ledger: user=%d %s %d %s @ %s (ref %s)",
		record.UserID, record.Side, record.Shares, record.Symbol, types.FormatUSD(record.PriceCents), record.Reference)
	return record, nil
}

func findReplay(tx *gorm.DB, e Entry) (types.Transaction, bool, error) {
	var previous []types.Transaction
	if err := tx.Where("user_id = ? AND reference = ?", e.UserID, e.Reference).Limit(1).Find(&previous).Error; err != nil {
		return types.Transaction{}, false, fmt.Errorf("failed to look up reference: %w", err)
	}
	if len(previous) == 0 {
		return types.Transaction{}, false, nil
	}
	p := previous[0]
	if p.Symbol != e.Symbol || p.Side != e.Side || p.Shares != e.Shares {
		return types.Transaction{}, false, fmt.Errorf("%w: %s was %s %d %s",
			types.ErrReferenceConflict, e.Reference, p.Side, p.Shares, p.Symbol)
	}
	p.Replayed = true
	return p, true, nil
}

func findHolding(tx *gorm.DB, userID uint, symbol string) (types.Holding, bool, error) {
	var rows []types.Holding
	err := tx.Where("user_id = ? AND symbol = ?", userID, symbol).Limit(1).Find(&rows).Error
	if err != nil {
		return types.Holding{}, false, fmt.Errorf("failed to load holding %s for user %d: %w", symbol, userID, err)
	}
	if len(rows) == 0 {
		return types.Holding{}, false, nil
	}
	return rows[0], true, nil
}

func listHoldings(tx *gorm.DB, userID uint) ([]types.Holding, error) {
	holdings := make([]types.Holding, 0)
	err := tx.Where("user_id = ? AND shares > 0", userID).Order("symbol").Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

func listHistory(tx *gorm.DB, userID uint) ([]types.Transaction, error) {
	transactions := make([]types.Transaction, 0)
	err := tx.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for user %d: %w", userID, err)
	}
	return transactions, nil
}

func userError(userID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", types.ErrNotFound, userID)
	}
	return fmt.Errorf("failed to load user %d: %w", userID, err)
}
