package testsupport

import (
	"context"
	"sort"
	"strings"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// MemoryStore is an in-memory stand-in for the persistence layer. It backs
// the repository and unit of work ports with plain maps so usecases can be
// exercised without a database. It is not safe for concurrent use.
type MemoryStore struct {
	Users       *MemoryUserRepo
	Payments    *MemoryPaymentRepo
	Events      *MemoryEventRepo
	Withdrawals *MemoryWithdrawalRepo

	Begins    int
	Commits   int
	Rollbacks int

	// BeginErr and CommitErr inject failures when set
	BeginErr  error
	CommitErr error
}

// NewMemoryStore creates an empty in-memory persistence layer
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Users:       &MemoryUserRepo{byID: map[uint64]*entity.User{}},
		Payments:    &MemoryPaymentRepo{byTxID: map[string]*entity.Payment{}},
		Events:      &MemoryEventRepo{},
		Withdrawals: &MemoryWithdrawalRepo{byID: map[uint64]*entity.Withdrawal{}},
	}
}

// Begin implements persistence.UnitOfWork
func (s *MemoryStore) Begin(ctx context.Context) (context.Context, error) {
	if s.BeginErr != nil {
		return ctx, s.BeginErr
	}
	s.Begins++
	return ctx, nil
}

// Commit implements persistence.UnitOfWork
func (s *MemoryStore) Commit(ctx context.Context) error {
	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.Commits++
	return nil
}

// Rollback implements persistence.UnitOfWork
func (s *MemoryStore) Rollback(ctx context.Context) error {
	s.Rollbacks++
	return nil
}

// GetUserRepository implements persistence.UnitOfWork
func (s *MemoryStore) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return s.Users
}

// GetPaymentRepository implements persistence.UnitOfWork
func (s *MemoryStore) GetPaymentRepository(ctx context.Context) persistence.PaymentRepository {
	return s.Payments
}

// GetReferralEventRepository implements persistence.UnitOfWork
func (s *MemoryStore) GetReferralEventRepository(ctx context.Context) persistence.ReferralEventRepository {
	return s.Events
}

// GetWithdrawalRepository implements persistence.UnitOfWork
func (s *MemoryStore) GetWithdrawalRepository(ctx context.Context) persistence.WithdrawalRepository {
	return s.Withdrawals
}

// MemoryUserRepo keeps users in a map keyed by ID
type MemoryUserRepo struct {
	byID   map[uint64]*entity.User
	nextID uint64
}

// Seed stores a user as-is, assigning an ID when missing
func (r *MemoryUserRepo) Seed(user *entity.User) *entity.User {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	cp := *user
	r.byID[user.ID] = &cp
	return user
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *MemoryUserRepo) GetByRefCode(ctx context.Context, refCode string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.RefCode == refCode {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *MemoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return errs.ErrDuplicateUser
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return errs.ErrUserNotFound
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepo) GetDirectReferrals(ctx context.Context, parentID uint64) ([]*entity.User, error) {
	var directs []*entity.User
	for _, u := range r.byID {
		if u.ParentID != nil && *u.ParentID == parentID {
			cp := *u
			directs = append(directs, &cp)
		}
	}
	sort.Slice(directs, func(i, j int) bool { return directs[i].ID < directs[j].ID })
	return directs, nil
}

func (r *MemoryUserRepo) Totals(ctx context.Context) (*persistence.UserTotals, error) {
	totals := &persistence.UserTotals{}
	for _, u := range r.byID {
		totals.UserCount++
		totals.DailyProfitCents += u.DailyProfit()
		totals.BonusEarnedCents += u.BonusEarned()
	}
	return totals, nil
}

// MemoryPaymentRepo keeps confirmed deposits keyed by transaction hash
type MemoryPaymentRepo struct {
	byTxID map[string]*entity.Payment
	nextID uint64
}

func (r *MemoryPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if existing, ok := r.byTxID[payment.TxID]; ok {
		return errs.NewDuplicateTransactionError(existing.TxID, existing.UserID)
	}
	r.nextID++
	payment.ID = r.nextID
	cp := *payment
	r.byTxID[payment.TxID] = &cp
	return nil
}

func (r *MemoryPaymentRepo) GetByTxID(ctx context.Context, txID string) (*entity.Payment, error) {
	p, ok := r.byTxID[txID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryPaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	for _, p := range r.byTxID {
		if p.UserID == userID {
			cp := *p
			payments = append(payments, &cp)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return payments, nil
}

// MemoryEventRepo keeps referral events in insertion order
type MemoryEventRepo struct {
	events []*entity.ReferralEvent
	nextID uint64
}

func (r *MemoryEventRepo) Create(ctx context.Context, event *entity.ReferralEvent) error {
	r.nextID++
	event.ID = r.nextID
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *MemoryEventRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.ReferralEvent, error) {
	var out []*entity.ReferralEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].UserID == userID {
			cp := *r.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryEventRepo) SumPaidByUser(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	for _, e := range r.events {
		if e.UserID == userID && e.Status == entity.EventPaid {
			sum += e.AmountInCents
		}
	}
	return sum, nil
}

func (r *MemoryEventRepo) SumPaidCommission(ctx context.Context) (int64, error) {
	var sum int64
	for _, e := range r.events {
		if e.Status == entity.EventPaid && e.Reason != entity.ReasonDailyBonus {
			sum += e.AmountInCents
		}
	}
	return sum, nil
}

// All returns every stored event in insertion order
func (r *MemoryEventRepo) All() []*entity.ReferralEvent {
	return r.events
}

// MemoryWithdrawalRepo keeps withdrawals keyed by ID
type MemoryWithdrawalRepo struct {
	byID   map[uint64]*entity.Withdrawal
	nextID uint64
}

func (r *MemoryWithdrawalRepo) Create(ctx context.Context, withdrawal *entity.Withdrawal) error {
	r.nextID++
	withdrawal.ID = r.nextID
	cp := *withdrawal
	r.byID[withdrawal.ID] = &cp
	return nil
}

func (r *MemoryWithdrawalRepo) GetByID(ctx context.Context, id uint64) (*entity.Withdrawal, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrWithdrawalNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *MemoryWithdrawalRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.Withdrawal, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryWithdrawalRepo) Update(ctx context.Context, withdrawal *entity.Withdrawal) error {
	if _, ok := r.byID[withdrawal.ID]; !ok {
		return errs.ErrWithdrawalNotFound
	}
	cp := *withdrawal
	r.byID[withdrawal.ID] = &cp
	return nil
}

func (r *MemoryWithdrawalRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	for _, w := range r.byID {
		if w.UserID == userID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryWithdrawalRepo) ListByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	for _, w := range r.byID {
		if w.Status == status {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryWithdrawalRepo) SumOnHoldByUser(ctx context.Context, userID uint64, excludeID uint64) (int64, error) {
	var sum int64
	for _, w := range r.byID {
		if w.UserID == userID && w.IsOnHold() && w.ID != excludeID {
			sum += w.AmountInCents
		}
	}
	return sum, nil
}

func (r *MemoryWithdrawalRepo) SumByStatus(ctx context.Context, status entity.WithdrawalStatus) (int64, error) {
	var sum int64
	for _, w := range r.byID {
		if w.Status == status {
			sum += w.AmountInCents
		}
	}
	return sum, nil
}
