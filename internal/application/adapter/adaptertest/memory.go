// Package adaptertest provides in-memory implementations of the application
// adapters for use in tests.
package adaptertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Categories is an in-memory adapter.CategoryRepository.
type Categories struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Category

	// Err, when set, is returned by every read.
	Err error
}

// NewCategories creates an empty category store seeded with the given categories.
func NewCategories(seed ...*entity.Category) *Categories {
	c := &Categories{items: make(map[uuid.UUID]*entity.Category)}
	for _, cat := range seed {
		c.items[cat.ID] = cat
	}
	return c
}

func (c *Categories) Create(_ context.Context, category *entity.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[category.ID] = category
	return nil
}

func (c *Categories) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	cat, ok := c.items[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return cat, nil
}

func (c *Categories) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	return c.find(ownerID, nil)
}

func (c *Categories) FindByOwnerAndType(_ context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error) {
	return c.find(ownerID, &categoryType)
}

func (c *Categories) ExistsByNameAndOwner(_ context.Context, name string, ownerID uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range c.items {
		if cat.OwnerID == ownerID && strings.EqualFold(cat.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Categories) find(ownerID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	var result []*entity.Category
	for _, cat := range c.items {
		if cat.OwnerID != ownerID {
			continue
		}
		if categoryType != nil && cat.Type != *categoryType {
			continue
		}
		result = append(result, cat)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Transactions is an in-memory adapter.TransactionRepository that joins
// categories from a Categories store.
type Transactions struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*entity.Transaction
	rawAmounts map[uuid.UUID]string
	categories *Categories

	// FindErr, when set, is returned by FindByQuery.
	FindErr error
	// WriteErr, when set, is returned by Create, Update and Delete.
	WriteErr error
	// OnFind, when set, runs before FindByQuery reads the store.
	OnFind func(ctx context.Context, query adapter.TransactionQuery)

	Creates int
	Updates int
	Deletes int
	Finds   int
}

// NewTransactions creates an empty transaction store.
func NewTransactions(categories *Categories) *Transactions {
	return &Transactions{
		items:      make(map[uuid.UUID]*entity.Transaction),
		rawAmounts: make(map[uuid.UUID]string),
		categories: categories,
	}
}

// Seed stores transactions directly, bypassing the write counters.
func (r *Transactions) Seed(transactions ...*entity.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range transactions {
		r.items[t.ID] = t
	}
}

// Corrupt makes the stored amount of a transaction read back as raw.
func (r *Transactions) Corrupt(id uuid.UUID, raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawAmounts[id] = raw
}

// Len returns the number of stored transactions.
func (r *Transactions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Transactions) Create(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Creates++
	if r.WriteErr != nil {
		return r.WriteErr
	}
	r.items[transaction.ID] = transaction
	return nil
}

func (r *Transactions) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *Transactions) FindByQuery(ctx context.Context, query adapter.TransactionQuery) ([]*entity.TransactionWithCategory, error) {
	if r.OnFind != nil {
		r.OnFind(ctx, query)
	}

	r.mu.Lock()
	r.Finds++
	if r.FindErr != nil {
		err := r.FindErr
		r.mu.Unlock()
		return nil, err
	}
	var matched []*entity.Transaction
	for _, t := range r.items {
		if query.Matches(t) {
			clone := *t
			matched = append(matched, &clone)
		}
	}
	raw := make(map[uuid.UUID]string, len(r.rawAmounts))
	for id, s := range r.rawAmounts {
		raw[id] = s
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := make([]*entity.TransactionWithCategory, len(matched))
	for i, t := range matched {
		row := &entity.TransactionWithCategory{Transaction: t, RawAmount: t.Amount.String()}
		if s, ok := raw[t.ID]; ok {
			row.RawAmount = s
		}
		if r.categories != nil {
			if cat, err := r.categories.FindByID(ctx, t.CategoryID); err == nil {
				row.Category = cat
			}
		}
		result[i] = row
	}
	return result, nil
}

func (r *Transactions) Update(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates++
	if r.WriteErr != nil {
		return r.WriteErr
	}
	if _, ok := r.items[transaction.ID]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	r.items[transaction.ID] = transaction
	return nil
}

func (r *Transactions) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deletes++
	if r.WriteErr != nil {
		return r.WriteErr
	}
	if _, ok := r.items[id]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	delete(r.items, id)
	return nil
}

// Users is an in-memory adapter.UserRepository.
type Users struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.User
}

// NewUsers creates a user store seeded with the given users.
func NewUsers(seed ...*entity.User) *Users {
	u := &Users{items: make(map[uuid.UUID]*entity.User)}
	for _, user := range seed {
		u.items[user.ID] = user
	}
	return u
}

func (u *Users) Create(_ context.Context, user *entity.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items[user.ID] = user
	return nil
}

func (u *Users) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.items[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	return user, nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.items {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (u *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := u.FindByEmail(ctx, email)
	return err == nil, nil
}

// Notifications records every notification it receives.
type Notifications struct {
	mu      sync.Mutex
	pending map[uuid.UUID][]entity.Notification
}

// NewNotifications creates an empty notification recorder.
func NewNotifications() *Notifications {
	return &Notifications{pending: make(map[uuid.UUID][]entity.Notification)}
}

func (n *Notifications) Notify(_ context.Context, userID uuid.UUID, notification entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending[userID] = append([]entity.Notification{notification}, n.pending[userID]...)
}

func (n *Notifications) Drain(_ context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	pending := n.pending[userID]
	delete(n.pending, userID)
	return pending, nil
}

// Pending returns the notifications recorded for a user without removing them.
func (n *Notifications) Pending(userID uuid.UUID) []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.pending[userID]...)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}
