package ledger

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"larder-service/internal/models"
	"larder-service/pkg/response"
)

const idPrefix = "ORD"

// SortKey selects the ordering of FilterAndSort results. All sorts are
// stable: ties keep ledger insertion order.
type SortKey string

const (
	SortDueAsc     SortKey = "due_date_asc"
	SortDueDesc    SortKey = "due_date_desc"
	SortPriority   SortKey = "priority"
	SortCreatedAsc SortKey = "created_asc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortDueAsc, SortDueDesc, SortPriority, SortCreatedAsc:
		return true
	}
	return false
}

// Filter is a conjunction of optional predicates; a nil field means no
// constraint.
type Filter struct {
	Status    *models.OrderStatus
	Priority  *models.Priority
	DueWithin *time.Duration
	SortKey   SortKey
}

// Ledger holds orders in insertion order.
type Ledger struct {
	orders []*models.Order
	rate   float64

	now func() time.Time
}

// New builds a ledger; ratePerKg is the flat placeholder rate used to price
// structured items at creation.
func New(ratePerKg float64) *Ledger {
	return &Ledger{rate: ratePerKg, now: time.Now}
}

// SetClock overrides the ledger clock. Tests use it to pin created dates and
// the overdue/urgent horizon.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// Add creates an order: the id is ORD plus the zero-padded successor of the
// highest existing numeric suffix, the created date is now, and the total
// price is rate times the summed quantity of structured items.
func (l *Ledger) Add(o models.Order) (*models.Order, error) {
	const op = "ledger.Ledger.Add"

	if strings.TrimSpace(o.CustomerName) == "" {
		return nil, fmt.Errorf("%s: customer_name is empty: %w", op, response.ErrValidation)
	}

	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%s: items are empty: %w", op, response.ErrValidation)
	}

	for _, item := range o.Items {
		if item.Kind == models.ItemStructured {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("%s: item name is empty: %w", op, response.ErrValidation)
			}
			if item.Quantity <= 0 {
				return nil, fmt.Errorf("%s: item quantity must be positive: %w", op, response.ErrValidation)
			}
			if !item.Unit.Valid() {
				return nil, fmt.Errorf("%s: unknown unit %q: %w", op, item.Unit, response.ErrValidation)
			}
		}
	}

	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if !o.Status.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, o.Status, response.ErrValidation)
	}

	if o.Priority == "" {
		o.Priority = models.PriorityMedium
	}
	if !o.Priority.Valid() {
		return nil, fmt.Errorf("%s: unknown priority %q: %w", op, o.Priority, response.ErrValidation)
	}

	o.OrderID = l.nextID()
	o.CreatedDate = l.now()
	o.TotalPrice = l.price(o.Items)
	o.Items = slices.Clone(o.Items)

	stored := o
	l.orders = append(l.orders, &stored)

	return &stored, nil
}

func (l *Ledger) Get(orderID string) (*models.Order, error) {
	const op = "ledger.Ledger.Get"

	for _, o := range l.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}

	return nil, fmt.Errorf("%s: order %s: %w", op, orderID, response.ErrNotFound)
}

// List returns the orders in insertion order.
func (l *Ledger) List() []models.Order {
	out := make([]models.Order, 0, len(l.orders))
	for _, o := range l.orders {
		copy := *o
		copy.Items = slices.Clone(o.Items)
		out = append(out, copy)
	}
	return out
}

// UpdateStatus sets the order status; setting the current value again is a
// no-op.
func (l *Ledger) UpdateStatus(orderID string, status models.OrderStatus) error {
	const op = "ledger.Ledger.UpdateStatus"

	if !status.Valid() {
		return fmt.Errorf("%s: unknown status %q: %w", op, status, response.ErrValidation)
	}

	o, err := l.Get(orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	o.Status = status

	return nil
}

// UpdatePriority sets the order priority; setting the current value again is
// a no-op.
func (l *Ledger) UpdatePriority(orderID string, priority models.Priority) error {
	const op = "ledger.Ledger.UpdatePriority"

	if !priority.Valid() {
		return fmt.Errorf("%s: unknown priority %q: %w", op, priority, response.ErrValidation)
	}

	o, err := l.Get(orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	o.Priority = priority

	return nil
}

// Remove deletes an order; a missing id is surfaced rather than silently
// ignored.
func (l *Ledger) Remove(orderID string) error {
	const op = "ledger.Ledger.Remove"

	for i, o := range l.orders {
		if o.OrderID == orderID {
			l.orders = slices.Delete(l.orders, i, i+1)
			return nil
		}
	}

	return fmt.Errorf("%s: order %s: %w", op, orderID, response.ErrNotFound)
}

// Duplicate deep-copies an order under a fresh id with created date set to
// now and status reset to Pending.
func (l *Ledger) Duplicate(orderID string) (*models.Order, error) {
	const op = "ledger.Ledger.Duplicate"

	src, err := l.Get(orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dup := *src
	dup.Items = slices.Clone(src.Items)
	dup.OrderID = l.nextID()
	dup.CreatedDate = l.now()
	dup.Status = models.StatusPending

	l.orders = append(l.orders, &dup)

	return &dup, nil
}

// FilterAndSort applies the filter conjunction and returns a stably sorted
// copy of the matching orders.
func (l *Ledger) FilterAndSort(f Filter) ([]models.Order, error) {
	const op = "ledger.Ledger.FilterAndSort"

	if f.SortKey == "" {
		f.SortKey = SortDueAsc
	}
	if !f.SortKey.Valid() {
		return nil, fmt.Errorf("%s: unknown sort key %q: %w", op, f.SortKey, response.ErrValidation)
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, *f.Status, response.ErrValidation)
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, fmt.Errorf("%s: unknown priority %q: %w", op, *f.Priority, response.ErrValidation)
	}

	now := l.now()

	var out []models.Order
	for _, o := range l.orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.Priority != nil && o.Priority != *f.Priority {
			continue
		}
		if f.DueWithin != nil && o.DueDate.After(now.Add(*f.DueWithin)) {
			continue
		}
		copy := *o
		copy.Items = slices.Clone(o.Items)
		out = append(out, copy)
	}

	switch f.SortKey {
	case SortDueAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	case SortDueDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() < out[j].Priority.Rank() })
	case SortCreatedAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedDate.Before(out[j].CreatedDate) })
	}

	return out, nil
}

// Overdue reports whether the order is past due and still actionable.
func Overdue(o models.Order, now time.Time) bool {
	if o.Status != models.StatusPending && o.Status != models.StatusInProgress {
		return false
	}
	return o.DueDate.Before(now)
}

// Urgent reports whether the order is due within the next two days and not
// already completed or cancelled.
func Urgent(o models.Order, now time.Time) bool {
	if o.Status == models.StatusCompleted || o.Status == models.StatusCancelled {
		return false
	}
	return !o.DueDate.After(now.Add(48 * time.Hour))
}

// Replace swaps in a whole order set, for document import.
func (l *Ledger) Replace(orders []models.Order) {
	l.orders = make([]*models.Order, 0, len(orders))
	for i := range orders {
		o := orders[i]
		o.Items = slices.Clone(o.Items)
		l.orders = append(l.orders, &o)
	}
}

// nextID scans existing ids for the highest numeric suffix and formats its
// successor zero-padded to at least three digits, so deleted ids are never
// reused.
func (l *Ledger) nextID() string {
	max := 0
	for _, o := range l.orders {
		if !strings.HasPrefix(o.OrderID, idPrefix) {
			continue
		}
		n, err := strconv.Atoi(o.OrderID[len(idPrefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, max+1)
}

func (l *Ledger) price(items []models.Item) float64 {
	total := 0.0
	for _, item := range items {
		if item.Kind == models.ItemStructured {
			total += item.Quantity
		}
	}
	return total * l.rate
}
