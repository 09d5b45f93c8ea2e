package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"velora/internal/api"
	"velora/internal/domain"
	applog "velora/internal/log"
	"velora/internal/repos"
	"velora/internal/validate"
)

var (
	ErrMissingProduct = errors.New("product id is required")
	ErrLoginRequired  = errors.New("login required")
	ErrItemNotFound   = errors.New("cart item not found")
	ErrBadCouponCode  = errors.New("invalid coupon code")
)

// CartRemote is the slice of the commerce API the cart needs.
type CartRemote interface {
	FetchCart(ctx context.Context) ([]domain.CartItem, error)
	AddItem(ctx context.Context, productID string, qty int) error
	UpdateItem(ctx context.Context, itemID string, qty int) error
	RemoveItem(ctx context.Context, itemID string) error
	ApplyCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (*domain.Coupon, decimal.Decimal, error)
}

// Session is the auth-mode switch. It is consulted at the start of every
// operation, never cached, because its value changes what each operation
// means: guest mutations are pure local transitions, authenticated ones are
// mirrored to the server and reconciled by refetch.
type Session interface {
	Authenticated() bool
}

// Notifier receives the user-facing outcome of cart mutations.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

type logNotifier struct{}

func (logNotifier) Success(msg string) { applog.Info(nil, "cart.notify", map[string]any{"msg": msg}) }
func (logNotifier) Failure(msg string) {
	applog.Error(nil, "cart.notify.fail", errors.New(msg), nil)
}

// CartService owns the cart aggregate and is its only legal mutation surface.
//
// Guest carts live entirely in local storage. Authenticated carts treat the
// server as the source of truth: mutations are applied optimistically where
// the UI needs instant feedback, then the server is called, then the cart is
// refetched to reconcile. Failed mutations are rolled back by that same
// refetch rather than by snapshotting.
type CartService struct {
	Remote  CartRemote
	Session Session
	Repo    *repos.CartRepo
	Notify  Notifier

	mu       sync.Mutex
	items    []domain.CartItem
	coupon   *domain.Coupon
	discount decimal.Decimal
	// seq is a per-line monotonic edit counter. A refetch only overwrites a
	// line whose counter still matches the value captured when the
	// triggering call started, so a slow response cannot revert newer input.
	seq map[string]uint64
}

func NewCartService(remote CartRemote, session Session, repo *repos.CartRepo, notify Notifier) *CartService {
	if notify == nil {
		notify = logNotifier{}
	}
	s := &CartService{
		Remote: remote, Session: session, Repo: repo, Notify: notify,
		discount: decimal.Zero,
		seq:      map[string]uint64{},
	}
	if repo != nil {
		if items, err := repo.Load(); err != nil {
			applog.Error(nil, "cart.restore.fail", err, nil)
		} else {
			s.items = items
		}
	}
	return s
}

func (s *CartService) authed() bool { return s.Session != nil && s.Session.Authenticated() }

// Fetch resynchronizes local items with server truth. In guest mode the
// local persisted state is authoritative and Fetch is a no-op. Read failures
// are logged and swallowed; prior state stays untouched.
func (s *CartService) Fetch(ctx context.Context) error {
	if !s.authed() {
		return nil
	}
	fetched, err := s.Remote.FetchCart(ctx)
	if err != nil {
		applog.Error(nil, "cart.fetch.fail", err, nil)
		return nil
	}
	s.applyFetched(fetched, nil)
	return nil
}

// refetch is the reconcile step after a mutating call, successful or not.
// snap holds the per-line counters captured before the mutation.
func (s *CartService) refetch(ctx context.Context, snap map[string]uint64) {
	fetched, err := s.Remote.FetchCart(ctx)
	if err != nil {
		applog.Error(nil, "cart.refetch.fail", err, nil)
		return
	}
	s.applyFetched(fetched, snap)
}

func (s *CartService) applyFetched(fetched []domain.CartItem, snap map[string]uint64) {
	s.mu.Lock()
	out := make([]domain.CartItem, 0, len(fetched))
	for _, f := range fetched {
		if snap != nil && s.seq[f.ID] > snap[f.ID] {
			// a newer local edit is in flight for this line
			if loc := findLine(s.items, f.ID); loc != nil {
				f.Quantity = loc.Quantity
			} else {
				// removed locally after this call started
				continue
			}
		}
		out = append(out, f)
	}
	s.items = out
	s.mu.Unlock()
	// server lines live in memory only; the persisted blob keeps holding the
	// guest cart so it comes back untouched after logout
}

func (s *CartService) snapSeq() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]uint64, len(s.seq))
	for k, v := range s.seq {
		snap[k] = v
	}
	return snap
}

// remoteMessage prefers the server's user-facing message over the generic
// fallback.
func remoteMessage(err error, fallback string) string { return api.Message(err, fallback) }

func findLine(items []domain.CartItem, id string) *domain.CartItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

// AddToCart adds qty units of product. Guest mode merges into an existing
// line for the same product so the cart never holds two lines per product;
// authenticated mode defers entirely to the server and refetches.
func (s *CartService) AddToCart(ctx context.Context, product *domain.Product, qty int) error {
	if product == nil || product.ID == "" {
		s.Notify.Failure("This item can not be added to the cart.")
		return ErrMissingProduct
	}
	qty = validate.Qty(qty)

	if !s.authed() {
		s.mu.Lock()
		merged := false
		for i := range s.items {
			if s.items[i].ProductID == product.ID {
				s.items[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			s.items = append(s.items, domain.CartItem{
				ID:        domain.GuestIDPrefix + uuid.NewString(),
				ProductID: product.ID,
				Quantity:  qty,
				Product:   product,
			})
		}
		s.mu.Unlock()
		s.persist()
		s.Notify.Success("Added to cart.")
		return nil
	}

	// the add itself has no optimistic edit, but concurrent quantity edits on
	// other lines do; the snapshot keeps this refetch from reverting them
	snap := s.snapSeq()
	if err := s.Remote.AddItem(ctx, product.ID, qty); err != nil {
		s.Notify.Failure(remoteMessage(err, "Could not add item to cart."))
		s.refetch(ctx, snap)
		return fmt.Errorf("add to cart: %w", err)
	}
	s.refetch(ctx, snap)
	s.Notify.Success("Added to cart.")
	return nil
}

// UpdateQuantity sets the quantity of one line. Authenticated mode applies
// the change optimistically so the UI reflects it immediately, then
// reconciles; a failed server call is undone by the corrective refetch.
func (s *CartService) UpdateQuantity(ctx context.Context, itemID string, qty int) error {
	qty = validate.Qty(qty)

	if !s.authed() {
		s.mu.Lock()
		line := findLine(s.items, itemID)
		if line == nil {
			s.mu.Unlock()
			return ErrItemNotFound
		}
		line.Quantity = qty
		s.mu.Unlock()
		s.persist()
		return nil
	}

	s.mu.Lock()
	s.seq[itemID]++
	if line := findLine(s.items, itemID); line != nil {
		line.Quantity = qty
	}
	s.mu.Unlock()
	snap := s.snapSeq()

	if err := s.Remote.UpdateItem(ctx, itemID, qty); err != nil {
		// rollback-by-refetch: a fresh snapshot lets the refetch overwrite
		// this line with server truth while still shielding edits made
		// after this point
		s.refetch(ctx, s.snapSeq())
		s.Notify.Failure(remoteMessage(err, "Could not update the cart."))
		return fmt.Errorf("update quantity: %w", err)
	}
	s.refetch(ctx, snap)
	return nil
}

// RemoveFromCart deletes a line. Authenticated mode filters out any line
// matching either the cart-row id or the product id before calling the
// server, then reconciles by refetch.
func (s *CartService) RemoveFromCart(ctx context.Context, itemID string) error {
	if !s.authed() {
		s.mu.Lock()
		out := s.items[:0]
		for _, it := range s.items {
			if it.ID != itemID {
				out = append(out, it)
			}
		}
		s.items = out
		s.mu.Unlock()
		s.persist()
		return nil
	}

	s.mu.Lock()
	s.seq[itemID]++
	out := s.items[:0]
	for _, it := range s.items {
		if it.ID == itemID || it.ProductID == itemID {
			continue
		}
		out = append(out, it)
	}
	s.items = out
	s.mu.Unlock()
	snap := s.snapSeq()

	if err := s.Remote.RemoveItem(ctx, itemID); err != nil {
		s.refetch(ctx, s.snapSeq())
		s.Notify.Failure(remoteMessage(err, "Could not remove item from cart."))
		return fmt.Errorf("remove from cart: %w", err)
	}
	s.refetch(ctx, snap)
	s.Notify.Success("Item removed.")
	return nil
}

// ApplyCoupon sends the code plus the current subtotal to the server. The
// returned discount is clamped to the subtotal so a discount can never
// exceed the cart value. Requires a signed-in session; guests are rejected
// before any network call.
func (s *CartService) ApplyCoupon(ctx context.Context, code string) error {
	if !s.authed() {
		return ErrLoginRequired
	}
	code, ok := validate.CouponCode(code)
	if !ok {
		return ErrBadCouponCode
	}

	sub := s.Subtotal()
	coupon, disc, err := s.Remote.ApplyCoupon(ctx, code, sub)
	if err != nil {
		s.mu.Lock()
		s.coupon = nil
		s.discount = decimal.Zero
		s.mu.Unlock()
		msg := remoteMessage(err, "This coupon could not be applied.")
		s.Notify.Failure(msg)
		return fmt.Errorf("apply coupon: %w", err)
	}

	s.mu.Lock()
	s.coupon = coupon
	s.discount = domain.ClampDiscount(disc, sub)
	s.mu.Unlock()
	s.Notify.Success("Coupon applied.")
	return nil
}

// RemoveCoupon clears the coupon and discount locally. The coupon is not a
// server-tracked resource outside checkout, so no call is made.
func (s *CartService) RemoveCoupon() {
	s.mu.Lock()
	s.coupon = nil
	s.discount = decimal.Zero
	s.mu.Unlock()
}

// RestoreLocal swaps the in-memory lines back to the persisted guest cart
// and drops the coupon. Called on logout, where the server lines held in
// memory stop being valid.
func (s *CartService) RestoreLocal() {
	var items []domain.CartItem
	if s.Repo != nil {
		loaded, err := s.Repo.Load()
		if err != nil {
			applog.Error(nil, "cart.restore.fail", err, nil)
		} else {
			items = loaded
		}
	}
	s.mu.Lock()
	s.items = items
	s.coupon = nil
	s.discount = decimal.Zero
	s.seq = map[string]uint64{}
	s.mu.Unlock()
}

// Clear empties the cart and coupon locally and wipes the persisted lines.
func (s *CartService) Clear() {
	s.mu.Lock()
	s.items = nil
	s.coupon = nil
	s.discount = decimal.Zero
	s.seq = map[string]uint64{}
	s.mu.Unlock()
	if s.Repo != nil {
		if err := s.Repo.Clear(); err != nil {
			applog.Error(nil, "cart.persist.fail", err, nil)
		}
	}
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartService) Coupon() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon
}

func (s *CartService) Discount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.items)
}

func (s *CartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(domain.Subtotal(s.items), s.discount)
}

// persist writes the current lines to local storage. Only line items are
// persisted; the coupon is ephemeral. Failures are logged, never surfaced.
func (s *CartService) persist() {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Replace(s.Items()); err != nil {
		applog.Error(nil, "cart.persist.fail", err, nil)
	}
}
