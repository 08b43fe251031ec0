package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-laptop-shop/internal/auth"
	"github.com/ariefcatur/go-laptop-shop/internal/catalog"
	"github.com/ariefcatur/go-laptop-shop/internal/fault"
	kafkax "github.com/ariefcatur/go-laptop-shop/internal/kafka"
)

type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// Catalog is the stock ledger collaborator. ReserveStock must be a single
// atomic conditional decrement; the service builds every cross-document
// guarantee on top of that one primitive.
type Catalog interface {
	Find(ctx context.Context, id string) (*catalog.Product, error)
	ReserveStock(ctx context.Context, id string, qty int) error
	ReleaseStock(ctx context.Context, id string, qty int) error
}

type Store interface {
	Create(ctx context.Context, o *Order) error
	Find(ctx context.Context, id string) (*Order, error)
	Replace(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Service implements the reservation protocol: every order mutation is
// either fully applied (stock reserved, order written, total recomputed)
// or fully rejected with earlier reservations released.
type Service struct {
	Catalog Catalog
	Store   Store
	Pub     Publisher // optional; nil skips event publishing
	Name    string    // event producer name

	// Strict restricts admin status overwrites to forward-only
	// transitions. The cancel and delete operations are not affected.
	Strict bool
}

func (s *Service) Create(ctx context.Context, p auth.Principal, inputs []ItemInput) (*Order, error) {
	if len(inputs) == 0 {
		return nil, fault.New(fault.CodeValidation, "items[] required")
	}
	for _, in := range inputs {
		if in.ProductID == "" || in.Qty < 1 {
			return nil, fault.New(fault.CodeValidation, "each item needs product_id and qty >= 1")
		}
	}

	// Reserve line by line; any failure releases everything reserved so
	// far in this request. Full or nothing.
	var reserved []LineItem
	for _, in := range inputs {
		prod, err := s.Catalog.Find(ctx, in.ProductID)
		if err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		if err := s.Catalog.ReserveStock(ctx, prod.ID, in.Qty); err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, LineItem{
			ID:         uuid.NewString(),
			ProductID:  prod.ID,
			Brand:      prod.Brand,
			Model:      prod.Model,
			PriceCents: prod.PriceCents,
			Qty:        in.Qty,
		})
	}

	now := time.Now().UTC()
	o := &Order{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		Items:     reserved,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.TotalCents = o.Total()

	if err := s.Store.Create(ctx, o); err != nil {
		s.releaseAll(ctx, reserved)
		return nil, err
	}

	s.publish(ctx, EventOrderCreated, TopicOrderCreated, o.ID, OrderCreatedPayload{
		OrderID: o.ID, UserID: o.UserID, Items: snapshots(o.Items), TotalCents: o.TotalCents,
	})
	return o, nil
}

func (s *Service) Get(ctx context.Context, p auth.Principal, orderID string) (*Order, error) {
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, o) {
		return nil, fault.New(fault.CodeForbidden, "not your order")
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, p auth.Principal) ([]Order, error) {
	return s.Store.ListByUser(ctx, p.UserID)
}

func (s *Service) ListAll(ctx context.Context, p auth.Principal) ([]Order, error) {
	if !p.IsAdmin() {
		return nil, fault.New(fault.CodeForbidden, "admin only")
	}
	return s.Store.ListAll(ctx)
}

func (s *Service) AddItem(ctx context.Context, p auth.Principal, orderID string, in ItemInput) (*Order, error) {
	if in.ProductID == "" || in.Qty < 1 {
		return nil, fault.New(fault.CodeValidation, "product_id and qty >= 1 required")
	}
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, o) {
		return nil, fault.New(fault.CodeForbidden, "not your order")
	}
	if !CanEditItems(o.Status) {
		return nil, fault.New(fault.CodeInvalidTransition, "order is %s, items are frozen", o.Status)
	}

	prod, err := s.Catalog.Find(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.Catalog.ReserveStock(ctx, prod.ID, in.Qty); err != nil {
		return nil, err
	}

	item := LineItem{
		ID:         uuid.NewString(),
		ProductID:  prod.ID,
		Brand:      prod.Brand,
		Model:      prod.Model,
		PriceCents: prod.PriceCents,
		Qty:        in.Qty,
	}
	o.Items = append(o.Items, item)
	o.TotalCents = o.Total()
	o.UpdatedAt = time.Now().UTC()

	if err := s.Store.Replace(ctx, o); err != nil {
		// Commit failed after the reservation succeeded: compensate.
		s.releaseAll(ctx, []LineItem{item})
		return nil, err
	}

	s.publish(ctx, EventOrderItemAdded, TopicOrderItemAdded, o.ID, OrderItemAddedPayload{
		OrderID: o.ID, Item: snapshots([]LineItem{item})[0], TotalCents: o.TotalCents,
	})
	return o, nil
}

func (s *Service) RemoveItem(ctx context.Context, p auth.Principal, orderID, itemID string) (*Order, error) {
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, o) {
		return nil, fault.New(fault.CodeForbidden, "not your order")
	}
	if !CanEditItems(o.Status) {
		return nil, fault.New(fault.CodeInvalidTransition, "order is %s, items are frozen", o.Status)
	}
	idx, ok := o.findItem(itemID)
	if !ok {
		return nil, fault.New(fault.CodeNotFound, "item not found: %s", itemID)
	}
	item := o.Items[idx]

	if err := s.Catalog.ReleaseStock(releaseCtx(ctx), item.ProductID, item.Qty); err != nil {
		if !fault.IsCode(err, fault.CodeNotFound) {
			return nil, err
		}
		// Product gone from the catalog: nothing left to restock.
	}

	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	o.TotalCents = o.Total()
	o.UpdatedAt = time.Now().UTC()

	if err := s.Store.Replace(ctx, o); err != nil {
		// Commit failed after the release: take the stock back so the
		// ledger and the still-present line stay consistent.
		s.reserveAll(ctx, []LineItem{item})
		return nil, err
	}

	s.publish(ctx, EventOrderItemRemoved, TopicOrderItemRemoved, o.ID, OrderItemRemovedPayload{
		OrderID: o.ID, Item: snapshots([]LineItem{item})[0], TotalCents: o.TotalCents,
	})
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, p auth.Principal, orderID string) (*Order, error) {
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, o) {
		return nil, fault.New(fault.CodeForbidden, "not your order")
	}
	if o.Status == StatusCancelled {
		return nil, fault.New(fault.CodeInvalidTransition, "order already cancelled")
	}

	s.releaseAll(ctx, o.Items)
	released := o.Items

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now().UTC()
	if err := s.Store.Replace(ctx, o); err != nil {
		// Commit failed after the release: the lines are still live, so
		// the stock has to come back out of the ledger.
		s.reserveAll(ctx, released)
		return nil, err
	}

	s.publish(ctx, EventOrderCancelled, TopicOrderCancelled, o.ID, OrderCancelledPayload{
		OrderID: o.ID, Released: snapshots(released),
	})
	return o, nil
}

// Delete removes the order record. Unless the order already shipped, the
// reserved stock goes back first; shipped goods are physically gone.
func (s *Service) Delete(ctx context.Context, p auth.Principal, orderID string) error {
	if !p.IsAdmin() {
		return fault.New(fault.CodeForbidden, "admin only")
	}
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return err
	}

	var released []LineItem
	if o.Status != StatusShipped {
		s.releaseAll(ctx, o.Items)
		released = o.Items
	}
	if err := s.Store.Delete(ctx, orderID); err != nil {
		// The record survived, so its reservations must survive too.
		s.reserveAll(ctx, released)
		return err
	}

	s.publish(ctx, EventOrderDeleted, TopicOrderDeleted, o.ID, OrderDeletedPayload{
		OrderID: o.ID, Released: snapshots(released),
	})
	return nil
}

// SetStatus overwrites the order status. No stock side effects; use
// Cancel to get the stock back.
func (s *Service) SetStatus(ctx context.Context, p auth.Principal, orderID string, to Status) (*Order, error) {
	if !p.IsAdmin() {
		return nil, fault.New(fault.CodeForbidden, "admin only")
	}
	if _, ok := ParseStatus(string(to)); !ok {
		return nil, fault.New(fault.CodeValidation, "unknown status: %s", to)
	}
	o, err := s.Store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.Strict && !CanTransition(o.Status, to) {
		return nil, fault.New(fault.CodeInvalidTransition, "cannot go %s -> %s", o.Status, to)
	}

	from := o.Status
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	if err := s.Store.Replace(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, EventOrderStatusChanged, TopicOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID: o.ID, From: from, To: to,
	})
	return o, nil
}

func canAccess(p auth.Principal, o *Order) bool {
	return p.IsAdmin() || o.UserID == p.UserID
}

// releaseAll is the compensation path. Failures are logged, not
// propagated: the caller is already unwinding and a vanished product has
// nothing left to restock.
func (s *Service) releaseAll(ctx context.Context, items []LineItem) {
	ctx = releaseCtx(ctx)
	for _, it := range items {
		if err := s.Catalog.ReleaseStock(ctx, it.ProductID, it.Qty); err != nil {
			if fault.IsCode(err, fault.CodeNotFound) {
				continue
			}
			slog.Error("release stock", "product_id", it.ProductID, "qty", it.Qty, "err", err)
		}
	}
}

// reserveAll is the mirror compensation: a release already happened but
// the commit that justified it failed, so the stock goes back out of the
// ledger. Best effort, same as releaseAll.
func (s *Service) reserveAll(ctx context.Context, items []LineItem) {
	ctx = releaseCtx(ctx)
	for _, it := range items {
		if err := s.Catalog.ReserveStock(ctx, it.ProductID, it.Qty); err != nil {
			slog.Error("re-reserve stock", "product_id", it.ProductID, "qty", it.Qty, "err", err)
		}
	}
}

// releaseCtx detaches compensation from request cancellation so a timed
// out request cannot strand a reservation.
func releaseCtx(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Service) publish(ctx context.Context, eventType, topic, orderID string, payload any) {
	if s.Pub == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Pub.Publish(topic, PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
