package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"order-loom/internal/model"
	"order-loom/internal/repository"
	"order-loom/internal/service"
)

var errBoom = errors.New("connection reset by peer")

type fakeOrders struct {
	mu        sync.Mutex
	m         map[string]model.Order
	insertErr error
	findErr   error
	countErr  error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{m: map[string]model.Order{}}
}

func (r *fakeOrders) Insert(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	o.ID = primitive.NewObjectID()
	r.m[o.ID.Hex()] = *o
	return nil
}

func (r *fakeOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	o, ok := r.m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrders) ExistsPending(_ context.Context, productID, buyerEmail string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return false, r.countErr
	}
	for _, o := range r.m {
		if o.ProductID == productID && o.BuyerEmail == buyerEmail && o.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrders) UpdateStatus(_ context.Context, id string, status model.Status, approvedAt *time.Time) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = status
	if approvedAt != nil {
		t := *approvedAt
		o.ApprovedAt = &t
	}
	r.m[id] = o
	return &o, nil
}

func (r *fakeOrders) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *fakeOrders) FindAll(_ context.Context) ([]*model.Order, error) {
	return r.filter(func(*model.Order) bool { return true }), nil
}

func (r *fakeOrders) FindByStatus(_ context.Context, status model.Status) ([]*model.Order, error) {
	return r.filter(func(o *model.Order) bool { return o.Status == status }), nil
}

func (r *fakeOrders) FindByBuyer(_ context.Context, email string) ([]*model.Order, error) {
	return r.filter(func(o *model.Order) bool { return o.BuyerEmail == email }), nil
}

func (r *fakeOrders) filter(keep func(*model.Order) bool) []*model.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Order{}
	for _, o := range r.m {
		o := o
		if keep(&o) {
			out = append(out, &o)
		}
	}
	return out
}

func (r *fakeOrders) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

type fakeLedger struct {
	mu        sync.Mutex
	events    []model.TrackingEvent
	appendErr error
}

func (l *fakeLedger) Append(_ context.Context, e *model.TrackingEvent) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return "", l.appendErr
	}
	e.ID = primitive.NewObjectID()
	l.events = append(l.events, *e)
	return e.ID.Hex(), nil
}

func (l *fakeLedger) ListByTrackingID(_ context.Context, trackingID string) ([]*model.TrackingEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []*model.TrackingEvent{}
	for _, e := range l.events {
		e := e
		if e.TrackingID == trackingID {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (l *fakeLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []service.OrderEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e service.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type fakeUsers struct {
	m   map[string]model.User
	err error
}

func (u *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	usr, ok := u.m[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &usr, nil
}

func (u *fakeUsers) Upsert(_ context.Context, usr *model.User) (*model.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	if existing, ok := u.m[usr.Email]; ok {
		return &existing, nil
	}
	u.m[usr.Email] = *usr
	return usr, nil
}

func (u *fakeUsers) SetApproval(_ context.Context, email, approval string) (*model.User, error) {
	usr, ok := u.m[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	usr.AdminApproval = approval
	u.m[email] = usr
	return &usr, nil
}

func (u *fakeUsers) SetRole(_ context.Context, email string, role model.Role) (*model.User, error) {
	usr, ok := u.m[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	usr.Role = role
	u.m[email] = usr
	return &usr, nil
}

func (u *fakeUsers) FindAll(_ context.Context) ([]*model.User, error) {
	out := []*model.User{}
	for _, usr := range u.m {
		usr := usr
		out = append(out, &usr)
	}
	return out, nil
}
