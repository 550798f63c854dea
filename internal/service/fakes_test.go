package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/events"
	"github.com/spec-kit/litreview/internal/repository/memstore"
)

type memImages struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	failErr error
	n       int
}

func newMemImages() *memImages {
	return &memImages{saved: map[string][]byte{}}
}

func (m *memImages) Save(r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return "", m.failErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.n++
	key := fmt.Sprintf("img-%d.png", m.n)
	m.saved[key] = data
	return key, nil
}

func (m *memImages) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type eventRecorder struct {
	mu    sync.Mutex
	types []events.EventType
}

func (r *eventRecorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.Type)
	return nil
}

func (r *eventRecorder) seen() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.EventType{}, r.types...)
}

// fixture wires every service on top of one in-memory store.
type fixture struct {
	store    *memstore.Store
	images   *memImages
	recorder *eventRecorder
	tickets  *TicketService
	reviews  *ReviewService
	follows  *FollowService
	feed     *FeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	images := newMemImages()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	for _, et := range events.AllEventTypes {
		dispatcher.Subscribe(et, recorder.handle)
	}
	logger := zap.NewNop()

	return &fixture{
		store:    store,
		images:   images,
		recorder: recorder,
		tickets:  NewTicketService(TicketDependencies{Store: store, Images: images, Dispatcher: dispatcher, Logger: logger}),
		reviews:  NewReviewService(ReviewDependencies{Store: store, Images: images, Dispatcher: dispatcher, Logger: logger}),
		follows:  NewFollowService(store, dispatcher, logger),
		feed:     NewFeedService(store),
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, PasswordHash: "x"}
	if err := f.store.Repos().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) ticket(t *testing.T, owner *domain.User, title string) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), owner, domain.TicketForm{Title: title}, nil)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func (f *fixture) follow(t *testing.T, follower, followed *domain.User) *domain.Follow {
	t.Helper()
	follow, err := f.follows.CreateFollow(context.Background(), follower, followed.Username)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	return follow
}

var errInjected = errors.New("injected failure")
