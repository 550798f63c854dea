// Package memstore is an in-memory repository.Store for tests. It enforces the same
// constraints as the Postgres schema: unique usernames, one review per ticket, unique
// follow pairs, no self-follow and cascading deletes.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/repository"
)

type memDB struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	users   map[int64]domain.User
	tickets map[int64]domain.Ticket
	reviews map[int64]domain.Review
	follows map[int64]domain.Follow

	// hooks run without the lock, simulating a concurrent writer between a read and
	// the following insert.
	afterTicketGet    func()
	afterFollowExists func()
	failReviewCreate  error
}

func newMemDB() *memDB {
	return &memDB{
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:   map[int64]domain.User{},
		tickets: map[int64]domain.Ticket{},
		reviews: map[int64]domain.Review{},
		follows: map[int64]domain.Follow{},
	}
}

func (db *memDB) stamp() (int64, time.Time) {
	db.nextID++
	db.clock = db.clock.Add(time.Second)
	return db.nextID, db.clock
}

func (db *memDB) responded(ticketID int64) bool {
	for _, r := range db.reviews {
		if r.TicketID == ticketID {
			return true
		}
	}
	return false
}

func (db *memDB) isFollowing(followerID, followedID int64) bool {
	for _, f := range db.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true
		}
	}
	return false
}

func (db *memDB) visible(f repository.VisibilityFilter, ownerID, ticketOwnerID int64) bool {
	if ownerID == f.ViewerID {
		return true
	}
	if f.IncludeFollowed && db.isFollowing(f.ViewerID, ownerID) {
		return true
	}
	return f.IncludeResponses && ticketOwnerID == f.ViewerID
}

func (db *memDB) loadTicket(id int64) domain.Ticket {
	t := db.tickets[id]
	t.OwnerName = db.users[t.OwnerID].Username
	t.Responded = db.responded(id)
	return t
}

func (db *memDB) loadReview(id int64) domain.Review {
	r := db.reviews[id]
	r.OwnerName = db.users[r.OwnerID].Username
	t := db.loadTicket(r.TicketID)
	r.Ticket = &t
	return r
}

func (db *memDB) snapshot() *memDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := &memDB{
		users:   map[int64]domain.User{},
		tickets: map[int64]domain.Ticket{},
		reviews: map[int64]domain.Review{},
		follows: map[int64]domain.Follow{},
	}
	for k, v := range db.users {
		cp.users[k] = v
	}
	for k, v := range db.tickets {
		cp.tickets[k] = v
	}
	for k, v := range db.reviews {
		cp.reviews[k] = v
	}
	for k, v := range db.follows {
		cp.follows[k] = v
	}
	return cp
}

func (db *memDB) restore(cp *memDB) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.tickets, db.reviews, db.follows = cp.users, cp.tickets, cp.reviews, cp.follows
}

// Store implements repository.Store over memDB.
type Store struct {
	db *memDB
}

// New returns an empty store.
func New() *Store {
	return &Store{db: newMemDB()}
}

// Repos returns repositories bound to the store.
func (s *Store) Repos() repository.Repositories {
	return repository.Repositories{
		Users:   memUsers{s.db},
		Tickets: memTickets{s.db},
		Reviews: memReviews{s.db},
		Follows: memFollows{s.db},
	}
}

// WithinTx runs fn and restores the previous contents when it fails.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Repositories) error) error {
	cp := s.db.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.db.restore(cp)
		return err
	}
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: users_username_key", repository.ErrDuplicate)
		}
	}
	user.ID, user.CreatedAt = r.db.stamp()
	r.db.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memTickets struct{ db *memDB }

func (r memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[ticket.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	ticket.ID, ticket.CreatedAt = r.db.stamp()
	r.db.tickets[ticket.ID] = *ticket
	return nil
}

func (r memTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title, stored.Description, stored.Image = ticket.Title, ticket.Description, ticket.Image
	r.db.tickets[ticket.ID] = stored
	return nil
}

func (r memTickets) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.tickets, id)
	for rid, rv := range r.db.reviews {
		if rv.TicketID == id {
			delete(r.db.reviews, rid)
		}
	}
	return nil
}

func (r memTickets) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.db.mu.Lock()
	_, ok := r.db.tickets[id]
	var t domain.Ticket
	if ok {
		t = r.db.loadTicket(id)
	}
	hook := r.db.afterTicketGet
	r.db.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook()
	}
	return &t, nil
}

func (r memTickets) CountVisible(ctx context.Context, f repository.VisibilityFilter) (int, error) {
	list, err := r.ListVisible(ctx, f, 1<<30)
	return len(list), err
}

func (r memTickets) ListVisible(_ context.Context, f repository.VisibilityFilter, limit int) ([]domain.Ticket, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Ticket
	for id, t := range r.db.tickets {
		if r.db.visible(f, t.OwnerID, 0) {
			out = append(out, r.db.loadTicket(id))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, review *domain.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failReviewCreate != nil {
		return r.db.failReviewCreate
	}
	if _, ok := r.db.tickets[review.TicketID]; !ok {
		return repository.ErrNotFound
	}
	if review.Rating < domain.RatingMin || review.Rating > domain.RatingMax {
		return repository.ErrCheckViolation
	}
	if r.db.responded(review.TicketID) {
		return fmt.Errorf("%w: reviews_ticket_id_key", repository.ErrDuplicate)
	}
	review.ID, review.CreatedAt = r.db.stamp()
	stored := *review
	stored.Ticket = nil
	r.db.reviews[review.ID] = stored
	return nil
}

func (r memReviews) Update(_ context.Context, review *domain.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Rating, stored.Headline, stored.Body = review.Rating, review.Headline, review.Body
	r.db.reviews[review.ID] = stored
	return nil
}

func (r memReviews) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.reviews, id)
	return nil
}

func (r memReviews) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reviews[id]; !ok {
		return nil, repository.ErrNotFound
	}
	rv := r.db.loadReview(id)
	return &rv, nil
}

func (r memReviews) ExistsForTicket(_ context.Context, ticketID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.responded(ticketID), nil
}

func (r memReviews) CountVisible(ctx context.Context, f repository.VisibilityFilter) (int, error) {
	list, err := r.ListVisible(ctx, f, 1<<30)
	return len(list), err
}

func (r memReviews) ListVisible(_ context.Context, f repository.VisibilityFilter, limit int) ([]domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Review
	for id, rv := range r.db.reviews {
		if r.db.visible(f, rv.OwnerID, r.db.tickets[rv.TicketID].OwnerID) {
			out = append(out, r.db.loadReview(id))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memFollows struct{ db *memDB }

func (r memFollows) Create(_ context.Context, follow *domain.Follow) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if follow.FollowerID == follow.FollowedID {
		return fmt.Errorf("%w: follows_no_self", repository.ErrCheckViolation)
	}
	if r.db.isFollowing(follow.FollowerID, follow.FollowedID) {
		return fmt.Errorf("%w: follows_pair_key", repository.ErrDuplicate)
	}
	follow.ID, follow.CreatedAt = r.db.stamp()
	r.db.follows[follow.ID] = *follow
	return nil
}

func (r memFollows) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.follows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.follows, id)
	return nil
}

func (r memFollows) GetByID(_ context.Context, id int64) (*domain.Follow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.follows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.FollowerName = r.db.users[f.FollowerID].Username
	f.FollowedName = r.db.users[f.FollowedID].Username
	return &f, nil
}

func (r memFollows) Exists(_ context.Context, followerID, followedID int64) (bool, error) {
	r.db.mu.Lock()
	exists := r.db.isFollowing(followerID, followedID)
	hook := r.db.afterFollowExists
	r.db.mu.Unlock()
	if hook != nil {
		hook()
	}
	return exists, nil
}

func (r memFollows) ListFollowing(_ context.Context, userID int64) ([]domain.Follow, error) {
	return r.list(func(f domain.Follow) bool { return f.FollowerID == userID },
		func(f domain.Follow) string { return f.FollowedName })
}

func (r memFollows) ListFollowers(_ context.Context, userID int64) ([]domain.Follow, error) {
	return r.list(func(f domain.Follow) bool { return f.FollowedID == userID },
		func(f domain.Follow) string { return f.FollowerName })
}

func (r memFollows) list(match func(domain.Follow) bool, key func(domain.Follow) string) ([]domain.Follow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Follow
	for _, f := range r.db.follows {
		if match(f) {
			f.FollowerName = r.db.users[f.FollowerID].Username
			f.FollowedName = r.db.users[f.FollowedID].Username
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out, nil
}

// AfterTicketGet installs a hook that runs right after a ticket lookup, outside the
// lock. It simulates a concurrent writer between a read and the following insert.
func (s *Store) AfterTicketGet(hook func()) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.afterTicketGet = hook
}

// AfterFollowExists is AfterTicketGet for the follow existence check.
func (s *Store) AfterFollowExists(hook func()) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.afterFollowExists = hook
}

// FailReviewCreate makes every review insert return err until reset with nil.
func (s *Store) FailReviewCreate(err error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.failReviewCreate = err
}

// Counts reports the number of stored rows per table.
type Counts struct {
	Users, Tickets, Reviews, Follows int
}

// Counts returns the current row counts.
func (s *Store) Counts() Counts {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return Counts{
		Users:   len(s.db.users),
		Tickets: len(s.db.tickets),
		Reviews: len(s.db.reviews),
		Follows: len(s.db.follows),
	}
}
