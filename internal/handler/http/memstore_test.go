package http

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/StallReview/internal/domain"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// memStore is an in-memory backing for every repository so the router can
// be exercised end to end without PostgreSQL.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	stalls  []domain.Stall
	items   []domain.Item
	users   []domain.User
	reviews []domain.Review

	// failWrites makes every create report the store as unreachable.
	failWrites error
	// failReads does the same for user lookups.
	failReads error
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memStalls struct{ *memStore }
type memItems struct{ *memStore }
type memUsers struct{ *memStore }
type memReviews struct{ *memStore }

func (s memStalls) Create(_ context.Context, st *domain.Stall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	st.ID, st.CreatedAt = s.id(), time.Now().UTC()
	s.stalls = append(s.stalls, *st)
	return nil
}

func (s memStalls) List(context.Context) ([]domain.Stall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Stall{}, s.stalls...), nil
}

func (s memStalls) find(match func(domain.Stall) bool) (*domain.Stall, bool) {
	for i := range s.stalls {
		if match(s.stalls[i]) {
			st := s.stalls[i]
			return &st, true
		}
	}
	return nil, false
}

func (s memStalls) GetByID(_ context.Context, id int64) (*domain.Stall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.find(func(x domain.Stall) bool { return x.ID == id }); ok {
		return st, nil
	}
	return nil, apperrors.NotFound("stall", id)
}

func (s memStalls) GetByName(_ context.Context, name string) (*domain.Stall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.find(func(x domain.Stall) bool { return x.StallName == name }); ok {
		return st, nil
	}
	return nil, apperrors.NotFoundBy("stall", "stall_name", name)
}

func (s memStalls) GetByOwnerName(_ context.Context, owner string) (*domain.Stall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.find(func(x domain.Stall) bool { return x.OwnerName == owner }); ok {
		return st, nil
	}
	return nil, apperrors.NotFoundBy("stall", "owner_name", owner)
}

func (s memStalls) UpdateThumbnailURL(_ context.Context, id int64, url *string) (*domain.Stall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stalls {
		if s.stalls[i].ID == id {
			s.stalls[i].ThumbnailURL = url
			st := s.stalls[i]
			return &st, nil
		}
	}
	return nil, apperrors.NotFound("stall", id)
}

func (s memItems) Create(_ context.Context, it *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	it.ID, it.CreatedAt = s.id(), time.Now().UTC()
	s.items = append(s.items, *it)
	return nil
}

func (s memItems) List(context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item{}, s.items...), nil
}

func (s memItems) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, apperrors.NotFound("item", id)
}

func (s memItems) ListByStallID(_ context.Context, stallID int64) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Item{}
	for _, it := range s.items {
		if it.StallID == stallID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s memUsers) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return apperrors.AlreadyExists("user", "username", u.Username)
		}
		if existing.Email == u.Email {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
	}
	u.ID, u.CreatedAt = s.id(), time.Now().UTC()
	s.users = append(s.users, *u)
	return nil
}

func (s memUsers) List(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User{}, s.users...), nil
}

func (s memUsers) lookup(match func(domain.User) bool, notFound error) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads != nil {
		return nil, s.failReads
	}
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, notFound
}

func (s memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return s.lookup(func(u domain.User) bool { return u.ID == id }, apperrors.NotFound("user", id))
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.lookup(func(u domain.User) bool { return u.Username == username },
		apperrors.NotFoundBy("user", "username", username))
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.lookup(func(u domain.User) bool { return u.Email == email },
		apperrors.NotFoundBy("user", "email", email))
}

func (s memReviews) Create(_ context.Context, rv *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites != nil {
		return s.failWrites
	}
	rv.ID, rv.CreatedAt = s.id(), time.Now().UTC()
	s.reviews = append(s.reviews, *rv)
	return nil
}

func (s memReviews) filter(match func(domain.Review) bool) []domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range s.reviews {
		if match(rv) {
			out = append(out, rv)
		}
	}
	return out
}

func (s memReviews) List(context.Context) ([]domain.Review, error) {
	return s.filter(func(domain.Review) bool { return true }), nil
}

func (s memReviews) ListByStallID(_ context.Context, stallID int64) ([]domain.Review, error) {
	return s.filter(func(rv domain.Review) bool { return rv.StallID == stallID }), nil
}

func (s memReviews) ListByUserID(_ context.Context, userID int64) ([]domain.Review, error) {
	return s.filter(func(rv domain.Review) bool { return rv.UserID == userID }), nil
}

func (s memReviews) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	for _, rv := range s.filter(func(rv domain.Review) bool { return rv.ID == id }) {
		return &rv, nil
	}
	return nil, apperrors.NotFound("review", id)
}

func (s memReviews) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rv := range s.reviews {
		if rv.ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("review", id)
}
