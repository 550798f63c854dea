// Package seed fills a database with demo users, tickets, reviews and follows. It goes
// through the services, so seeded data obeys the same rules as user input.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/spec-kit/litreview/internal/domain"
	"github.com/spec-kit/litreview/internal/service"
	apperrors "github.com/spec-kit/litreview/pkg/util"
)

// Options sizes the generated data set.
type Options struct {
	Users             int
	TicketsPerUser    int
	StandalonePerUser int
	FollowsPerUser    int
	// ResponsePercent is the chance, 0..100, that a ticket gets a response.
	ResponsePercent int
	Password        string
	Seed            int64
}

// DefaultOptions is a small, browsable data set.
func DefaultOptions() Options {
	return Options{
		Users:             12,
		TicketsPerUser:    4,
		StandalonePerUser: 2,
		FollowsPerUser:    3,
		ResponsePercent:   50,
		Password:          "litreview-demo",
		Seed:              1,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users     int
	Tickets   int
	Reviews   int
	Follows   int
	Responses int
}

// Services are the entry points the seeder writes through.
type Services struct {
	Auth    *service.AuthService
	Tickets *service.TicketService
	Reviews *service.ReviewService
	Follows *service.FollowService
}

// Seeder generates deterministic fake content for a given seed.
type Seeder struct {
	svc    Services
	opts   Options
	faker  *gofakeit.Faker
	logger *zap.Logger
}

// NewSeeder builds a seeder.
func NewSeeder(svc Services, opts Options, logger *zap.Logger) *Seeder {
	return &Seeder{svc: svc, opts: opts, faker: gofakeit.New(opts.Seed), logger: logger}
}

// Run creates users first, then the follow graph, tickets with optional responses and
// finally standalone reviews.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	users, err := s.createUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)

	follows, err := s.createFollows(ctx, users)
	if err != nil {
		return sum, err
	}
	sum.Follows = follows

	for _, owner := range users {
		for i := 0; i < s.opts.TicketsPerUser; i++ {
			ticket, err := s.svc.Tickets.CreateTicket(ctx, owner, s.ticketForm(), nil)
			if err != nil {
				return sum, fmt.Errorf("create ticket for %s: %w", owner.Username, err)
			}
			sum.Tickets++

			if len(users) < 2 || s.faker.Number(1, 100) > s.opts.ResponsePercent {
				continue
			}
			responder := s.pickOther(users, owner)
			if _, err := s.svc.Reviews.CreateResponse(ctx, responder, ticket.ID, s.reviewForm()); err != nil {
				return sum, fmt.Errorf("respond to ticket %d: %w", ticket.ID, err)
			}
			sum.Reviews++
			sum.Responses++
		}
		for i := 0; i < s.opts.StandalonePerUser; i++ {
			if _, _, err := s.svc.Reviews.CreateReview(ctx, owner, s.ticketForm(), s.reviewForm(), nil); err != nil {
				return sum, fmt.Errorf("create review for %s: %w", owner.Username, err)
			}
			sum.Tickets++
			sum.Reviews++
		}
	}

	s.logger.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("tickets", sum.Tickets),
		zap.Int("reviews", sum.Reviews),
		zap.Int("responses", sum.Responses),
		zap.Int("follows", sum.Follows))
	return sum, nil
}

func (s *Seeder) createUsers(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, s.opts.Users)
	for len(users) < s.opts.Users {
		name := fmt.Sprintf("%s%d", s.faker.Username(), s.faker.Number(100, 999))
		user, _, err := s.svc.Auth.Signup(ctx, domain.SignupForm{
			Username:      name,
			Password:      s.opts.Password,
			PasswordCheck: s.opts.Password,
		})
		if apperrors.HasCode(err, apperrors.CodeDuplicateUsername) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("signup %s: %w", name, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createFollows(ctx context.Context, users []*domain.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	want := min(s.opts.FollowsPerUser, len(users)-1)
	created := 0
	for _, follower := range users {
		for made := 0; made < want; {
			target := s.pickOther(users, follower)
			_, err := s.svc.Follows.CreateFollow(ctx, follower, target.Username)
			if apperrors.HasCode(err, apperrors.CodeDuplicateFollow) {
				continue
			}
			if err != nil {
				return created, fmt.Errorf("%s follows %s: %w", follower.Username, target.Username, err)
			}
			made++
			created++
		}
	}
	return created, nil
}

func (s *Seeder) pickOther(users []*domain.User, not *domain.User) *domain.User {
	for {
		u := users[s.faker.Number(0, len(users)-1)]
		if u.ID != not.ID {
			return u
		}
	}
}

func (s *Seeder) ticketForm() domain.TicketForm {
	return domain.TicketForm{
		Title:       s.faker.Sentence(4),
		Description: s.faker.Paragraph(1, 2, 12, " "),
	}
}

func (s *Seeder) reviewForm() domain.ReviewForm {
	return domain.ReviewForm{
		Rating:   fmt.Sprint(s.faker.Number(domain.RatingMin, domain.RatingMax)),
		Headline: s.faker.Sentence(3),
		Body:     s.faker.Paragraph(1, 3, 10, "\n"),
	}
}
