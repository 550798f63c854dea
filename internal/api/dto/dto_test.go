package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/litreview/internal/domain"
)

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(5))
}

func TestPostedBy(t *testing.T) {
	viewer := &domain.User{ID: 1, Username: "alice"}
	assert.Equal(t, "you", PostedBy(1, "alice", viewer))
	assert.Equal(t, "bob", PostedBy(2, "bob", viewer))
}

func TestNewFeedPageResponse(t *testing.T) {
	viewer := &domain.User{ID: 1, Username: "alice"}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	key := "abc.png"
	ticket := &domain.Ticket{ID: 10, OwnerID: 1, OwnerName: "alice", Title: "Dune", Image: &key, CreatedAt: now}
	review := &domain.Review{ID: 5, TicketID: 10, Ticket: ticket, Rating: 4, OwnerID: 2, OwnerName: "bob", CreatedAt: now.Add(time.Minute)}

	p := domain.Paginate(1, 2, domain.FeedPageSize)
	page := domain.BuildFeedPage(domain.FeedScopeFeed, []domain.Ticket{*ticket}, []domain.Review{*review}, p)
	resp := NewFeedPageResponse(&page, viewer)

	require.Len(t, resp.Items, 2)
	first, ok := resp.Items[0].(ReviewResponse)
	require.True(t, ok)
	assert.Equal(t, "REVIEW", first.Kind)
	assert.Equal(t, "bob", first.PostedBy)
	assert.Equal(t, "you", first.Ticket.PostedBy)
	assert.Equal(t, "★★★★☆", first.Stars)

	second, ok := resp.Items[1].(TicketResponse)
	require.True(t, ok)
	assert.True(t, second.OwnedByYou)
	require.NotNil(t, second.ImageURL)
	assert.Equal(t, "/media/abc.png", *second.ImageURL)
	assert.Equal(t, []int64{10}, resp.Responded)
}

func TestNewFollowsPageResponse(t *testing.T) {
	following := []domain.Follow{{ID: 1, FollowerName: "alice", FollowedName: "bob"}}
	followers := []domain.Follow{{ID: 2, FollowerName: "carol", FollowedName: "alice"}}
	resp := NewFollowsPageResponse(following, followers, nil)
	assert.Equal(t, "bob", resp.Following[0].Username)
	assert.Equal(t, "carol", resp.Followers[0].Username)
	assert.Nil(t, resp.Message)
}

func TestFormValueUnmarshalJSON(t *testing.T) {
	cases := map[string]FormValue{
		`"4"`:   "4",
		`4`:     "4",
		`2.5`:   "2.5",
		`true`:  "true",
		`null`:  "",
		`" x "`: " x ",
	}
	for raw, want := range cases {
		var v FormValue
		require.NoError(t, json.Unmarshal([]byte(raw), &v), raw)
		assert.Equal(t, want, v, raw)
	}

	var v FormValue
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &v))
}
