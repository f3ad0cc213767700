package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxNewestFirstAndReadState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.login(t, "proprietaire@example.com", "123456")
	listing, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)
	renter := f.login(t, "locataire@example.com", "123456")

	_, _, err = f.svc.Likes.Toggle(ctx, renter, listing.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.svc.Favorites.Add(ctx, renter, listing.ID)
	require.NoError(t, err)

	inbox, err := f.svc.Notifications.ForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, models.NotifyFavorite, inbox[0].Type)
	assert.Equal(t, models.NotifyLike, inbox[1].Type)

	unread, err := f.svc.Notifications.UnreadCount(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	assert.ErrorIs(t, f.svc.Notifications.MarkRead(ctx, renter, inbox[0].ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.Notifications.MarkRead(ctx, owner, "missing"), ErrNotFound)
	require.NoError(t, f.svc.Notifications.MarkRead(ctx, owner, inbox[0].ID))
	unread, err = f.svc.Notifications.UnreadCount(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, f.svc.Notifications.MarkAllRead(ctx, owner))
	unread, err = f.svc.Notifications.UnreadCount(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestDeleteNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.login(t, "proprietaire@example.com", "123456")
	listing, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)
	renter := f.login(t, "locataire@example.com", "123456")
	broker := f.login(t, "courtier@example.com", "123456")

	for _, sess := range []*models.Session{renter, broker} {
		_, _, err := f.svc.Likes.Toggle(ctx, sess, listing.ID)
		require.NoError(t, err)
	}
	inbox, err := f.svc.Notifications.ForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	assert.ErrorIs(t, f.svc.Notifications.Delete(ctx, broker, inbox[0].ID), ErrForbidden)
	require.NoError(t, f.svc.Notifications.Delete(ctx, owner, inbox[0].ID))
	inbox, err = f.svc.Notifications.ForUser(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	require.NoError(t, f.svc.Notifications.DeleteAll(ctx, owner))
	inbox, err = f.svc.Notifications.ForUser(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	assert.ErrorIs(t, f.svc.Notifications.DeleteAll(ctx, nil), ErrUnauthenticated)
}

func TestReportNotifiesAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)

	_, err := f.svc.Listings.Report(ctx, "4", models.ReasonUnavailable, "")
	require.NoError(t, err)

	inbox, err := f.svc.Notifications.ForUser(ctx, admin.UserID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifyReport, inbox[0].Type)
	assert.Equal(t, "4", inbox[0].ListingID)
}

func TestNewListingNotifiesMatchingSavedSearches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	renter := f.login(t, "locataire@example.com", "123456")
	other := f.register(t, "Khady", "khady@test.sn", models.RoleRenter)

	_, err := f.svc.Searches.Save(ctx, renter, models.SearchCriteria{City: "Dakar", PriceMax: 40000})
	require.NoError(t, err)
	_, err = f.svc.Searches.Save(ctx, renter, models.SearchCriteria{Type: models.TypeRoom})
	require.NoError(t, err)
	_, err = f.svc.Searches.Save(ctx, other, models.SearchCriteria{City: "Thiès"})
	require.NoError(t, err)

	owner := f.login(t, "proprietaire@example.com", "123456")
	_, err = f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)

	inbox, err := f.svc.Notifications.ForUser(ctx, renter.UserID)
	require.NoError(t, err)
	require.Len(t, inbox, 1, "one notification per user even with two matching searches")
	assert.Equal(t, models.NotifyNewListing, inbox[0].Type)
	assert.Equal(t, owner.UserID, inbox[0].RelatedUserID)

	inbox, err = f.svc.Notifications.ForUser(ctx, other.UserID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

type failingHandler struct{ calls int }

func (h *failingHandler) Handle(context.Context, Event) error {
	h.calls++
	return errors.New("boom")
}

func TestBusLogsHandlerErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	bus := NewBus(log)
	first, second := &failingHandler{}, &failingHandler{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(context.Background(), Event{Kind: EventLiked, ListingID: "1"})

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, EventLiked, hook.LastEntry().Data["event"])
}
