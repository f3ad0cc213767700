package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/query"
	"github.com/sirupsen/logrus"
)

// ListingReader is the read-only listing access the notifier needs.
type ListingReader interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
}

// UserReader is the read-only account access the notifier needs.
type UserReader interface {
	UsersByRole(ctx context.Context, role models.Role) ([]models.PublicUser, error)
}

// SavedSearchReader lists every saved search.
type SavedSearchReader interface {
	All(ctx context.Context) ([]models.SavedSearch, error)
}

// NotificationService turns engagement events into notifications and serves
// each user's inbox. Inboxes are newest first.
type NotificationService struct {
	notifications *db.Table[models.Notification]
	listings      ListingReader
	users         UserReader
	searches      SavedSearchReader
	now           func() time.Time
	log           *logrus.Logger
}

func listingLink(id string) string {
	return "/listing/" + id
}

// Handle implements Handler.
func (s *NotificationService) Handle(ctx context.Context, ev Event) error {
	listing, err := s.listings.Get(ctx, ev.ListingID)
	if err != nil {
		return err
	}

	var out []models.Notification
	switch ev.Kind {
	case EventLiked, EventFavorited, EventCommented:
		if listing.UserID == nil || *listing.UserID == ev.ActorID {
			return nil
		}
		out = append(out, s.engagement(ev, listing))
	case EventReported:
		admins, err := s.users.UsersByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		for _, a := range admins {
			out = append(out, s.build(a.ID, models.NotifyReport, "Annonce signalée",
				fmt.Sprintf("L'annonce \"%s\" a été signalée", listing.Title), listing.ID, ""))
		}
	case EventListingCreated:
		recipients, err := s.matchingRenters(ctx, listing, ev.ActorID)
		if err != nil {
			return err
		}
		for _, userID := range recipients {
			out = append(out, s.build(userID, models.NotifyNewListing, "Nouvelle annonce",
				fmt.Sprintf("Nouvelle annonce correspondant à votre recherche : \"%s\"", listing.Title), listing.ID, ev.ActorID))
		}
	default:
		return nil
	}
	if len(out) == 0 {
		return nil
	}

	err = s.notifications.Update(ctx, func(rows []models.Notification) ([]models.Notification, error) {
		// Prepend so the inbox stays newest first.
		merged := make([]models.Notification, 0, len(rows)+len(out))
		for i := len(out) - 1; i >= 0; i-- {
			merged = append(merged, out[i])
		}
		return append(merged, rows...), nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"event": ev.Kind, "listing": ev.ListingID, "count": len(out)}).Debug("notifications created")
	return nil
}

func (s *NotificationService) engagement(ev Event, listing *models.Listing) models.Notification {
	var typ models.NotificationType
	var title, message string
	switch ev.Kind {
	case EventLiked:
		typ, title = models.NotifyLike, "Nouveau like"
		message = fmt.Sprintf("%s a liké votre annonce \"%s\"", ev.ActorName, listing.Title)
	case EventFavorited:
		typ, title = models.NotifyFavorite, "Ajouté aux favoris"
		message = fmt.Sprintf("%s a ajouté votre annonce \"%s\" à ses favoris", ev.ActorName, listing.Title)
	default:
		typ, title = models.NotifyComment, "Nouveau commentaire"
		message = fmt.Sprintf("%s a commenté votre annonce \"%s\"", ev.ActorName, listing.Title)
	}
	return s.build(*listing.UserID, typ, title, message, listing.ID, ev.ActorID)
}

func (s *NotificationService) build(recipient string, typ models.NotificationType, title, message, listingID, relatedUser string) models.Notification {
	now := s.now()
	return models.Notification{
		ID:            newID(now),
		UserID:        recipient,
		Type:          typ,
		Title:         title,
		Message:       message,
		ListingID:     listingID,
		RelatedUserID: relatedUser,
		Link:          listingLink(listingID),
		CreatedAt:     now,
	}
}

// matchingRenters returns each user, other than the author, with a saved
// search matching listing. Every user appears once.
func (s *NotificationService) matchingRenters(ctx context.Context, listing *models.Listing, authorID string) ([]string, error) {
	searches, err := s.searches.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, ss := range searches {
		if ss.UserID == authorID || seen[ss.UserID] {
			continue
		}
		if query.Matches(ss.Criteria, *listing) {
			seen[ss.UserID] = true
			out = append(out, ss.UserID)
		}
	}
	return out, nil
}

// ForUser returns userID's notifications, newest first.
func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := s.notifications.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Notification{}
	for _, n := range rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	rows, err := s.ForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if !r.Read {
			n++
		}
	}
	return n, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, sess *models.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.notifications.Update(ctx, func(rows []models.Notification) ([]models.Notification, error) {
		i, err := findNotification(rows, sess.UserID, id)
		if err != nil {
			return nil, err
		}
		rows[i].Read = true
		return rows, nil
	})
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess *models.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.notifications.Update(ctx, func(rows []models.Notification) ([]models.Notification, error) {
		for i := range rows {
			if rows[i].UserID == sess.UserID {
				rows[i].Read = true
			}
		}
		return rows, nil
	})
}

func (s *NotificationService) Delete(ctx context.Context, sess *models.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.notifications.Update(ctx, func(rows []models.Notification) ([]models.Notification, error) {
		i, err := findNotification(rows, sess.UserID, id)
		if err != nil {
			return nil, err
		}
		return append(rows[:i], rows[i+1:]...), nil
	})
}

func (s *NotificationService) DeleteAll(ctx context.Context, sess *models.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.notifications.Update(ctx, func(rows []models.Notification) ([]models.Notification, error) {
		return dropWhere(rows, func(n models.Notification) bool { return n.UserID == sess.UserID }), nil
	})
}

func findNotification(rows []models.Notification, userID, id string) (int, error) {
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		if rows[i].UserID != userID {
			return -1, fmt.Errorf("%w: notification %s belongs to another user", ErrForbidden, id)
		}
		return i, nil
	}
	return -1, fmt.Errorf("%w: notification %s", ErrNotFound, id)
}
