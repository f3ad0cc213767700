package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

const maxCommentLen = 2000

type CommentService struct {
	comments *db.Table[models.Comment]
	listings *db.Table[models.Listing]
	bus      Publisher
	now      func() time.Time
}

func checkCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("comment must not be empty")
	}
	if len([]rune(text)) > maxCommentLen {
		return "", invalid("comment is longer than %d characters", maxCommentLen)
	}
	return text, nil
}

func (s *CommentService) Add(ctx context.Context, sess *models.Session, listingID, text string) (*models.Comment, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	text, err := checkCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := listingExists(ctx, s.listings, listingID); err != nil {
		return nil, err
	}

	now := s.now()
	comment := models.Comment{
		ID:        newID(now),
		UserID:    sess.UserID,
		UserName:  sess.Name,
		ListingID: listingID,
		Text:      text,
		CreatedAt: now,
	}
	err = s.comments.Update(ctx, func(comments []models.Comment) ([]models.Comment, error) {
		return append(comments, comment), nil
	})
	if err != nil {
		return nil, fmt.Errorf("comments.Add: %w", err)
	}
	s.bus.Publish(ctx, Event{Kind: EventCommented, ListingID: listingID, ActorID: sess.UserID, ActorName: sess.Name})
	return &comment, nil
}

// Edit replaces the text of a comment written by the caller.
func (s *CommentService) Edit(ctx context.Context, sess *models.Session, id, text string) (*models.Comment, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	text, err := checkCommentText(text)
	if err != nil {
		return nil, err
	}

	var edited models.Comment
	err = s.comments.Update(ctx, func(comments []models.Comment) ([]models.Comment, error) {
		for i := range comments {
			if comments[i].ID != id {
				continue
			}
			if comments[i].UserID != sess.UserID {
				return nil, fmt.Errorf("%w: comment %s belongs to another user", ErrForbidden, id)
			}
			now := s.now()
			comments[i].Text = text
			comments[i].UpdatedAt = &now
			edited = comments[i]
			return comments, nil
		}
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// Delete removes a comment written by the caller.
func (s *CommentService) Delete(ctx context.Context, sess *models.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return s.comments.Update(ctx, func(comments []models.Comment) ([]models.Comment, error) {
		for i := range comments {
			if comments[i].ID != id {
				continue
			}
			if comments[i].UserID != sess.UserID {
				return nil, fmt.Errorf("%w: comment %s belongs to another user", ErrForbidden, id)
			}
			return append(comments[:i], comments[i+1:]...), nil
		}
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, id)
	})
}

// ByListing returns the comments on a listing, newest first.
func (s *CommentService) ByListing(ctx context.Context, listingID string) ([]models.Comment, error) {
	return s.filter(ctx, func(c models.Comment) bool { return c.ListingID == listingID })
}

// ByUser returns the comments written by userID, newest first.
func (s *CommentService) ByUser(ctx context.Context, userID string) ([]models.Comment, error) {
	return s.filter(ctx, func(c models.Comment) bool { return c.UserID == userID })
}

func (s *CommentService) filter(ctx context.Context, match func(models.Comment) bool) ([]models.Comment, error) {
	comments, err := s.comments.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, c := range comments {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *CommentService) Count(ctx context.Context, listingID string) (int, error) {
	comments, err := s.comments.Load(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range comments {
		if c.ListingID == listingID {
			n++
		}
	}
	return n, nil
}
