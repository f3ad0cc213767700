package service

import (
	"context"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/db"
	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

type ViewService struct {
	views *db.Table[models.View]
	now   func() time.Time
}

// Record appends a view. userID is empty for anonymous visitors. Repeat views
// are all kept.
func (s *ViewService) Record(ctx context.Context, listingID, userID string) error {
	now := s.now()
	view := models.View{ID: newID(now), ListingID: listingID, Timestamp: now}
	if userID != "" {
		view.UserID = &userID
	}
	return s.views.Update(ctx, func(views []models.View) ([]models.View, error) {
		return append(views, view), nil
	})
}

func (s *ViewService) Count(ctx context.Context, listingID string) (int, error) {
	views, err := s.views.Load(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range views {
		if v.ListingID == listingID {
			n++
		}
	}
	return n, nil
}

func (s *ViewService) MostViewed(ctx context.Context, limit int) ([]Ranked, error) {
	views, err := s.views.Load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ListingID
	}
	return rank(ids, limit), nil
}
