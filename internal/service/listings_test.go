package service

import (
	"context"
	"testing"
	"time"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)

	created, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)
	require.NotNil(t, created.UserID)
	assert.Equal(t, owner.UserID, *created.UserID)
	assert.Equal(t, f.clock.Now(), created.CreatedAt)

	got, err := f.svc.Listings.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chambre à Sacré-Coeur", got.Title)
	assert.Equal(t, int64(70000), *got.Deposit)

	all, err := f.svc.Listings.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 11)

	mine, err := f.svc.Listings.ByUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}

func TestCreateListingValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)

	cases := map[string]func(*models.ListingInput){
		"blank title":  func(in *models.ListingInput) { in.Title = "   " },
		"missing city": func(in *models.ListingInput) { in.City = "" },
		"unknown type": func(in *models.ListingInput) { in.Type = "villa" },
		"zero price":   func(in *models.ListingInput) { in.Price = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := sampleInput()
			mutate(&in)
			_, err := f.svc.Listings.Create(context.Background(), owner, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := f.svc.Listings.Create(context.Background(), nil, sampleInput())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateListingKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)
	created, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	in := sampleInput()
	in.Price = 40000
	in.Title = "Chambre rénovée"
	updated, err := f.svc.Listings.Update(ctx, owner, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, owner.UserID, *updated.UserID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, int64(40000), updated.Price)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, f.clock.Now(), *updated.UpdatedAt)
}

func TestUpdateListingAccessControl(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)
	other := f.register(t, "Ibou", "ibou@test.sn", models.RoleBroker)
	created, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)

	in := sampleInput()
	in.Price = 1
	_, err = f.svc.Listings.Update(ctx, other, created.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Listings.Update(ctx, nil, created.ID, in)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.svc.Listings.Update(ctx, owner, "missing", in)
	assert.ErrorIs(t, err, ErrNotFound)

	// Seed listings have no owner, so nobody may edit them.
	_, err = f.svc.Listings.Update(ctx, owner, "1", in)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Listings.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), got.Price)
}

func TestDeleteListingCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)
	renter := f.login(t, "locataire@example.com", "123456")
	created, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)

	_, _, err = f.svc.Likes.Toggle(ctx, renter, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Favorites.Add(ctx, renter, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Comments.Add(ctx, renter, created.ID, "Disponible ?")
	require.NoError(t, err)

	other := f.register(t, "Ibou", "ibou@test.sn", models.RoleBroker)
	assert.ErrorIs(t, f.svc.Listings.Delete(ctx, other, created.ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.Listings.Delete(ctx, nil, created.ID), ErrUnauthenticated)

	require.NoError(t, f.svc.Listings.Delete(ctx, owner, created.ID))
	_, err = f.svc.Listings.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := f.svc.Listings.ByUser(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	likes, err := f.svc.Likes.Count(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	favs, err := f.svc.Favorites.ByUser(ctx, renter.UserID)
	require.NoError(t, err)
	assert.Empty(t, favs)
	comments, err := f.svc.Comments.Count(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, comments)

	assert.ErrorIs(t, f.svc.Listings.Delete(ctx, owner, created.ID), ErrNotFound)
}

func TestBrowseSeedCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.svc.Listings.Browse(ctx, query.Params{
		Criteria: models.SearchCriteria{City: "Dakar", PriceMax: 50000},
		Sort:     query.SortPriceAsc,
	})
	require.NoError(t, err)
	ids := make([]string, len(page.Items))
	for i, l := range page.Items {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"8", "1"}, ids)
	assert.Equal(t, 2, page.Total)
}

func TestBrowsePopularUsesLikeCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	renter := f.login(t, "locataire@example.com", "123456")
	broker := f.login(t, "courtier@example.com", "123456")

	for _, sess := range []*models.Session{renter, broker} {
		_, _, err := f.svc.Likes.Toggle(ctx, sess, "7")
		require.NoError(t, err)
	}
	_, _, err := f.svc.Likes.Toggle(ctx, renter, "4")
	require.NoError(t, err)

	page, err := f.svc.Listings.Browse(ctx, query.Params{Sort: query.SortPopular, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "7", page.Items[0].ID)
	assert.Equal(t, "4", page.Items[1].ID)
	assert.Equal(t, 5, page.Pages)
}

func TestReportListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.Listings.Report(ctx, "3", models.ReasonFraud, "  Demande un virement  ")
	require.NoError(t, err)
	assert.Equal(t, models.ReportOpen, report.Status)
	assert.Equal(t, "Demande un virement", report.Message)

	_, err = f.svc.Listings.Report(ctx, "3", "spam", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Listings.Report(ctx, "missing", models.ReasonOther, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReseedRestoresCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Fatou", "fatou@test.sn", models.RoleOwner)
	_, err := f.svc.Listings.Create(ctx, owner, sampleInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Listings.Reseed(ctx))
	all, err := f.svc.Listings.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
