package handlers

import (
	"net/http"
	"strconv"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/query"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ListingHandler struct {
	listings  *service.ListingService
	likes     *service.LikeService
	favorites *service.FavoriteService
	comments  *service.CommentService
	views     *service.ViewService
	log       *logrus.Logger
}

func NewListingHandler(svc *service.Service, log *logrus.Logger) *ListingHandler {
	return &ListingHandler{
		listings:  svc.Listings,
		likes:     svc.Likes,
		favorites: svc.Favorites,
		comments:  svc.Comments,
		views:     svc.Views,
		log:       log,
	}
}

type browseQuery struct {
	Search   string             `form:"search"`
	City     string             `form:"city"`
	Type     models.ListingType `form:"type"`
	PriceMin int64              `form:"priceMin"`
	PriceMax int64              `form:"priceMax"`
	Sort     string             `form:"sort"`
	Page     int                `form:"page"`
	PageSize int                `form:"pageSize"`
}

func (q browseQuery) params() query.Params {
	return query.Params{
		Criteria: models.SearchCriteria{
			Search:   q.Search,
			City:     q.City,
			Type:     q.Type,
			PriceMin: q.PriceMin,
			PriceMax: q.PriceMax,
		},
		Sort:     query.ParseSort(q.Sort),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// Browse serves GET /api/listings with filters, sort and pagination.
func (h *ListingHandler) Browse(c *gin.Context) {
	var q browseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.listings.Browse(c.Request.Context(), q.params())
	if err != nil {
		handleError(c, h.log, err, "browse failed")
		return
	}
	c.JSON(http.StatusOK, page)
}

type listingDetail struct {
	*models.Listing
	Likes    int  `json:"likes"`
	Comments int  `json:"comments"`
	Views    int  `json:"views"`
	Liked    bool `json:"liked"`
	Favorite bool `json:"favorite"`
}

// Get serves one listing and records the view.
func (h *ListingHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	listing, err := h.listings.Get(ctx, id)
	if err != nil {
		handleError(c, h.log, err, "listing lookup failed")
		return
	}
	uid := userID(c)
	if err := h.views.Record(ctx, id, uid); err != nil {
		h.log.WithError(err).WithField("listing", id).Warn("view not recorded")
	}

	detail := listingDetail{Listing: listing}
	if detail.Likes, err = h.likes.Count(ctx, id); err != nil {
		handleError(c, h.log, err, "like count failed")
		return
	}
	if detail.Comments, err = h.comments.Count(ctx, id); err != nil {
		handleError(c, h.log, err, "comment count failed")
		return
	}
	if detail.Views, err = h.views.Count(ctx, id); err != nil {
		handleError(c, h.log, err, "view count failed")
		return
	}
	if uid != "" {
		if detail.Liked, err = h.likes.HasLiked(ctx, uid, id); err != nil {
			handleError(c, h.log, err, "like lookup failed")
			return
		}
		if detail.Favorite, err = h.favorites.IsFavorite(ctx, uid, id); err != nil {
			handleError(c, h.log, err, "favorite lookup failed")
			return
		}
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ListingHandler) Create(c *gin.Context) {
	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	listing, err := h.listings.Create(c.Request.Context(), session(c), in)
	if err != nil {
		handleError(c, h.log, err, "listing create failed")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) Update(c *gin.Context) {
	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	listing, err := h.listings.Update(c.Request.Context(), session(c), c.Param("id"), in)
	if err != nil {
		handleError(c, h.log, err, "listing update failed")
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.listings.Delete(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "listing delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// ByUser serves the public listings of one owner or broker.
func (h *ListingHandler) ByUser(c *gin.Context) {
	listings, err := h.listings.ByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "listings by user failed")
		return
	}
	c.JSON(http.StatusOK, listings)
}

func limitParam(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (h *ListingHandler) MostLiked(c *gin.Context) {
	ranked, err := h.likes.MostLiked(c.Request.Context(), limitParam(c, 5))
	if err != nil {
		handleError(c, h.log, err, "ranking failed")
		return
	}
	c.JSON(http.StatusOK, ranked)
}

func (h *ListingHandler) MostViewed(c *gin.Context) {
	ranked, err := h.views.MostViewed(c.Request.Context(), limitParam(c, 5))
	if err != nil {
		handleError(c, h.log, err, "ranking failed")
		return
	}
	c.JSON(http.StatusOK, ranked)
}
