package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewProfileHandler(svc *service.Service, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: log}
}

// Activity returns the caller's listings, comments, likes and favorites.
func (h *ProfileHandler) Activity(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	listings, err := h.svc.Listings.ByUser(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error loading activity")
		return
	}
	comments, err := h.svc.Comments.ByUser(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error loading activity")
		return
	}
	likes, err := h.svc.Likes.ByUser(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error loading activity")
		return
	}
	favorites, err := h.svc.Favorites.ByUser(ctx, uid)
	if err != nil {
		handleError(c, h.log, err, "error loading activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings":  listings,
		"comments":  comments,
		"likes":     likes,
		"favorites": favorites,
	})
}
