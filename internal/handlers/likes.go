package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LikeHandler serves likes and favorites, the two one-click reactions.
type LikeHandler struct {
	likes     *service.LikeService
	favorites *service.FavoriteService
	log       *logrus.Logger
}

func NewLikeHandler(likes *service.LikeService, favorites *service.FavoriteService, log *logrus.Logger) *LikeHandler {
	return &LikeHandler{likes: likes, favorites: favorites, log: log}
}

// Like toggles the caller's like and returns the new state with the count.
func (h *LikeHandler) Like(c *gin.Context) {
	liked, count, err := h.likes.Toggle(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "error processing like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

func (h *LikeHandler) AddFavorite(c *gin.Context) {
	added, err := h.favorites.Add(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "error adding favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": true, "added": added})
}

func (h *LikeHandler) RemoveFavorite(c *gin.Context) {
	removed, err := h.favorites.Remove(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "error removing favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": false, "removed": removed})
}
