package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	compareCookie = "compare_id"
	compareMaxAge = 30 * 24 * 60 * 60
)

// ComparisonHandler keys each comparison set by the browser's compare_id
// cookie, so the set survives login and logout.
type ComparisonHandler struct {
	comparison *service.ComparisonService
	listings   *service.ListingService
	log        *logrus.Logger
}

func NewComparisonHandler(comparison *service.ComparisonService, listings *service.ListingService, log *logrus.Logger) *ComparisonHandler {
	return &ComparisonHandler{comparison: comparison, listings: listings, log: log}
}

// clientKey returns the compare_id cookie, issuing one when create is set.
func clientKey(c *gin.Context, create bool) string {
	if key, err := c.Cookie(compareCookie); err == nil && key != "" {
		return key
	}
	if !create {
		return ""
	}
	key := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(compareCookie, key, compareMaxAge, "/", "", false, true)
	return key
}

// List returns the compared listings in insertion order. Listings deleted
// since they were added are skipped.
func (h *ComparisonHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	out := []models.Listing{}
	key := clientKey(c, false)
	if key == "" {
		c.JSON(http.StatusOK, out)
		return
	}
	ids, err := h.comparison.List(ctx, key)
	if err != nil {
		handleError(c, h.log, err, "error loading comparison")
		return
	}
	for _, id := range ids {
		listing, err := h.listings.Get(ctx, id)
		if err != nil {
			if statusOf(err) == http.StatusNotFound {
				continue
			}
			handleError(c, h.log, err, "error loading comparison")
			return
		}
		out = append(out, *listing)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ComparisonHandler) Add(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.listings.Get(ctx, id); err != nil {
		handleError(c, h.log, err, "error adding to comparison")
		return
	}
	added, err := h.comparison.Add(ctx, clientKey(c, true), id)
	if err != nil {
		handleError(c, h.log, err, "error adding to comparison")
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *ComparisonHandler) Remove(c *gin.Context) {
	if key := clientKey(c, false); key != "" {
		if err := h.comparison.Remove(c.Request.Context(), key, c.Param("id")); err != nil {
			handleError(c, h.log, err, "error removing from comparison")
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *ComparisonHandler) Clear(c *gin.Context) {
	if key := clientKey(c, false); key != "" {
		if err := h.comparison.Clear(c.Request.Context(), key); err != nil {
			handleError(c, h.log, err, "error clearing comparison")
			return
		}
	}
	c.Status(http.StatusNoContent)
}
