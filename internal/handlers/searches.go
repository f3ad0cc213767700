package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SearchHandler struct {
	searches *service.SearchService
	log      *logrus.Logger
}

func NewSearchHandler(searches *service.SearchService, log *logrus.Logger) *SearchHandler {
	return &SearchHandler{searches: searches, log: log}
}

func (h *SearchHandler) List(c *gin.Context) {
	list, err := h.searches.List(c.Request.Context(), session(c))
	if err != nil {
		handleError(c, h.log, err, "error loading searches")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *SearchHandler) Save(c *gin.Context) {
	var criteria models.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := h.searches.Save(c.Request.Context(), session(c), criteria)
	if err != nil {
		handleError(c, h.log, err, "error saving search")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *SearchHandler) Delete(c *gin.Context) {
	if err := h.searches.Delete(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "error deleting search")
		return
	}
	c.Status(http.StatusNoContent)
}
