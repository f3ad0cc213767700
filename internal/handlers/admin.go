package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	admin *service.AdminService
	log   *logrus.Logger
}

func NewAdminHandler(admin *service.AdminService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context(), session(c))
	if err != nil {
		handleError(c, h.log, err, "error computing stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.admin.Users(c.Request.Context(), session(c))
	if err != nil {
		handleError(c, h.log, err, "error loading users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var patch service.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.admin.UpdateUser(c.Request.Context(), session(c), c.Param("id"), patch)
	if err != nil {
		handleError(c, h.log, err, "error updating user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.admin.DeleteUser(c.Request.Context(), session(c), id); err != nil {
		handleError(c, h.log, err, "error deleting user")
		return
	}
	h.log.WithFields(logrus.Fields{"user": id, "admin": userID(c)}).Info("user deleted")
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) DeleteListing(c *gin.Context) {
	id := c.Param("id")
	if err := h.admin.DeleteListing(c.Request.Context(), session(c), id); err != nil {
		handleError(c, h.log, err, "error deleting listing")
		return
	}
	h.log.WithFields(logrus.Fields{"listing": id, "admin": userID(c)}).Info("listing removed by admin")
	c.Status(http.StatusNoContent)
}
