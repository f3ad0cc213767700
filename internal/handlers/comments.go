package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CommentHandler struct {
	comments *service.CommentService
	log      *logrus.Logger
}

func NewCommentHandler(comments *service.CommentService, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.comments.ByListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, "error loading comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.comments.Add(c.Request.Context(), session(c), c.Param("id"), req.Text)
	if err != nil {
		handleError(c, h.log, err, "error adding comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) EditComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.comments.Edit(c.Request.Context(), session(c), c.Param("id"), req.Text)
	if err != nil {
		handleError(c, h.log, err, "error editing comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "error deleting comment")
		return
	}
	c.Status(http.StatusNoContent)
}
