package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler files listing reports and serves the admin moderation queue.
type ReportHandler struct {
	listings *service.ListingService
	admin    *service.AdminService
	log      *logrus.Logger
}

func NewReportHandler(listings *service.ListingService, admin *service.AdminService, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{listings: listings, admin: admin, log: log}
}

type reportRequest struct {
	Reason  models.ReportReason `json:"reason"`
	Message string              `json:"message"`
}

// SubmitReport files a report. Anonymous visitors may report.
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.listings.Report(c.Request.Context(), c.Param("id"), req.Reason, req.Message)
	if err != nil {
		handleError(c, h.log, err, "error filing report")
		return
	}
	h.log.WithFields(logrus.Fields{"listing": report.ListingID, "reason": report.Reason}).Info("listing reported")
	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.admin.Reports(c.Request.Context(), session(c), c.Query("status"))
	if err != nil {
		handleError(c, h.log, err, "error loading reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) CloseReport(c *gin.Context) {
	if err := h.admin.CloseReport(c.Request.Context(), session(c), c.Param("id")); err != nil {
		handleError(c, h.log, err, "error closing report")
		return
	}
	c.Status(http.StatusNoContent)
}
