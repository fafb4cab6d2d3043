package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reportService *ReportService
}

func NewReportController(reportService *ReportService) *ReportController {
	return &ReportController{reportService}
}

func (c *ReportController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/:reportType/:reportId", c.GetDecryptedReport)
}

// GetDecryptedReport godoc
// @Summary Get a decrypted report
// @Description Load one daily, weekly or monthly report with its JSON columns decrypted
// @Tags reports
// @Produce json
// @Param reportType path string true "daily, weekly or monthly"
// @Param reportId path string true "Report ID"
// @Success 200 {object} DecryptedReportDTO
// @Router /api/v1/reports/{reportType}/{reportId} [get]
func (c *ReportController) GetDecryptedReport(ctx *gin.Context) {
	reportType := ReportType(ctx.Param("reportType"))

	report, err := c.reportService.GetDecryptedReport(
		ctx.Request.Context(),
		reportType,
		ctx.Param("reportId"),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownReportType):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrReportNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, report)
}
