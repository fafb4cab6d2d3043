package migrations

import (
	"errors"
	"io"
	"net/http"

	env_utils "journal-backend/internal/util/env"
	"journal-backend/internal/util/middleware"

	"github.com/gin-gonic/gin"
)

type MigrationController struct {
	encryptionMigrationService *EncryptionMigrationService
	moodScoreMigrationService  *MoodScoreMigrationService
	getEnvMode                 func() env_utils.EnvMode
}

func NewMigrationController(
	encryptionMigrationService *EncryptionMigrationService,
	moodScoreMigrationService *MoodScoreMigrationService,
	getEnvMode func() env_utils.EnvMode,
) *MigrationController {
	return &MigrationController{
		encryptionMigrationService,
		moodScoreMigrationService,
		getEnvMode,
	}
}

func (c *MigrationController) RegisterRoutes(router *gin.RouterGroup) {
	migrations := router.Group("/migrations")
	migrations.Use(middleware.DevelopmentOnlyMiddleware(c.getEnvMode))
	{
		migrations.POST("/encrypt-reports", c.EncryptReports)
		migrations.POST("/mood-scores", c.MigrateMoodScores)
	}
}

// EncryptReports godoc
// @Summary Encrypt plaintext report documents
// @Description Encrypt the JSONB columns of existing daily, weekly and monthly reports. Development only.
// @Tags migrations
// @Accept json
// @Produce json
// @Param request body MigrateReportsRequest false "Migration options"
// @Success 200 {object} MigrationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} MigrationResponse
// @Router /api/v1/migrations/encrypt-reports [post]
func (c *MigrationController) EncryptReports(ctx *gin.Context) {
	var request MigrateReportsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.encryptionMigrationService.MigrateReports(ctx.Request.Context(), &request)
	c.respond(ctx, response, err)
}

// MigrateMoodScores godoc
// @Summary Backfill mood scores from daily reports
// @Description Copy mood_analysis.score of daily reports into mood_scores. Development only.
// @Tags migrations
// @Accept json
// @Produce json
// @Param request body MigrateMoodScoresRequest false "Migration options"
// @Success 200 {object} MigrationResponse
// @Failure 403 {object} map[string]string
// @Failure 500 {object} MigrationResponse
// @Router /api/v1/migrations/mood-scores [post]
func (c *MigrationController) MigrateMoodScores(ctx *gin.Context) {
	var request MigrateMoodScoresRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := c.moodScoreMigrationService.MigrateMoodScores(ctx.Request.Context(), &request)
	c.respond(ctx, response, err)
}

func (c *MigrationController) respond(ctx *gin.Context, response *MigrationResponse, err error) {
	if err != nil {
		if errors.Is(err, ErrInvalidTableType) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// configuration errors land here, before any row was read
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// row errors are reported in the body, only whole-table failures fail the call
	if response.HasFailedTables() {
		ctx.JSON(http.StatusInternalServerError, response)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
