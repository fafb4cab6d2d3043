package migrations

import (
	"journal-backend/internal/config"
	"journal-backend/internal/features/encryption/documents"
	"journal-backend/internal/features/reports"
	env_utils "journal-backend/internal/util/env"
	"journal-backend/internal/util/logger"
)

var batchRunner = NewBatchRunner(reports.GetReportRepository(), logger.GetLogger())
var moodScoreRepository = &MoodScoreRepository{}

var encryptionMigrationService = NewEncryptionMigrationService(
	batchRunner,
	reports.GetReportRepository(),
	documents.GetDocumentEncryptor(),
	logger.GetLogger(),
)
var moodScoreMigrationService = NewMoodScoreMigrationService(
	batchRunner,
	moodScoreRepository,
	documents.GetDocumentEncryptor(),
	logger.GetLogger(),
)
var migrationController = NewMigrationController(
	encryptionMigrationService,
	moodScoreMigrationService,
	func() env_utils.EnvMode { return config.GetEnv().EnvMode },
)

func SetupDependencies() {
	batchRunner.SetRowsPerSecond(config.GetEnv().MigrationRowsPerSecond)
}

func GetEncryptionMigrationService() *EncryptionMigrationService {
	return encryptionMigrationService
}

func GetMoodScoreMigrationService() *MoodScoreMigrationService {
	return moodScoreMigrationService
}

func GetMigrationController() *MigrationController {
	return migrationController
}
