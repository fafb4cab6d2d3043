package reports

import (
	"journal-backend/internal/features/encryption/documents"
	"journal-backend/internal/util/logger"
)

var reportRepository = &ReportRepository{}
var reportService = NewReportService(
	reportRepository,
	documents.GetDocumentEncryptor(),
	logger.GetLogger(),
)
var reportController = NewReportController(reportService)

func GetReportRepository() *ReportRepository {
	return reportRepository
}

func GetReportService() *ReportService {
	return reportService
}

func GetReportController() *ReportController {
	return reportController
}
