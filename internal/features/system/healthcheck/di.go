package system_healthcheck

import "journal-backend/internal/storage"

var healthcheckService = NewHealthcheckService(func() (DatabasePinger, error) {
	return storage.GetDb().DB()
})
var healthcheckController = NewHealthcheckController(healthcheckService)

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
