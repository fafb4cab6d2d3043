package system_healthcheck

import (
	"context"
	"fmt"
	"time"
)

const pingTimeout = 3 * time.Second

type DatabasePinger interface {
	PingContext(ctx context.Context) error
}

type HealthcheckService struct {
	getDatabase func() (DatabasePinger, error)
}

func NewHealthcheckService(getDatabase func() (DatabasePinger, error)) *HealthcheckService {
	return &HealthcheckService{getDatabase}
}

func (s *HealthcheckService) IsHealthy(ctx context.Context) error {
	database, err := s.getDatabase()
	if err != nil {
		return fmt.Errorf("database is not available: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	return nil
}
