package services

import "context"

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	pingers []Pinger
}

func NewHealthService(pingers ...Pinger) *HealthService {
	return &HealthService{pingers: pingers}
}

func (s *HealthService) Get(ctx context.Context) error {
	for _, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
