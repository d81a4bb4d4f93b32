package services

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ServiceIdentifier interface {
	ID() string
}

// ServiceLogger tags every event with the owning DI service.
type ServiceLogger struct {
	zerolog.Logger
}

func NewServiceLogger(svc ServiceIdentifier) *ServiceLogger {
	return &ServiceLogger{
		Logger: log.With().Str("service", svc.ID()).Logger(),
	}
}

// ForToken returns a child logger for messages about a single token.
func (l *ServiceLogger) ForToken(token string) *zerolog.Logger {
	child := l.With().Str("token", token).Logger()
	return &child
}
