// Package logging provides component-aware loggers with consistent field
// naming.
package logging

import (
	"github.com/charmbracelet/log"
)

// ComponentType classifies a component for log filtering.
type ComponentType string

const (
	ComponentTypeService    ComponentType = "service"
	ComponentTypeRepository ComponentType = "repository"
	ComponentTypeWorker     ComponentType = "worker"
	ComponentTypeAI         ComponentType = "ai"
	ComponentTypeDatabase   ComponentType = "database"
	ComponentTypeNATS       ComponentType = "nats"
)

// Factory hands out component loggers derived from one base logger.
type Factory struct {
	baseLogger *log.Logger
}

// NewFactory creates a new logger factory.
func NewFactory(baseLogger *log.Logger) *Factory {
	return &Factory{baseLogger: baseLogger}
}

func (lf *Factory) forType(id string, componentType ComponentType) *log.Logger {
	return lf.baseLogger.With("component", id, "component_type", string(componentType))
}

// ForService creates a logger for service components.
func (lf *Factory) ForService(id string) *log.Logger {
	return lf.forType(id, ComponentTypeService)
}

// ForRepository creates a logger for repository components.
func (lf *Factory) ForRepository(id string) *log.Logger {
	return lf.forType(id, ComponentTypeRepository)
}

// ForWorker creates a logger for worker components.
func (lf *Factory) ForWorker(id string) *log.Logger {
	return lf.forType(id, ComponentTypeWorker)
}

// ForAI creates a logger for AI components.
func (lf *Factory) ForAI(id string) *log.Logger {
	return lf.forType(id, ComponentTypeAI)
}

// ForDatabase creates a logger for database components.
func (lf *Factory) ForDatabase(id string) *log.Logger {
	return lf.forType(id, ComponentTypeDatabase)
}

// ForNATS creates a logger for NATS components.
func (lf *Factory) ForNATS(id string) *log.Logger {
	return lf.forType(id, ComponentTypeNATS)
}

// WithError adds error context to a logger.
func (lf *Factory) WithError(logger *log.Logger, err error) *log.Logger {
	if err != nil {
		return logger.With("error", err.Error())
	}
	return logger
}
