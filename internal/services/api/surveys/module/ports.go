package module

import (
	surveyssvc "fishdash/internal/services/api/surveys/service"
)

// Ports are what surveys exports to other modules; meta reads catalog info here
type Ports struct {
	Service surveyssvc.Service
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Service: m.svc} }
