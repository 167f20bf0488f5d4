package server

import (
	"context"
	"fmt"

	"github.com/kbukum/kafkasample/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component adapts Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return componentName }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

// Health is healthy once the port is bound.
func (c *Component) Health(_ context.Context) component.Health {
	if c.server.Listening() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "HTTP server not listening"}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s routes=%d", c.server.Addr(), len(c.server.engine.Routes())),
	}
}
