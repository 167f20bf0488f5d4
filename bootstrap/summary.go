package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/kafkasample/component"
)

// ConsumerInfo describes a group consumer.
type ConsumerInfo struct {
	Name   string
	Group  string
	Topic  string
	Status string
}

// ClientInfo describes a broker client, such as a producer or the admin
// client.
type ClientInfo struct {
	Name   string
	Target string
	Status string
	Type   string
}

// Summary tracks what a command set up and prints it once startup is done.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	consumers       []ConsumerInfo
	clients         []ClientInfo
}

// NewSummary creates a startup summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackConsumer records a group consumer.
func (s *Summary) TrackConsumer(name, group, topic, status string) {
	s.consumers = append(s.consumers, ConsumerInfo{Name: name, Group: group, Topic: topic, Status: status})
}

// TrackClient records a broker client.
func (s *Summary) TrackClient(name, target, status, clientType string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Status: status, Type: clientType})
}

// Display writes the summary to w. Infrastructure lines come from the
// registered components that implement component.Describable, health from a
// live check.
func (s *Summary) Display(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var infra []component.Description
	if registry != nil {
		for _, c := range registry.All() {
			if d, ok := c.(component.Describable); ok {
				infra = append(infra, d.Describe())
			}
		}
	}
	if len(infra) > 0 {
		fmt.Fprintf(w, "\n📊 Infrastructure\n")
		for i, d := range infra {
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(infra)), d.Name, d.Type, d.Details)
		}
	}

	if len(s.clients) > 0 {
		fmt.Fprintf(w, "\n🔌 Clients\n")
		for i, c := range s.clients {
			fmt.Fprintf(w, "   %s %s → %s [%s] (%s)\n", treePrefix(i, len(s.clients)), c.Name, c.Target, c.Type, c.Status)
		}
	}

	if len(s.consumers) > 0 {
		fmt.Fprintf(w, "\n📨 Consumers\n")
		for i, c := range s.consumers {
			fmt.Fprintf(w, "   %s %s (group: %s, topic: %s) [%s]\n", treePrefix(i, len(s.consumers)), c.Name, c.Group, c.Topic, c.Status)
		}
	}

	if registry != nil {
		results := registry.HealthAll(ctx)
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			healthy := 0
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			if healthy == len(results) {
				fmt.Fprintf(w, "\n✅ All components healthy (%d/%d)\n", healthy, len(results))
			} else {
				fmt.Fprintf(w, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(results))
			}
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
