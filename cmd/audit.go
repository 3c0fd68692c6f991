package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/pkg/logger"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the account audit log wiring",
}

var auditTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the event types written to the audit log",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AuditedEventTypes {
			cmd.Println(t)
		}
	},
}

var auditEmitCmd = &cobra.Command{
	Use:   "emit [event-type]",
	Short: "Send a test event through the audit subscriber",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emitAuditEvent(cmd.Context(), args[0])
	},
}

var auditNote string

func emitAuditEvent(ctx context.Context, eventType string) error {
	known := false
	for _, t := range events.AuditedEventTypes {
		if t == eventType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown event type %q, see `audit types`", eventType)
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	event := events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"note":   auditNote,
			"source": "cli-command",
		},
	}
	return bus.PublishSync(ctx, event)
}

func init() {
	auditEmitCmd.Flags().StringVar(&auditNote, "note", "test event", "note attached to the event payload")

	auditCmd.AddCommand(auditTypesCmd)
	auditCmd.AddCommand(auditEmitCmd)
}
