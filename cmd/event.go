package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/okr-dashboard/internal/core/events"
	"github.com/frahmantamala/okr-dashboard/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Inspect the domain events and push a test event through the audit log`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Event Type", "Raised By"})
		tw.AppendRows([]table.Row{
			{events.EventTypeObjectiveCreated, "POST /api/v1/objectives"},
			{events.EventTypeObjectiveRequested, "POST /api/v1/objectives/requests"},
			{events.EventTypeObjectiveDeleted, "DELETE /api/v1/objectives/{id}"},
			{events.EventTypeMilestoneAdded, "POST /api/v1/key-results/{krID}/milestones"},
			{events.EventTypeMilestoneStatusChanged, "PATCH /api/v1/key-results/{krID}/milestones/{milestoneID}"},
			{events.EventTypeManagerChanged, "PATCH /api/v1/organization/users/{id}/manager"},
		})
		tw.Render()
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus and print its audit record`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) {
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	events.NewAuditLogger(lg).Register(bus)

	testEvent := events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		ActorID:   "cli",
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	if err := bus.PublishSync(context.Background(), testEvent); err != nil {
		fmt.Fprintf(os.Stderr, "failed to publish event: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("published", testEvent.ID)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)
}
