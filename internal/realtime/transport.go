package realtime

import "fmt"

// Transport is the opaque push capability the hub routes events through.
// Deliveries are best-effort: sending to an unknown connection or an empty
// group is a silent no-op.
type Transport interface {
	SendToConnection(connectionID string, event Event)
	SendToGroup(group string, event Event)
	AddToGroup(connectionID, group string)
	RemoveFromGroup(connectionID, group string)
}

// GroupSender is the slice of Transport the reaction engine needs.
type GroupSender interface {
	SendToGroup(group string, event Event)
}

// ExperienceGroup names the broadcast group scoping events to one
// experience's comment thread.
func ExperienceGroup(experienceID int) string {
	return fmt.Sprintf("Experience_%d", experienceID)
}
