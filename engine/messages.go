package engine

import "fmt"

// Message templates. These are the only user-facing strings the engine
// produces and must match the platform UI verbatim; do not reword them.
const (
	msgCreate = "The %s was set to '%s' for the new %s created by user %s"
	msgUpdate = "The %s on the %s was updated from '%s' to '%s' by user %s"
	msgDelete = "The %s with Tracking ID %s was deleted by user %s"
	msgRead   = "The %s with Tracking ID %s was read by user %s"
)

func createMessage(fieldName, newValue, typeName, account string) string {
	return fmt.Sprintf(msgCreate, fieldName, newValue, typeName, account)
}

func updateMessage(fieldName, typeName, oldValue, newValue, account string) string {
	return fmt.Sprintf(msgUpdate, fieldName, typeName, oldValue, newValue, account)
}

func deleteMessage(typeName string, trackingID int64, account string) string {
	return fmt.Sprintf(msgDelete, typeName, fmt.Sprintf("%d", trackingID), account)
}

func readMessage(typeName string, trackingID int64, account string) string {
	return fmt.Sprintf(msgRead, typeName, fmt.Sprintf("%d", trackingID), account)
}
