package models

// Row labels of a notification, in display order.
const (
	RowDrive         = "drive"
	RowIsSharedDrive = "isSharedDrive"
	RowMessage       = "message"
)

// NotificationRow is one "label: value" line of a notification.
type NotificationRow struct {
	Label string
	Value string
}

// NotificationMessage is the unit delivered to the notification sink.
type NotificationMessage struct {
	Header string
	Rows   []NotificationRow
}

// Row returns the value of the row with the given label.
func (m *NotificationMessage) Row(label string) (string, bool) {
	for _, row := range m.Rows {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}
