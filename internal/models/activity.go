package models

import "time"

// ActionKind names the kind of change recorded by a Drive activity.
type ActionKind string

const (
	ActionUnknown          ActionKind = "unknown"
	ActionRename           ActionKind = "rename"
	ActionMove             ActionKind = "move"
	ActionDelete           ActionKind = "delete"
	ActionRestore          ActionKind = "restore"
	ActionCreate           ActionKind = "create"
	ActionEdit             ActionKind = "edit"
	ActionComment          ActionKind = "comment"
	ActionPermissionChange ActionKind = "permissionChange"
	ActionSettingsChange   ActionKind = "settingsChange"
	ActionReference        ActionKind = "reference"
)

// ActionDetail is the kind-specific payload of an activity.
type ActionDetail interface {
	Kind() ActionKind
}

// RenameDetail carries the titles before and after a rename.
type RenameDetail struct {
	OldTitle string
	NewTitle string
}

func (RenameDetail) Kind() ActionKind { return ActionRename }

// ParentRef is a folder or drive an item was moved out of or into.
type ParentRef struct {
	Title string
}

// MoveDetail carries the parents an item left and joined. Either side may be empty.
type MoveDetail struct {
	RemovedParents []ParentRef
	AddedParents   []ParentRef
}

func (MoveDetail) Kind() ActionKind { return ActionMove }

// BasicDetail is used for the kinds whose payload the notification does not use.
type BasicDetail struct {
	Action ActionKind
}

func (d BasicDetail) Kind() ActionKind { return d.Action }

// ActorRef points at the identity that performed a change.
// PersonName is empty for system, anonymous and other non-resolvable actors.
type ActorRef struct {
	PersonName string
}

// Resolvable reports whether the actor can be looked up in the People API.
func (a ActorRef) Resolvable() bool {
	return a.PersonName != ""
}

// Target is the resource a change applies to.
type Target struct {
	Title       string
	DriveTitle  string
	SharedDrive bool
}

// ChangeActivity is one observed event from the Drive activity log.
// Details holds one entry per populated action field of the upstream record.
type ChangeActivity struct {
	Timestamp time.Time
	Actor     ActorRef
	Details   []ActionDetail
	Target    Target
}

// Classify returns the single action kind of the activity together with its detail.
// Records with zero or several populated action fields are ActionUnknown.
func (a *ChangeActivity) Classify() (ActionKind, ActionDetail) {
	if a == nil || len(a.Details) != 1 || a.Details[0] == nil {
		return ActionUnknown, nil
	}
	detail := a.Details[0]
	return detail.Kind(), detail
}
