package models

import (
	"errors"
	"time"
)

var (
	ErrQueryFailed            = errors.New("activity query failed")
	ErrResolveFailed          = errors.New("actor resolution failed")
	ErrDispatchFailed         = errors.New("notification dispatch failed")
	ErrUnclassifiableActivity = errors.New("activity has zero or multiple action details")
	ErrChannelIDRequired      = errors.New("channel ID is required")
	ErrResourceIDRequired     = errors.New("resource ID is required")
	ErrChannelAddressRequired = errors.New("channel address is required")
	ErrChannelKindInvalid     = errors.New("channel kind must be 'drive' or 'file'")
)

// Outcome describes how a webhook ping was handled when it did not fail.
type Outcome string

const (
	OutcomeSync           Outcome = "sync"
	OutcomeNoActivity     Outcome = "no_activity"
	OutcomeUnclassifiable Outcome = "unclassifiable"
	OutcomeDispatched     Outcome = "dispatched"
)

// Channel kinds recorded in the watch channel registry.
const (
	ChannelKindDrive = "drive"
	ChannelKindFile  = "file"
)

// WatchChannel is a Drive push notification channel registered by the toolbox.
type WatchChannel struct {
	ID         string    `firestore:"id"`          // Channel ID we generated (uuid)
	ResourceID string    `firestore:"resource_id"` // Opaque resource ID returned by Drive, needed to stop the channel
	Kind       string    `firestore:"kind"`        // "drive" or "file"
	TargetID   string    `firestore:"target_id"`   // Drive ID or file ID being watched
	Address    string    `firestore:"address"`     // Webhook URL receiving pings
	Expiration time.Time `firestore:"expiration"`  // Zero when Drive did not report one
	CreatedAt  time.Time `firestore:"created_at"`
}

// Validate validates required fields for WatchChannel.
func (wc *WatchChannel) Validate() error {
	if wc.ID == "" {
		return ErrChannelIDRequired
	}
	if wc.ResourceID == "" {
		return ErrResourceIDRequired
	}
	if wc.Address == "" {
		return ErrChannelAddressRequired
	}
	if wc.Kind != ChannelKindDrive && wc.Kind != ChannelKindFile {
		return ErrChannelKindInvalid
	}
	return nil
}
