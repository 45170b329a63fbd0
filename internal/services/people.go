package services

import (
	"context"
	"errors"
	"fmt"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// PeopleService resolves activity actors to email addresses.
type PeopleService struct {
	service *people.Service
}

// NewPeopleService creates a PeopleService.
func NewPeopleService(ctx context.Context, opts ...option.ClientOption) (*PeopleService, error) {
	svc, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create People client: %w", err)
	}
	return &PeopleService{service: svc}, nil
}

// ResolveEmail returns the first email address on the actor's person record.
// An actor without a person reference or a record without addresses resolves to "".
func (s *PeopleService) ResolveEmail(ctx context.Context, actor models.ActorRef) (string, error) {
	if !actor.Resolvable() {
		log.Debug(ctx, "Actor has no person reference, skipping lookup")
		return "", nil
	}

	person, err := s.service.People.Get(actor.PersonName).
		PersonFields("emailAddresses").
		Context(ctx).
		Do()
	if err != nil {
		args := []any{
			"error", err,
			"person_name", actor.PersonName,
			"operation", "resolve_actor_email",
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			args = append(args, "http_status", apiErr.Code)
		}
		log.Warn(ctx, "Failed to resolve actor email", args...)
		return "", fmt.Errorf("%w: %s: %w", models.ErrResolveFailed, actor.PersonName, err)
	}

	for _, addr := range person.EmailAddresses {
		if addr != nil && addr.Value != "" {
			return addr.Value, nil
		}
	}

	log.Debug(ctx, "Person record has no email address", "person_name", actor.PersonName)
	return "", nil
}
