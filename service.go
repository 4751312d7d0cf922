package bboyzero

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Store is the external data store consumed by the gateway: a row store
// for events and contact messages plus an object store for uploaded
// images. Implementations authenticate with a service-level credential
// that is never exposed to gateway callers.
type Store interface {
	// SelectEvents returns all event rows ordered ascending by date.
	SelectEvents(ctx context.Context) ([]EventRow, error)

	// InsertEvent stores a new event row and returns the created
	// representation.
	InsertEvent(ctx context.Context, row EventRow) (EventRow, error)

	// DeleteEvent removes the event with the given id. Deleting an id
	// that does not exist is not an error.
	DeleteEvent(ctx context.Context, id string) error

	// InsertMessage stores a new contact message row.
	InsertMessage(ctx context.Context, row MessageRow) error

	// UploadObject writes raw bytes to object storage under key. The
	// write fails if the key already exists.
	UploadObject(ctx context.Context, key, contentType string, data []byte) error

	// PublicObjectURL returns the deterministic public URL for a stored
	// object key.
	PublicObjectURL(key string) string
}

// Service implements the gateway operations over a Store. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	store Store
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListEvents returns all events in public shape, sorted ascending by
// date. The sort is stable so same-date events keep store order.
func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.store.SelectEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]Event, len(rows))
	for i, row := range rows {
		events[i] = row.PublicEvent()
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})

	return events, nil
}

// CreateEvent stores a new event. Any inline image upload is stored
// first and its public URL takes precedence over a client-supplied
// imageUrl. The id is minted here, before the store write.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (Event, error) {
	uploadedURL, err := s.SaveUploadedImage(ctx, in.ImageUpload)
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}

	imageURL := uploadedURL
	if imageURL == "" {
		imageURL = strings.TrimSpace(in.ImageURL)
	}
	details := strings.TrimSpace(in.Details)

	row := EventRow{
		ID:        uuid.NewString(),
		Date:      strings.TrimSpace(in.Date),
		City:      strings.TrimSpace(in.City),
		Venue:     strings.TrimSpace(in.Venue),
		TicketURL: strings.TrimSpace(in.TicketURL),
		ImageURL:  &imageURL,
		Details:   &details,
	}

	if row.Date == "" || row.City == "" || row.Venue == "" || row.TicketURL == "" {
		return Event{}, fmt.Errorf("create event: %w: missing fields", ErrValidation)
	}

	created, err := s.store.InsertEvent(ctx, row)
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}

	return created.PublicEvent(), nil
}

// DeleteEvent removes an event by id. The delete is idempotent: removing
// an id that was never stored succeeds.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// SubmitContact stores a contact message. All three fields are required
// after trimming.
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) error {
	row := MessageRow{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}

	if row.Name == "" || row.Email == "" || row.Message == "" {
		return fmt.Errorf("submit contact: %w: missing fields", ErrValidation)
	}

	if err := s.store.InsertMessage(ctx, row); err != nil {
		return fmt.Errorf("submit contact: %w", err)
	}

	return nil
}
