package bboyzero_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
)

// MockStore is a mock implementation of bboyzero.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SelectEvents(ctx context.Context) ([]bboyzero.EventRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bboyzero.EventRow), args.Error(1)
}

func (m *MockStore) InsertEvent(ctx context.Context, row bboyzero.EventRow) (bboyzero.EventRow, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(bboyzero.EventRow), args.Error(1)
}

func (m *MockStore) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) InsertMessage(ctx context.Context, row bboyzero.MessageRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockStore) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockStore) PublicObjectURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func eventRow(id, date string) bboyzero.EventRow {
	return bboyzero.EventRow{
		ID:        id,
		Date:      date,
		City:      "City",
		Venue:     "Venue",
		TicketURL: "https://tickets.example/" + id,
	}
}

func TestService_ListEvents_SortedByDate(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("SelectEvents", mock.Anything).Return([]bboyzero.EventRow{
		eventRow("late", "2024-09-01"),
		eventRow("early", "2024-01-15"),
		eventRow("mid-a", "2024-05-01"),
		eventRow("mid-b", "2024-05-01"),
	}, nil)

	events, err := service.ListEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, "early", events[0].ID)
	// stable sort keeps store order for same-date events
	assert.Equal(t, "mid-a", events[1].ID)
	assert.Equal(t, "mid-b", events[2].ID)
	assert.Equal(t, "late", events[3].ID)

	store.AssertExpectations(t)
}

func TestService_ListEvents_Empty(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("SelectEvents", mock.Anything).Return([]bboyzero.EventRow{}, nil)

	events, err := service.ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestService_ListEvents_UpstreamFailure(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("SelectEvents", mock.Anything).Return(nil, bboyzero.ErrUpstream)

	_, err := service.ListEvents(context.Background())
	assert.ErrorIs(t, err, bboyzero.ErrUpstream)
}

func TestService_CreateEvent_MintsIDAndTrims(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	var inserted bboyzero.EventRow
	store.On("InsertEvent", mock.Anything, mock.MatchedBy(func(row bboyzero.EventRow) bool {
		inserted = row
		return row.Date == "2024-05-01" && row.City == "Lagos"
	})).Return(eventRow("created", "2024-05-01"), nil)

	event, err := service.CreateEvent(context.Background(), bboyzero.CreateEventInput{
		Date:      " 2024-05-01 ",
		City:      "Lagos ",
		Venue:     " Arena",
		TicketURL: "https://t.co/x",
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(inserted.ID)
	assert.NoError(t, parseErr, "id must be a freshly minted uuid")
	assert.Equal(t, "Venue", event.Venue, "returned event reflects the store representation")
	assert.Equal(t, "", event.ImageURL)

	require.NotNil(t, inserted.ImageURL)
	assert.Equal(t, "", *inserted.ImageURL)

	store.AssertExpectations(t)
}

func TestService_CreateEvent_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input bboyzero.CreateEventInput
	}{
		{"missing date", bboyzero.CreateEventInput{City: "Lagos", Venue: "Arena", TicketURL: "https://t.co/x"}},
		{"missing city", bboyzero.CreateEventInput{Date: "2024-05-01", Venue: "Arena", TicketURL: "https://t.co/x"}},
		{"missing venue", bboyzero.CreateEventInput{Date: "2024-05-01", City: "Lagos", TicketURL: "https://t.co/x"}},
		{"missing ticket url", bboyzero.CreateEventInput{Date: "2024-05-01", City: "Lagos", Venue: "Arena"}},
		{"whitespace only", bboyzero.CreateEventInput{Date: "  ", City: "Lagos", Venue: "Arena", TicketURL: "https://t.co/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			service := bboyzero.NewService(store)

			_, err := service.CreateEvent(context.Background(), tt.input)

			assert.ErrorIs(t, err, bboyzero.ErrValidation)
			store.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateEvent_UploadedURLWins(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("UploadObject", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything).Return(nil)
	store.On("PublicObjectURL", mock.AnythingOfType("string")).Return("https://store.example/storage/v1/object/public/event-images/events/x.png")
	store.On("InsertEvent", mock.Anything, mock.MatchedBy(func(row bboyzero.EventRow) bool {
		return row.ImageURL != nil && *row.ImageURL == "https://store.example/storage/v1/object/public/event-images/events/x.png"
	})).Return(eventRow("created", "2024-05-01"), nil)

	_, err := service.CreateEvent(context.Background(), bboyzero.CreateEventInput{
		Date:      "2024-05-01",
		City:      "Lagos",
		Venue:     "Arena",
		TicketURL: "https://t.co/x",
		ImageURL:  "https://client.example/ignored.jpg",
		ImageUpload: &bboyzero.ImageUpload{
			MimeType:   "image/png",
			DataBase64: "aGVsbG8=",
		},
	})
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestService_CreateEvent_UploadFailureAborts(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket gone"))

	_, err := service.CreateEvent(context.Background(), bboyzero.CreateEventInput{
		Date:      "2024-05-01",
		City:      "Lagos",
		Venue:     "Arena",
		TicketURL: "https://t.co/x",
		ImageUpload: &bboyzero.ImageUpload{
			MimeType:   "image/jpeg",
			DataBase64: "aGVsbG8=",
		},
	})

	assert.ErrorIs(t, err, bboyzero.ErrUploadFailed)
	store.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything)
}

func TestService_CreateEvent_UnsupportedMimeIsSkipped(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("InsertEvent", mock.Anything, mock.MatchedBy(func(row bboyzero.EventRow) bool {
		return row.ImageURL != nil && *row.ImageURL == ""
	})).Return(eventRow("created", "2024-05-01"), nil)

	event, err := service.CreateEvent(context.Background(), bboyzero.CreateEventInput{
		Date:      "2024-05-01",
		City:      "Lagos",
		Venue:     "Arena",
		TicketURL: "https://t.co/x",
		ImageUpload: &bboyzero.ImageUpload{
			MimeType:   "application/pdf",
			DataBase64: "aGVsbG8=",
		},
	})
	require.NoError(t, err, "unsupported upload type must not fail the create")
	assert.Equal(t, "", event.ImageURL)

	store.AssertNotCalled(t, "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_DeleteEvent(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("DeleteEvent", mock.Anything, "some-id").Return(nil)

	err := service.DeleteEvent(context.Background(), "some-id")
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_DeleteEvent_UpstreamFailure(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("DeleteEvent", mock.Anything, "some-id").Return(bboyzero.ErrUpstream)

	err := service.DeleteEvent(context.Background(), "some-id")
	assert.ErrorIs(t, err, bboyzero.ErrUpstream)
}

func TestService_SubmitContact(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	store.On("InsertMessage", mock.Anything, mock.MatchedBy(func(row bboyzero.MessageRow) bool {
		if row.Name != "Ana" || row.Email != "a@b.com" || row.Message != "hi" {
			return false
		}
		_, err := uuid.Parse(row.ID)
		return err == nil
	})).Return(nil)

	err := service.SubmitContact(context.Background(), bboyzero.ContactInput{
		Name:    " Ana ",
		Email:   "a@b.com",
		Message: "hi",
	})
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_SubmitContact_MissingFields(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	err := service.SubmitContact(context.Background(), bboyzero.ContactInput{
		Name:  "Ana",
		Email: "a@b.com",
	})

	assert.ErrorIs(t, err, bboyzero.ErrValidation)
	store.AssertNotCalled(t, "InsertMessage", mock.Anything, mock.Anything)
}

func TestService_SaveUploadedImage_KeyPattern(t *testing.T) {
	store := new(MockStore)
	service := bboyzero.NewService(store)

	keyPattern := regexp.MustCompile(`^events/\d+-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.webp$`)

	store.On("UploadObject", mock.Anything, mock.MatchedBy(func(key string) bool {
		return keyPattern.MatchString(key)
	}), "image/webp", []byte("hello")).Return(nil)
	store.On("PublicObjectURL", mock.AnythingOfType("string")).Return("https://store.example/public/url")

	url, err := service.SaveUploadedImage(context.Background(), &bboyzero.ImageUpload{
		Filename:   "../../etc/passwd", // advisory only, must not influence the key
		MimeType:   "image/webp",
		DataBase64: "aGVsbG8=",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://store.example/public/url", url)

	store.AssertExpectations(t)
}
