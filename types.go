package bboyzero

// Event is the public, client-facing representation of a show. Optional
// columns are always plain strings; the public shape never carries null.
type Event struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	City      string `json:"city"`
	Venue     string `json:"venue"`
	TicketURL string `json:"ticketUrl"`
	ImageURL  string `json:"imageUrl"`
	Details   string `json:"details"`
}

// EventRow is the store-native row shape for the events table.
// image_url and details are nullable upstream.
type EventRow struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	City      string  `json:"city"`
	Venue     string  `json:"venue"`
	TicketURL string  `json:"ticket_url"`
	ImageURL  *string `json:"image_url"`
	Details   *string `json:"details"`
}

// PublicEvent maps a store row to the public shape, defaulting nullable
// columns to the empty string.
func (r EventRow) PublicEvent() Event {
	return Event{
		ID:        r.ID,
		Date:      r.Date,
		City:      r.City,
		Venue:     r.Venue,
		TicketURL: r.TicketURL,
		ImageURL:  stringOrEmpty(r.ImageURL),
		Details:   stringOrEmpty(r.Details),
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MessageRow is the store-native row shape for the messages table.
type MessageRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ImageUpload is a base64-encoded image carried inline in a create-event
// payload. The filename is advisory only and never used for the storage
// path.
type ImageUpload struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	DataBase64 string `json:"dataBase64"`
}

// CreateEventInput is the public payload for creating an event.
type CreateEventInput struct {
	Date        string       `json:"date"`
	City        string       `json:"city"`
	Venue       string       `json:"venue"`
	TicketURL   string       `json:"ticketUrl"`
	ImageURL    string       `json:"imageUrl"`
	Details     string       `json:"details"`
	ImageUpload *ImageUpload `json:"imageUpload"`
}

// ContactInput is the public payload for submitting a contact message.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
