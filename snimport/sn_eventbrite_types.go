package main

import "encoding/json"

// Eventbrite pages by number; object_count and page_size drive the loop.
type EventbritePageResponse struct {
	Pagination EventbritePagination `json:"pagination"`
	Events     []json.RawMessage    `json:"events"`
}

type EventbritePagination struct {
	ObjectCount int `json:"object_count"`
	PageNumber  int `json:"page_number"`
	PageSize    int `json:"page_size"`
	PageCount   int `json:"page_count"`
}

type EventbriteEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Start struct {
		UTC      string `json:"utc"`
		Timezone string `json:"timezone"`
	} `json:"start"`
	End struct {
		UTC string `json:"utc"`
	} `json:"end"`
	Capacity    int64  `json:"capacity"`
	Currency    string `json:"currency"`
	VenueID     string `json:"venue_id"`
	OrganizerID string `json:"organizer_id"`
}

type EventbriteVenue struct {
	Name    string `json:"name"`
	Address struct {
		Address1   string `json:"address_1"`
		Address2   string `json:"address_2"`
		City       string `json:"city"`
		Region     string `json:"region"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
		// eventbrite sends coordinates as strings
		Longitude string `json:"longitude"`
		Latitude  string `json:"latitude"`
	} `json:"address"`
}

type EventbriteOrganizer struct {
	Name string `json:"name"`
}

type EventbriteAttendee struct {
	ID          string `json:"id"`
	Created     string `json:"created"`
	Status      string `json:"status"`
	Cancelled   bool   `json:"cancelled"`
	EventID     string `json:"event_id"`
	ResourceURI string `json:"resource_uri"`
	Profile     struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Addresses struct {
			Home struct {
				City    string `json:"city"`
				Country string `json:"country"`
			} `json:"home"`
		} `json:"addresses"`
	} `json:"profile"`
}

type EventbriteOrder struct {
	ID        string            `json:"id"`
	Created   string            `json:"created"`
	Status    string            `json:"status"`
	EventID   string            `json:"event_id"`
	Attendees []json.RawMessage `json:"attendees"`
}

type EventbriteWebhookPayload struct {
	APIURL string `json:"api_url"`
	Config struct {
		Action      string `json:"action"`
		WebhookID   string `json:"webhook_id"`
		UserID      string `json:"user_id"`
		EndpointURL string `json:"endpoint_url"`
	} `json:"config"`
}

type EventbriteWebhookCreateResponse struct {
	ID string `json:"id"`
}
