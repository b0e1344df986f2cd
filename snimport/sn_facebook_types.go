package main

import "encoding/json"

// The Graph API pages with a full paging.next URL, and attendee lists are
// split into attending/maybe/declined sub-resources that page independently.
type FacebookPageResponse struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type FacebookEvent struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	Timezone       string         `json:"timezone"`
	AttendingCount int64          `json:"attending_count"`
	Place          *FacebookPlace `json:"place"`
	Owner          struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"owner"`
}

type FacebookPlace struct {
	Name     string `json:"name"`
	Location struct {
		Street    string  `json:"street"`
		City      string  `json:"city"`
		State     string  `json:"state"`
		Country   string  `json:"country"`
		Zip       string  `json:"zip"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// FacebookRSVP is a bucket item; the graph payload itself has no event
// reference, EventID is stamped in by the client before the item is handed
// downstream.
type FacebookRSVP struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RsvpStatus string `json:"rsvp_status"`
	EventID    string `json:"event_id"`
	RsvpTime   int64  `json:"rsvp_time"`
}

type FacebookAttendee struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Location  struct {
		Name string `json:"name"`
	} `json:"location"`
}

type FacebookOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FacebookAccessResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
