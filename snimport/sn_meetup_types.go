package main

import "encoding/json"

// Meetup's v2 API pages with a meta.next cursor URL, repeated until absent.
type MeetupPageResponse struct {
	Results []json.RawMessage `json:"results"`
	Meta    struct {
		Next       string `json:"next"`
		TotalCount int    `json:"total_count"`
	} `json:"meta"`
}

type MeetupEvent struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Time        int64        `json:"time"`     // epoch milliseconds
	Duration    int64        `json:"duration"` // milliseconds
	Timezone    string       `json:"timezone"`
	RsvpLimit   int64        `json:"rsvp_limit"`
	EventURL    string       `json:"event_url"`
	Venue       *MeetupVenue `json:"venue"`
	Group       struct {
		Name string `json:"name"`
	} `json:"group"`
	Fee struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"fee"`
}

type MeetupVenue struct {
	Name     string  `json:"name"`
	Address1 string  `json:"address_1"`
	Address2 string  `json:"address_2"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Zip      string  `json:"zip"`
	Country  string  `json:"country"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
}

type MeetupRSVP struct {
	RsvpID   int64  `json:"rsvp_id"`
	Response string `json:"response"`
	Mtime    int64  `json:"mtime"` // epoch milliseconds
	Member   struct {
		MemberID int64  `json:"member_id"`
		Name     string `json:"name"`
	} `json:"member"`
	Event struct {
		ID string `json:"id"`
	} `json:"event"`
}

type MeetupMember struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type MeetupAccessResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
