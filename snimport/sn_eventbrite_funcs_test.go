package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func eventbriteTestSession(srv *httptest.Server) *vendorSession {
	return &vendorSession{
		network:   SocialNetwork{ID: 2, Name: SN_EVENTBRITE, ApiURL: srv.URL},
		cred:      UserSocialNetworkCredential{UserID: 7, SocialNetworkID: 2},
		token:     "tok",
		httpc:     srv.Client(),
		findEvent: func(userID, snID int64, vendorEventID string) (*Event, error) { return nil, nil },
		infoLog:   testLog,
		errorLog:  testLog,
	}
}

func TestEventbriteGetEventsPagesByNumber(t *testing.T) {
	pages := map[string]string{
		"1": `{"pagination":{"object_count":5,"page_number":1,"page_size":2,"page_count":3},"events":[{"id":"e1"},{"id":"e2"}]}`,
		"2": `{"pagination":{"object_count":5,"page_number":2,"page_size":2,"page_count":3},"events":[{"id":"e3"},{"id":"e4"}]}`,
		"3": `{"pagination":{"object_count":5,"page_number":3,"page_size":2,"page_count":3},"events":[{"id":"e5"}]}`,
	}
	var requested []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)

		body, ok := pages[page]
		if !ok {
			t.Errorf("requested page %q past the object count", page)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client, _ := buildEventbrite(eventbriteTestSession(srv))

	raws, err := client.GetEvents()
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(raws) != 5 {
		t.Fatalf("expected 5 events across 3 pages, got %d", len(raws))
	}
	if len(requested) != 3 {
		t.Fatalf("expected exactly 3 page requests, got %v", requested)
	}
}

func TestEventbriteGetEventsStuckPageNumberTerminates(t *testing.T) {
	var requests int

	// a broken vendor that echoes page_number 1 no matter what was asked for
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"pagination":{"object_count":4,"page_number":1,"page_size":2},"events":[{"id":"x"},{"id":"y"}]}`)
	}))
	defer srv.Close()

	client, _ := buildEventbrite(eventbriteTestSession(srv))

	raws, err := client.GetEvents()
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected the loop to stop after object_count is covered, made %d requests", requests)
	}
	if len(raws) != 4 {
		t.Fatalf("expected 4 events, got %d", len(raws))
	}
}

func TestEventbriteGetEventsZeroPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pagination":{"object_count":0,"page_number":1,"page_size":0},"events":[]}`)
	}))
	defer srv.Close()

	client, _ := buildEventbrite(eventbriteTestSession(srv))

	raws, err := client.GetEvents()
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(raws) != 0 {
		t.Fatalf("expected no events, got %d", len(raws))
	}
}

func TestEventbriteDoesNotPollRsvps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("rsvp polling must not hit the network")
	}))
	defer srv.Close()

	client, _ := buildEventbrite(eventbriteTestSession(srv))

	if client.SupportsRsvpPolling() {
		t.Fatal("eventbrite rsvps arrive via webhook, polling must report unsupported")
	}

	raws, err := client.GetRsvps(Event{SocialNetworkEventID: "e1"})
	if err != nil || raws != nil {
		t.Fatalf("GetRsvps should be a no-op, got %v, %v", raws, err)
	}
}

func TestEventbriteNormalizeEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/venues/v9/":
			fmt.Fprint(w, `{"name":"Moscone Center","address":{"address_1":"747 Howard St","city":"San Francisco","region":"CA","postal_code":"94103","country":"US","longitude":"-122.4013","latitude":"37.7842"}}`)
		case "/organizers/o3/":
			fmt.Fprint(w, `{"name":"Acme Conferences"}`)
		default:
			t.Errorf("unexpected lookup %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	_, normalizer := buildEventbrite(eventbriteTestSession(srv))

	raw := json.RawMessage(`{
		"id": "e1",
		"name": {"text": "GopherCon"},
		"description": {"text": "the big one"},
		"start": {"utc": "2017-07-28T09:00:00Z", "timezone": "America/Los_Angeles"},
		"end": {"utc": "2017-07-28T17:00:00Z"},
		"capacity": 1500,
		"currency": "USD",
		"venue_id": "v9",
		"organizer_id": "o3"
	}`)

	ev, err := normalizer.NormalizeEvent(raw)
	if err != nil {
		t.Fatalf("NormalizeEvent: %v", err)
	}
	if ev == nil {
		t.Fatal("expected an event, got a drop")
	}

	if ev.City != "San Francisco" || ev.VenueName != "Moscone Center" {
		t.Fatalf("venue lookup not applied: %+v", ev)
	}
	if ev.OrganizerName != "Acme Conferences" {
		t.Fatalf("organizer lookup not applied: %q", ev.OrganizerName)
	}
	if ev.Longitude != -122.4013 || ev.Latitude != 37.7842 {
		t.Fatalf("string coordinates not parsed: %v, %v", ev.Longitude, ev.Latitude)
	}
	if ev.StartDatetime != 1501232400 {
		t.Fatalf("start time not parsed: %d", ev.StartDatetime)
	}
	if ev.StartDatetime >= ev.EndDatetime {
		t.Fatalf("end not after start: %d vs %d", ev.StartDatetime, ev.EndDatetime)
	}
	if ev.MaxAttendees != 1500 || ev.Currency != "USD" {
		t.Fatalf("capacity fields not mapped: %+v", ev)
	}
}

func TestEventbriteNormalizeEventNoVenueDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no lookup expected for a venueless event, got %s", r.URL.Path)
	}))
	defer srv.Close()

	_, normalizer := buildEventbrite(eventbriteTestSession(srv))

	ev, err := normalizer.NormalizeEvent(json.RawMessage(`{"id":"e2","name":{"text":"Online Webinar"}}`))
	if err != nil {
		t.Fatalf("NormalizeEvent: %v", err)
	}
	if ev != nil {
		t.Fatal("an eventbrite event without a venue must be dropped")
	}
}

func TestEventbriteNormalizeAttendee(t *testing.T) {
	owning := &Event{ID: 5, SocialNetworkID: 2, UserID: 7, SocialNetworkEventID: "e1"}

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := eventbriteTestSession(srv)
	s.findEvent = func(userID, snID int64, vendorEventID string) (*Event, error) {
		if vendorEventID == "e1" {
			return owning, nil
		}
		return nil, nil
	}
	_, normalizer := buildEventbrite(s)

	raw := json.RawMessage(`{
		"id": "att77",
		"created": "2017-07-01T10:00:00Z",
		"status": "Attending",
		"event_id": "e1",
		"profile": {
			"first_name": "Sam",
			"last_name": "Lee",
			"email": "sam@example.com",
			"addresses": {"home": {"city": "Oakland", "country": "US"}}
		}
	}`)

	att, err := normalizer.NormalizeAttendee(raw, raw)
	if err != nil {
		t.Fatalf("NormalizeAttendee: %v", err)
	}
	if att == nil {
		t.Fatal("expected an attendee")
	}

	if att.FirstName != "Sam" || att.Email != "sam@example.com" {
		t.Fatalf("profile fields not mapped: %+v", att)
	}
	if att.RsvpStatus != RSVP_YES {
		t.Fatalf("Attending should map to yes, got %q", att.RsvpStatus)
	}
	if att.VendorRsvpID != "att77" {
		t.Fatalf("attendee id should be the rsvp identity, got %q", att.VendorRsvpID)
	}
	if att.Event != owning {
		t.Fatal("attendee not attached to the resolved event")
	}
}

func TestEventbriteRsvpStatusMapping(t *testing.T) {
	cases := []struct {
		att  EventbriteAttendee
		want string
	}{
		{EventbriteAttendee{Status: "Attending"}, RSVP_YES},
		{EventbriteAttendee{Status: "placed"}, RSVP_YES},
		{EventbriteAttendee{Status: "checked_in"}, RSVP_YES},
		{EventbriteAttendee{Status: "Cancelled"}, RSVP_NO},
		{EventbriteAttendee{Status: "refunded"}, RSVP_NO},
		{EventbriteAttendee{Status: "Attending", Cancelled: true}, RSVP_NO},
		{EventbriteAttendee{Status: "wandering"}, RSVP_MAYBE},
		{EventbriteAttendee{}, RSVP_MAYBE},
	}

	for _, tc := range cases {
		if got := eventbriteRsvpStatus(tc.att); got != tc.want {
			t.Errorf("eventbriteRsvpStatus(%+v) = %q, want %q", tc.att, got, tc.want)
		}
	}
}
