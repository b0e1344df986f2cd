package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func meetupTestSession(srv *httptest.Server) *vendorSession {
	return &vendorSession{
		network:   SocialNetwork{ID: 1, Name: SN_MEETUP, ApiURL: srv.URL},
		cred:      UserSocialNetworkCredential{UserID: 7, SocialNetworkID: 1, MemberID: "42"},
		token:     "tok",
		httpc:     srv.Client(),
		findEvent: func(userID, snID int64, vendorEventID string) (*Event, error) { return nil, nil },
		infoLog:   testLog,
		errorLog:  testLog,
	}
}

func TestMeetupGetEventsFollowsCursor(t *testing.T) {
	var sawAuth string

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")

		if r.URL.Query().Get("offset") == "" {
			fmt.Fprintf(w, `{"results":[{"id":"a"},{"id":"b"},{"id":"c"}],"meta":{"next":"%s/2/events?offset=1"}}`, srv.URL)
			return
		}

		fmt.Fprint(w, `{"results":[{"id":"d"},{"id":"e"}],"meta":{"next":""}}`)
	}))
	defer srv.Close()

	client, _ := buildMeetup(meetupTestSession(srv))

	raws, err := client.GetEvents()
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(raws) != 5 {
		t.Fatalf("expected 5 events across both pages, got %d", len(raws))
	}
	if sawAuth != "Bearer tok" {
		t.Fatalf("expected bearer auth header, got %q", sawAuth)
	}
}

func TestMeetupPaginationAbortsOnError(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprintf(w, `{"results":[{"id":"a"}],"meta":{"next":"%s/2/events?offset=1"}}`, srv.URL)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"problem":"server on fire"}`)
	}))
	defer srv.Close()

	client, _ := buildMeetup(meetupTestSession(srv))

	_, err := client.GetEvents()
	if err == nil {
		t.Fatal("expected an error when a later page fails")
	}
}

func TestMeetupNormalizeEvent(t *testing.T) {
	_, normalizer := buildMeetup(meetupTestSession(httptest.NewServer(http.NotFoundHandler())))

	raw := json.RawMessage(`{
		"id": "evt123",
		"name": "Go Meetup SF",
		"description": "monthly",
		"time": 1501234567000,
		"duration": 7200000,
		"timezone": "US/Pacific",
		"rsvp_limit": 80,
		"group": {"name": "SF Gophers"},
		"fee": {"amount": 5.5, "currency": "USD"},
		"venue": {
			"name": "The Loft",
			"address_1": "101 Main St",
			"city": "San Francisco",
			"state": "CA",
			"zip": "94105",
			"country": "us",
			"lon": -122.39,
			"lat": 37.79
		}
	}`)

	ev, err := normalizer.NormalizeEvent(raw)
	if err != nil {
		t.Fatalf("NormalizeEvent: %v", err)
	}
	if ev == nil {
		t.Fatal("expected an event, got a drop")
	}

	if ev.SocialNetworkEventID != "evt123" || ev.Title != "Go Meetup SF" {
		t.Fatalf("unexpected identity fields: %+v", ev)
	}
	if ev.StartDatetime != 1501234567 {
		t.Fatalf("expected epoch-ms start converted to seconds, got %d", ev.StartDatetime)
	}
	if ev.EndDatetime != 1501234567+7200 {
		t.Fatalf("expected end = start + duration, got %d", ev.EndDatetime)
	}
	if ev.City != "San Francisco" || ev.VenueName != "The Loft" {
		t.Fatalf("venue fields not mapped: %+v", ev)
	}
	if ev.OrganizerName != "SF Gophers" {
		t.Fatalf("expected group name as organizer, got %q", ev.OrganizerName)
	}
	if ev.UserID != 7 || ev.SocialNetworkID != 1 {
		t.Fatalf("owner fields not stamped: %+v", ev)
	}
}

func TestMeetupNormalizeEventMissingVenueIsSoft(t *testing.T) {
	_, normalizer := buildMeetup(meetupTestSession(httptest.NewServer(http.NotFoundHandler())))

	ev, err := normalizer.NormalizeEvent(json.RawMessage(`{"id":"x","name":"Online Only","time":1501234567000}`))
	if err != nil {
		t.Fatalf("NormalizeEvent: %v", err)
	}
	if ev == nil {
		t.Fatal("a meetup event without a venue should still import")
	}
	if ev.City != "" || ev.AddressLine1 != "" {
		t.Fatalf("expected blank address fields, got %+v", ev)
	}
}

func TestMeetupNormalizeEventMissingIDDropped(t *testing.T) {
	_, normalizer := buildMeetup(meetupTestSession(httptest.NewServer(http.NotFoundHandler())))

	ev, err := normalizer.NormalizeEvent(json.RawMessage(`{"name":"No ID"}`))
	if err != nil {
		t.Fatalf("NormalizeEvent: %v", err)
	}
	if ev != nil {
		t.Fatal("an event without an id must be dropped, not imported")
	}
}

func TestMeetupRsvpStatusMapping(t *testing.T) {
	cases := []struct {
		response string
		want     string
	}{
		{"yes", RSVP_YES},
		{"yes_pending_payment", RSVP_YES},
		{"no", RSVP_NO},
		{"waitlist", RSVP_MAYBE},
		{"something_new", RSVP_MAYBE},
		{"", RSVP_MAYBE},
	}

	for _, tc := range cases {
		if got := meetupRsvpStatus(tc.response); got != tc.want {
			t.Errorf("meetupRsvpStatus(%q) = %q, want %q", tc.response, got, tc.want)
		}
	}
}

func TestMeetupNormalizeAttendeeDanglingDropped(t *testing.T) {
	s := meetupTestSession(httptest.NewServer(http.NotFoundHandler()))
	_, normalizer := buildMeetup(s)

	rawRsvp := json.RawMessage(`{"rsvp_id":9,"response":"yes","mtime":1501234567000,"member":{"member_id":42,"name":"Jane Doe"},"event":{"id":"missing-event"}}`)
	rawMember := json.RawMessage(`{"id":42,"name":"Jane Doe","city":"Lahore","country":"pk"}`)

	att, err := normalizer.NormalizeAttendee(rawRsvp, rawMember)
	if err != nil {
		t.Fatalf("NormalizeAttendee: %v", err)
	}
	if att != nil {
		t.Fatal("an rsvp referencing an unknown event must be dropped")
	}
}

func TestMeetupNormalizeAttendee(t *testing.T) {
	owning := &Event{ID: 11, SocialNetworkID: 1, UserID: 7, SocialNetworkEventID: "evt123"}

	s := meetupTestSession(httptest.NewServer(http.NotFoundHandler()))
	s.findEvent = func(userID, snID int64, vendorEventID string) (*Event, error) {
		if vendorEventID != "evt123" {
			t.Fatalf("unexpected event lookup %q", vendorEventID)
		}
		return owning, nil
	}
	_, normalizer := buildMeetup(s)

	rawRsvp := json.RawMessage(`{"rsvp_id":9,"response":"waitlist","mtime":1501234567000,"member":{"member_id":42,"name":"Jane Doe"},"event":{"id":"evt123"}}`)
	rawMember := json.RawMessage(`{"id":42,"name":"Jane Doe","email":"jane@example.com","city":"Lahore","country":"pk"}`)

	att, err := normalizer.NormalizeAttendee(rawRsvp, rawMember)
	if err != nil {
		t.Fatalf("NormalizeAttendee: %v", err)
	}
	if att == nil {
		t.Fatal("expected an attendee")
	}

	if att.FirstName != "Jane" || att.LastName != "Doe" {
		t.Fatalf("name not split: %+v", att)
	}
	if att.RsvpStatus != RSVP_MAYBE {
		t.Fatalf("waitlist should map to maybe, got %q", att.RsvpStatus)
	}
	if att.VendorRsvpID != "9" || att.MemberID != "42" {
		t.Fatalf("vendor ids not mapped: %+v", att)
	}
	if att.RsvpDatetime != 1501234567 {
		t.Fatalf("mtime not converted to seconds: %d", att.RsvpDatetime)
	}
	if att.Event != owning {
		t.Fatal("attendee not attached to the resolved event")
	}
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		full  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Cher", "Cher", ""},
		{"Ana de la Cruz", "Ana", "de la Cruz"},
		{"  Bob  ", "Bob", ""},
	}

	for _, tc := range cases {
		first, last := splitFullName(tc.full)
		if first != tc.first || last != tc.last {
			t.Errorf("splitFullName(%q) = %q/%q, want %q/%q", tc.full, first, last, tc.first, tc.last)
		}
	}
}
