package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strings"
	"time"
)

// VendorClient speaks one network's REST dialect for events and RSVPs. All
// methods follow the vendor's pagination until exhausted; a failure mid
// pagination surfaces as an error, never as a silently short list.
type VendorClient interface {
	GetEvents() ([]json.RawMessage, error)
	GetRsvps(event Event) ([]json.RawMessage, error)
	GetAttendee(rawRsvp json.RawMessage) (json.RawMessage, error)
	SupportsRsvpPolling() bool
	SetAccessToken(token string)
}

// EventNormalizer maps one network's raw payloads onto the canonical shapes.
// NormalizeEvent returns (nil, nil) when a required field is unrecoverably
// missing; the record is dropped and logged, not an error.
type EventNormalizer interface {
	NormalizeEvent(raw json.RawMessage) (*Event, error)
	NormalizeAttendee(rawRsvp, rawAttendee json.RawMessage) (*Attendee, error)
}

// Attendee is the canonical, transient RSVP record produced by normalization.
// Event is the already-reconciled canonical event it attaches to.
type Attendee struct {
	FirstName    string
	LastName     string
	Email        string
	City         string
	Country      string
	MemberID     string
	VendorRsvpID string
	RsvpStatus   string
	RsvpDatetime int64
	Event        *Event
}

type vendorBuilder struct {
	build func(s *vendorSession) (VendorClient, EventNormalizer)
	// refreshGrant is nil for networks whose tokens never expire, a 401
	// from those goes straight to broken-connection handling
	refreshGrant func(sn SocialNetwork, cred UserSocialNetworkCredential) (string, string, error)
}

// the registry is the single place a network name selects an implementation,
// populated once at startup
func newVendorRegistry() map[string]vendorBuilder {
	return map[string]vendorBuilder{
		SN_MEETUP: {
			build:        buildMeetup,
			refreshGrant: meetupRefreshGrant,
		},
		SN_EVENTBRITE: {
			build: buildEventbrite,
		},
		SN_FACEBOOK: {
			build:        buildFacebook,
			refreshGrant: facebookRefreshGrant,
		},
	}
}

// vendorSession carries everything a client/normalizer pair shares for one
// (user, network) task: the network row, the credential, the live access
// token, and the lookups they need. A token refresh through SetAccessToken is
// seen by both sides because they share the session.
type vendorSession struct {
	network   SocialNetwork
	cred      UserSocialNetworkCredential
	token     string
	httpc     *http.Client
	findEvent func(userID, socialNetworkID int64, vendorEventID string) (*Event, error)
	infoLog   *log.Logger
	errorLog  *log.Logger
}

func newVendorSession(sn SocialNetwork, cred UserSocialNetworkCredential) *vendorSession {
	return &vendorSession{
		network:   sn,
		cred:      cred,
		token:     cred.AccessToken,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		findEvent: getEventByNaturalKey,
		infoLog:   InfoLog,
		errorLog:  ErrorLog,
	}
}

func (s *vendorSession) SetAccessToken(token string) {
	s.token = token
	s.cred.AccessToken = token
}

// getJSON performs the request, classifies non-2xx statuses into a
// vendorAPIError and decodes the body into out
func (s *vendorSession) getJSON(req *http.Request, out interface{}) error {
	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", s.network.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)

		return &vendorAPIError{
			Network:    s.network.Name,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("%s decode failed: %w", s.network.Name, err)
	}

	return nil
}

type vendorAPIError struct {
	Network    string
	StatusCode int
	Body       string
}

func (e *vendorAPIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300]
	}

	return fmt.Sprintf("%s returned %d: %s", e.Network, e.StatusCode, strings.TrimSpace(body))
}

func isAuthError(err error) bool {
	var apiErr *vendorAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}

	return false
}

func isNotFoundError(err error) bool {
	var apiErr *vendorAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}
