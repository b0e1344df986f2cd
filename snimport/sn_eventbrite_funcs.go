package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type eventbriteClient struct {
	*vendorSession
}

type eventbriteNormalizer struct {
	*vendorSession
}

func buildEventbrite(s *vendorSession) (VendorClient, EventNormalizer) {
	return &eventbriteClient{s}, &eventbriteNormalizer{s}
}

// RSVPs for this network arrive via webhook, polling them is not an error,
// just not a capability
func (ec *eventbriteClient) SupportsRsvpPolling() bool { return false }

func (ec *eventbriteClient) GetEvents() ([]json.RawMessage, error) {
	all := []json.RawMessage{}
	pageNumber := 1

	for {
		urlStr := fmt.Sprintf("%s/users/me/owned_events/?status=live&page=%d", ec.network.ApiURL, pageNumber)
		req, err := http.NewRequest("GET", urlStr, nil)
		if err != nil {
			return all, err
		}
		req.Header.Set("Authorization", "Bearer "+ec.token)

		page := EventbritePageResponse{}
		if err := ec.getJSON(req, &page); err != nil {
			return all, err
		}

		all = append(all, page.Events...)

		// advance our own counter, a malformed response echoing the same
		// page_number back must not loop forever
		if page.Pagination.PageSize <= 0 ||
			pageNumber*page.Pagination.PageSize >= page.Pagination.ObjectCount {
			break
		}

		pageNumber++
	}

	return all, nil
}

func (ec *eventbriteClient) GetRsvps(event Event) ([]json.RawMessage, error) {
	return nil, nil
}

func (ec *eventbriteClient) GetAttendee(rawRsvp json.RawMessage) (json.RawMessage, error) {
	thisAttendee := EventbriteAttendee{}
	if err := json.Unmarshal(rawRsvp, &thisAttendee); err != nil {
		return nil, err
	}

	urlStr := thisAttendee.ResourceURI
	if urlStr == "" {
		urlStr = fmt.Sprintf("%s/events/%s/attendees/%s/", ec.network.ApiURL, thisAttendee.EventID, thisAttendee.ID)
	}

	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ec.token)

	var raw json.RawMessage
	if err := ec.getJSON(req, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// getOrder fetches a webhook payload's api_url with attendees expanded.
func (ec *eventbriteClient) getOrder(apiURL string) (*EventbriteOrder, error) {
	req, err := http.NewRequest("GET", apiURL+"?expand=attendees", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ec.token)

	order := &EventbriteOrder{}
	if err := ec.getJSON(req, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (en *eventbriteNormalizer) NormalizeEvent(raw json.RawMessage) (*Event, error) {
	thisEvent := EventbriteEvent{}
	if err := json.Unmarshal(raw, &thisEvent); err != nil {
		return nil, err
	}

	if thisEvent.ID == "" || thisEvent.Name.Text == "" {
		en.errorLog.Printf("eventbrite event missing id or name, dropping: user=%d payload id=%q\n", en.cred.UserID, thisEvent.ID)
		return nil, nil
	}

	// every address field comes from the venue resource, an event without a
	// venue is dropped for this network
	if thisEvent.VenueID == "" {
		en.errorLog.Printf("eventbrite event %q (%s) has no venue, dropping\n", thisEvent.Name.Text, thisEvent.ID)
		return nil, nil
	}

	venue, err := en.getVenue(thisEvent.VenueID)
	if err != nil {
		return nil, err
	}

	organizerName := ""
	if thisEvent.OrganizerID != "" {
		organizer, err := en.getOrganizer(thisEvent.OrganizerID)
		if err != nil {
			en.errorLog.Printf("eventbrite organizer lookup failed for event %s: %v\n", thisEvent.ID, err)
		} else {
			organizerName = organizer.Name
		}
	}

	longitude, _ := strconv.ParseFloat(venue.Address.Longitude, 64)
	latitude, _ := strconv.ParseFloat(venue.Address.Latitude, 64)

	return &Event{
		SocialNetworkEventID: thisEvent.ID,
		SocialNetworkID:      en.network.ID,
		UserID:               en.cred.UserID,
		Title:                thisEvent.Name.Text,
		Description:          thisEvent.Description.Text,
		VenueName:            venue.Name,
		AddressLine1:         venue.Address.Address1,
		AddressLine2:         venue.Address.Address2,
		City:                 venue.Address.City,
		State:                venue.Address.Region,
		ZipCode:              venue.Address.PostalCode,
		Country:              venue.Address.Country,
		Longitude:            longitude,
		Latitude:             latitude,
		StartDatetime:        parseEventbriteTime(thisEvent.Start.UTC),
		EndDatetime:          parseEventbriteTime(thisEvent.End.UTC),
		Timezone:             thisEvent.Start.Timezone,
		OrganizerName:        organizerName,
		MaxAttendees:         thisEvent.Capacity,
		Currency:             thisEvent.Currency,
	}, nil
}

func (en *eventbriteNormalizer) NormalizeAttendee(rawRsvp, rawAttendee json.RawMessage) (*Attendee, error) {
	thisAttendee := EventbriteAttendee{}
	if err := json.Unmarshal(rawAttendee, &thisAttendee); err != nil {
		return nil, err
	}
	if thisAttendee.ID == "" {
		thisAttendee = EventbriteAttendee{}
		if err := json.Unmarshal(rawRsvp, &thisAttendee); err != nil {
			return nil, err
		}
	}

	owningEvent, err := en.findEvent(en.cred.UserID, en.network.ID, thisAttendee.EventID)
	if err != nil {
		return nil, err
	}
	if owningEvent == nil {
		en.errorLog.Printf("eventbrite attendee %s references unknown event %s, dropping\n", thisAttendee.ID, thisAttendee.EventID)
		return nil, nil
	}

	return &Attendee{
		FirstName:    thisAttendee.Profile.FirstName,
		LastName:     thisAttendee.Profile.LastName,
		Email:        thisAttendee.Profile.Email,
		City:         thisAttendee.Profile.Addresses.Home.City,
		Country:      thisAttendee.Profile.Addresses.Home.Country,
		VendorRsvpID: thisAttendee.ID,
		RsvpStatus:   eventbriteRsvpStatus(thisAttendee),
		RsvpDatetime: parseEventbriteTime(thisAttendee.Created),
		Event:        owningEvent,
	}, nil
}

func (en *eventbriteNormalizer) getVenue(venueID string) (*EventbriteVenue, error) {
	req, err := http.NewRequest("GET", en.network.ApiURL+"/venues/"+venueID+"/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+en.token)

	venue := &EventbriteVenue{}
	if err := en.getJSON(req, venue); err != nil {
		return nil, err
	}

	return venue, nil
}

func (en *eventbriteNormalizer) getOrganizer(organizerID string) (*EventbriteOrganizer, error) {
	req, err := http.NewRequest("GET", en.network.ApiURL+"/organizers/"+organizerID+"/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+en.token)

	organizer := &EventbriteOrganizer{}
	if err := en.getJSON(req, organizer); err != nil {
		return nil, err
	}

	return organizer, nil
}

func eventbriteRsvpStatus(att EventbriteAttendee) string {
	if att.Cancelled {
		return RSVP_NO
	}

	switch att.Status {
	case "Attending", "attending", "placed", "Checked In", "checked_in", "Completed", "completed":
		return RSVP_YES
	case "Cancelled", "cancelled", "refunded", "Refunded", "Deleted":
		return RSVP_NO
	default:
		return RSVP_MAYBE
	}
}

func parseEventbriteTime(value string) int64 {
	if value == "" {
		return 0
	}

	parsed, err := time.Parse("2006-01-02T15:04:05Z", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return 0
		}
	}

	return parsed.Unix()
}
