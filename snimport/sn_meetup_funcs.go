package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type meetupClient struct {
	*vendorSession
}

type meetupNormalizer struct {
	*vendorSession
}

func buildMeetup(s *vendorSession) (VendorClient, EventNormalizer) {
	return &meetupClient{s}, &meetupNormalizer{s}
}

func (mc *meetupClient) SupportsRsvpPolling() bool { return true }

func (mc *meetupClient) GetEvents() ([]json.RawMessage, error) {
	urlStr := fmt.Sprintf("%s/2/events?member_id=%s&fields=timezone&page=100", mc.network.ApiURL, mc.cred.MemberID)
	return mc.paginate(urlStr)
}

func (mc *meetupClient) GetRsvps(event Event) ([]json.RawMessage, error) {
	urlStr := fmt.Sprintf("%s/2/rsvps?event_id=%s&page=100", mc.network.ApiURL, event.SocialNetworkEventID)
	return mc.paginate(urlStr)
}

func (mc *meetupClient) GetAttendee(rawRsvp json.RawMessage) (json.RawMessage, error) {
	thisRSVP := MeetupRSVP{}
	if err := json.Unmarshal(rawRsvp, &thisRSVP); err != nil {
		return nil, err
	}

	urlStr := fmt.Sprintf("%s/2/member/%d", mc.network.ApiURL, thisRSVP.Member.MemberID)
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+mc.token)

	var raw json.RawMessage
	if err := mc.getJSON(req, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// follow meta.next until the cursor runs out; an HTTP error mid pagination
// aborts with what was collected so far and the error
func (mc *meetupClient) paginate(urlStr string) ([]json.RawMessage, error) {
	all := []json.RawMessage{}

	for urlStr != "" {
		req, err := http.NewRequest("GET", urlStr, nil)
		if err != nil {
			return all, err
		}
		req.Header.Set("Authorization", "Bearer "+mc.token)

		page := MeetupPageResponse{}
		if err := mc.getJSON(req, &page); err != nil {
			return all, err
		}

		all = append(all, page.Results...)
		urlStr = page.Meta.Next
	}

	return all, nil
}

func (mn *meetupNormalizer) NormalizeEvent(raw json.RawMessage) (*Event, error) {
	thisEvent := MeetupEvent{}
	if err := json.Unmarshal(raw, &thisEvent); err != nil {
		return nil, err
	}

	if thisEvent.ID == "" || thisEvent.Name == "" {
		mn.errorLog.Printf("meetup event missing id or name, dropping: user=%d payload id=%q\n", mn.cred.UserID, thisEvent.ID)
		return nil, nil
	}

	start := thisEvent.Time / 1000
	end := start
	if thisEvent.Duration > 0 {
		end = (thisEvent.Time + thisEvent.Duration) / 1000
	}

	ev := &Event{
		SocialNetworkEventID: thisEvent.ID,
		SocialNetworkID:      mn.network.ID,
		UserID:               mn.cred.UserID,
		Title:                thisEvent.Name,
		Description:          thisEvent.Description,
		StartDatetime:        start,
		EndDatetime:          end,
		Timezone:             thisEvent.Timezone,
		OrganizerName:        thisEvent.Group.Name,
		MaxAttendees:         thisEvent.RsvpLimit,
		Currency:             thisEvent.Fee.Currency,
		Cost:                 thisEvent.Fee.Amount,
	}

	// meetup carries the venue inline and omits it for online events, a
	// missing venue is a soft failure here
	if thisEvent.Venue != nil {
		ev.VenueName = thisEvent.Venue.Name
		ev.AddressLine1 = thisEvent.Venue.Address1
		ev.AddressLine2 = thisEvent.Venue.Address2
		ev.City = thisEvent.Venue.City
		ev.State = thisEvent.Venue.State
		ev.ZipCode = thisEvent.Venue.Zip
		ev.Country = thisEvent.Venue.Country
		ev.Longitude = thisEvent.Venue.Lon
		ev.Latitude = thisEvent.Venue.Lat
	}

	return ev, nil
}

func (mn *meetupNormalizer) NormalizeAttendee(rawRsvp, rawAttendee json.RawMessage) (*Attendee, error) {
	thisRSVP := MeetupRSVP{}
	if err := json.Unmarshal(rawRsvp, &thisRSVP); err != nil {
		return nil, err
	}

	thisMember := MeetupMember{}
	if err := json.Unmarshal(rawAttendee, &thisMember); err != nil {
		return nil, err
	}

	owningEvent, err := mn.findEvent(mn.cred.UserID, mn.network.ID, thisRSVP.Event.ID)
	if err != nil {
		return nil, err
	}
	if owningEvent == nil {
		// expected when the rsvp arrives before its event was imported
		mn.errorLog.Printf("meetup rsvp %d references unknown event %s, dropping\n", thisRSVP.RsvpID, thisRSVP.Event.ID)
		return nil, nil
	}

	firstName, lastName := splitFullName(thisMember.Name)

	return &Attendee{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        thisMember.Email,
		City:         thisMember.City,
		Country:      thisMember.Country,
		MemberID:     strconv.FormatInt(thisMember.ID, 10),
		VendorRsvpID: strconv.FormatInt(thisRSVP.RsvpID, 10),
		RsvpStatus:   meetupRsvpStatus(thisRSVP.Response),
		RsvpDatetime: thisRSVP.Mtime / 1000,
		Event:        owningEvent,
	}, nil
}

func meetupRsvpStatus(response string) string {
	switch response {
	case "yes", "yes_pending_payment":
		return RSVP_YES
	case "no":
		return RSVP_NO
	case "waitlist":
		return RSVP_MAYBE
	default:
		return RSVP_MAYBE
	}
}

func splitFullName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}

	return parts[0], parts[1]
}
