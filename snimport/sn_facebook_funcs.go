package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const facebookEventFields = "id,name,description,start_time,end_time,timezone,place,owner,attending_count"

var facebookRsvpBuckets = []string{"attending", "maybe", "declined"}

type facebookClient struct {
	*vendorSession
}

type facebookNormalizer struct {
	*vendorSession
}

func buildFacebook(s *vendorSession) (VendorClient, EventNormalizer) {
	return &facebookClient{s}, &facebookNormalizer{s}
}

func (fc *facebookClient) SupportsRsvpPolling() bool { return true }

func (fc *facebookClient) GetEvents() ([]json.RawMessage, error) {
	urlStr := fmt.Sprintf("%s/me/events?fields=%s&limit=100&access_token=%s",
		fc.network.ApiURL, facebookEventFields, url.QueryEscape(fc.token))
	return fc.paginate(urlStr)
}

// the three status buckets page independently and are concatenated; each item
// gets the owning event id stamped in since the graph payload omits it
func (fc *facebookClient) GetRsvps(event Event) ([]json.RawMessage, error) {
	all := []json.RawMessage{}

	for _, bucket := range facebookRsvpBuckets {
		urlStr := fmt.Sprintf("%s/%s/%s?limit=100&access_token=%s",
			fc.network.ApiURL, event.SocialNetworkEventID, bucket, url.QueryEscape(fc.token))

		raws, err := fc.paginate(urlStr)
		if err != nil {
			return all, err
		}

		for _, raw := range raws {
			item := FacebookRSVP{}
			if err := json.Unmarshal(raw, &item); err != nil {
				return all, err
			}
			if item.RsvpStatus == "" {
				item.RsvpStatus = bucket
			}
			item.EventID = event.SocialNetworkEventID

			stamped, err := json.Marshal(item)
			if err != nil {
				return all, err
			}

			all = append(all, stamped)
		}
	}

	return all, nil
}

func (fc *facebookClient) GetAttendee(rawRsvp json.RawMessage) (json.RawMessage, error) {
	thisRSVP := FacebookRSVP{}
	if err := json.Unmarshal(rawRsvp, &thisRSVP); err != nil {
		return nil, err
	}

	urlStr := fmt.Sprintf("%s/%s?fields=first_name,last_name,email,location&access_token=%s",
		fc.network.ApiURL, thisRSVP.ID, url.QueryEscape(fc.token))
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := fc.getJSON(req, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// follow paging.next URLs until absent
func (fc *facebookClient) paginate(urlStr string) ([]json.RawMessage, error) {
	all := []json.RawMessage{}

	for urlStr != "" {
		req, err := http.NewRequest("GET", urlStr, nil)
		if err != nil {
			return all, err
		}

		page := FacebookPageResponse{}
		if err := fc.getJSON(req, &page); err != nil {
			return all, err
		}

		all = append(all, page.Data...)
		urlStr = page.Paging.Next
	}

	return all, nil
}

func (fn *facebookNormalizer) NormalizeEvent(raw json.RawMessage) (*Event, error) {
	thisEvent := FacebookEvent{}
	if err := json.Unmarshal(raw, &thisEvent); err != nil {
		return nil, err
	}

	if thisEvent.ID == "" || thisEvent.Name == "" {
		fn.errorLog.Printf("facebook event missing id or name, dropping: user=%d payload id=%q\n", fn.cred.UserID, thisEvent.ID)
		return nil, nil
	}

	organizerName := thisEvent.Owner.Name
	organizerEmail := ""
	if thisEvent.Owner.ID != "" {
		owner, err := fn.getOwner(thisEvent.Owner.ID)
		if err != nil {
			fn.errorLog.Printf("facebook owner lookup failed for event %s: %v\n", thisEvent.ID, err)
		} else {
			organizerName = owner.Name
			organizerEmail = owner.Email
		}
	}

	ev := &Event{
		SocialNetworkEventID: thisEvent.ID,
		SocialNetworkID:      fn.network.ID,
		UserID:               fn.cred.UserID,
		Title:                thisEvent.Name,
		Description:          thisEvent.Description,
		StartDatetime:        parseFacebookTime(thisEvent.StartTime),
		EndDatetime:          parseFacebookTime(thisEvent.EndTime),
		Timezone:             thisEvent.Timezone,
		OrganizerName:        organizerName,
		OrganizerEmail:       organizerEmail,
		MaxAttendees:         thisEvent.AttendingCount,
	}

	// events without a place are a normal state on this network, the
	// address fields stay blank
	if thisEvent.Place != nil {
		ev.VenueName = thisEvent.Place.Name
		ev.AddressLine1 = thisEvent.Place.Location.Street
		ev.City = thisEvent.Place.Location.City
		ev.State = thisEvent.Place.Location.State
		ev.ZipCode = thisEvent.Place.Location.Zip
		ev.Country = thisEvent.Place.Location.Country
		ev.Longitude = thisEvent.Place.Location.Longitude
		ev.Latitude = thisEvent.Place.Location.Latitude
	}

	return ev, nil
}

func (fn *facebookNormalizer) NormalizeAttendee(rawRsvp, rawAttendee json.RawMessage) (*Attendee, error) {
	thisRSVP := FacebookRSVP{}
	if err := json.Unmarshal(rawRsvp, &thisRSVP); err != nil {
		return nil, err
	}

	attendee := FacebookAttendee{}
	if err := json.Unmarshal(rawAttendee, &attendee); err != nil {
		return nil, err
	}

	owningEvent, err := fn.findEvent(fn.cred.UserID, fn.network.ID, thisRSVP.EventID)
	if err != nil {
		return nil, err
	}
	if owningEvent == nil {
		fn.errorLog.Printf("facebook rsvp for member %s references unknown event %s, dropping\n", thisRSVP.ID, thisRSVP.EventID)
		return nil, nil
	}

	firstName := attendee.FirstName
	lastName := attendee.LastName
	if firstName == "" && thisRSVP.Name != "" {
		firstName, lastName = splitFullName(thisRSVP.Name)
	}

	rsvpTime := thisRSVP.RsvpTime
	if rsvpTime == 0 {
		rsvpTime = time.Now().Unix()
	}

	return &Attendee{
		FirstName: firstName,
		LastName:  lastName,
		Email:     attendee.Email,
		City:      attendee.Location.Name,
		MemberID:  thisRSVP.ID,
		// the graph has no rsvp id of its own, the (event, member) pair is
		// the stable identity
		VendorRsvpID: thisRSVP.EventID + "_" + thisRSVP.ID,
		RsvpStatus:   facebookRsvpStatus(thisRSVP.RsvpStatus),
		RsvpDatetime: rsvpTime,
		Event:        owningEvent,
	}, nil
}

func (fn *facebookNormalizer) getOwner(ownerID string) (*FacebookOwner, error) {
	urlStr := fmt.Sprintf("%s/%s?fields=name,email&access_token=%s", fn.network.ApiURL, ownerID, url.QueryEscape(fn.token))
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}

	owner := &FacebookOwner{}
	if err := fn.getJSON(req, owner); err != nil {
		return nil, err
	}

	return owner, nil
}

func facebookRsvpStatus(status string) string {
	switch status {
	case "attending":
		return RSVP_YES
	case "maybe", "unsure":
		return RSVP_MAYBE
	case "declined":
		return RSVP_NO
	default:
		return RSVP_MAYBE
	}
}

func parseFacebookTime(value string) int64 {
	if value == "" {
		return 0
	}

	parsed, err := time.Parse("2006-01-02T15:04:05-0700", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return 0
		}
	}

	return parsed.Unix()
}
