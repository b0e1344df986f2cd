package main

import (
	"database/sql"
	"errors"
)

type Event struct {
	ID                   int64   `db:"id, primarykey, autoincrement" json:"id"`
	SocialNetworkEventID string  `db:"social_network_event_id" json:"social_network_event_id"`
	SocialNetworkID      int64   `db:"social_network_id" json:"social_network_id"`
	UserID               int64   `db:"user_id" json:"user_id"`
	Title                string  `db:"title" json:"title"`
	Description          string  `db:"description" json:"description"`
	VenueName            string  `db:"venue_name" json:"venue_name"`
	AddressLine1         string  `db:"address_line_1" json:"address_line_1"`
	AddressLine2         string  `db:"address_line_2" json:"address_line_2"`
	City                 string  `db:"city" json:"city"`
	State                string  `db:"state" json:"state"`
	ZipCode              string  `db:"zip_code" json:"zip_code"`
	Country              string  `db:"country" json:"country"`
	Longitude            float64 `db:"longitude" json:"longitude"`
	Latitude             float64 `db:"latitude" json:"latitude"`
	StartDatetime        int64   `db:"start_datetime" json:"start_datetime"`
	EndDatetime          int64   `db:"end_datetime" json:"end_datetime"`
	Timezone             string  `db:"timezone" json:"timezone"`
	OrganizerName        string  `db:"organizer_name" json:"organizer_name"`
	OrganizerEmail       string  `db:"organizer_email" json:"organizer_email"`
	MaxAttendees         int64   `db:"max_attendees" json:"max_attendees"`
	Currency             string  `db:"currency" json:"currency"`
	Cost                 float64 `db:"cost" json:"cost"`
	Created              int64   `db:"created" json:"created"`
	Updated              int64   `db:"updated" json:"updated"`
}

func getEventByNaturalKey(userID, socialNetworkID int64, vendorEventID string) (*Event, error) {
	thisEvent := &Event{}
	err := dbmap.SelectOne(thisEvent,
		"SELECT * FROM events WHERE user_id = ? AND social_network_id = ? AND social_network_event_id = ?",
		userID, socialNetworkID, vendorEventID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return thisEvent, nil
}

func getEventsByUserAndSocialNetwork(userID, socialNetworkID int64) ([]Event, error) {
	userEvents := []Event{}
	_, err := dbmap.Select(&userEvents,
		"SELECT * FROM events WHERE user_id = ? AND social_network_id = ?", userID, socialNetworkID)
	if err != nil {
		ErrorLog.Println("getEventsByUserAndSocialNetwork Select: ", err)
		return userEvents, errors.New("could not query events for user")
	}

	return userEvents, nil
}
