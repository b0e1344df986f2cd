package main

import (
	"database/sql"
)

type RSVP struct {
	ID                  int64  `db:"id, primarykey, autoincrement" json:"id"`
	SocialNetworkRsvpID string `db:"social_network_rsvp_id" json:"social_network_rsvp_id"`
	CandidateID         int64  `db:"candidate_id" json:"candidate_id"`
	SocialNetworkID     int64  `db:"social_network_id" json:"social_network_id"`
	EventID             int64  `db:"event_id" json:"event_id"`
	RsvpStatus          string `db:"rsvp_status" json:"rsvp_status"`
	RsvpDatetime        int64  `db:"rsvp_datetime" json:"rsvp_datetime"`
	Created             int64  `db:"created" json:"created"`
}

const (
	RSVP_YES   = "yes"
	RSVP_NO    = "no"
	RSVP_MAYBE = "maybe"
)

func getRSVPByNaturalKey(vendorRsvpID string, candidateID, socialNetworkID int64) (*RSVP, error) {
	thisRSVP := &RSVP{}
	err := dbmap.SelectOne(thisRSVP,
		"SELECT * FROM rsvps WHERE social_network_rsvp_id = ? AND candidate_id = ? AND social_network_id = ?",
		vendorRsvpID, candidateID, socialNetworkID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return thisRSVP, nil
}
