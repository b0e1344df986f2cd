package main

import (
	"database/sql"
)

type Candidate struct {
	ID        int64  `db:"id, primarykey, autoincrement" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	City      string `db:"city" json:"city"`
	Country   string `db:"country" json:"country"`
	Source    string `db:"source" json:"source"`
	SourceID  string `db:"source_id" json:"source_id"`
	Created   int64  `db:"created" json:"created"`
}

func getCandidateByEmail(email string) (*Candidate, error) {
	thisCandidate := &Candidate{}
	err := dbmap.SelectOne(thisCandidate, "SELECT * FROM candidates WHERE email = ?", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return thisCandidate, nil
}

// vendor profiles do not always expose an email, fall back to the vendor
// member id so a re-import resolves to the same candidate
func getCandidateBySource(source, sourceID string) (*Candidate, error) {
	thisCandidate := &Candidate{}
	err := dbmap.SelectOne(thisCandidate, "SELECT * FROM candidates WHERE source = ? AND source_id = ?", source, sourceID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return thisCandidate, nil
}
