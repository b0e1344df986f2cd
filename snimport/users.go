package main

import (
	"errors"
)

type User struct {
	ID        int64  `db:"id, primarykey, autoincrement" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

func getUserByID(userID int64) (User, error) {
	thisUser := User{}
	err := dbmap.SelectOne(&thisUser, "SELECT * FROM users WHERE id = ?", userID)
	if err != nil {
		return thisUser, errors.New("could not find user")
	}

	return thisUser, nil
}
