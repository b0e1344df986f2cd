package main

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
)

type Passwords struct {
	ADMIN_KEY                        string `json:"admin_key"`
	PROD_DB_PW                       string `json:"prod_db_pw"`
	LOCAL_DB_PW                      string `json:"local_db_pw"`
	MEETUP_API_SECRET                string `json:"meetup_secret"`
	FACEBOOK_API_SECRET              string `json:"facebook_secret"`
	NO_REPLY_EMAILER_ADDRESS         string `json:"no_reply_emailer_address"`
	ADMIN_NOTIFICATION_EMAIL_ADDRESS string `json:"admin_notification_email_address"`
	SG_EMAILER_PASSWORD              string `json:"sg_emailer_password"`
}

var passwords Passwords

func loadPasswords() {
	absPath := "/etc/snimport/config/passwords.json"
	if !env.Production {
		absPath, _ = filepath.Abs("./snimport/config/passwords.json")
	}

	raw, err := ioutil.ReadFile(absPath)
	if err != nil {
		ErrorLog.Println(err)
		panic("FAILED to open password json: " + err.Error())
	}

	err = json.Unmarshal(raw, &passwords)
	if err != nil {
		ErrorLog.Println(err)
		panic("FAILED Unmarshal password json: " + err.Error())
	}
}
