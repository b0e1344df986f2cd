package main

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const meetupRefreshGrantType = "refresh_token"

// Meetup rotates the refresh token on every exchange, both tokens come back.
func meetupRefreshGrant(sn SocialNetwork, cred UserSocialNetworkCredential) (string, string, error) {
	if cred.RefreshToken == "" {
		return "", "", errors.New("no refresh token to use, must reauthorize")
	}

	data := url.Values{}
	data.Add("client_id", sn.ClientKey)
	data.Add("client_secret", passwords.MEETUP_API_SECRET)
	data.Add("grant_type", meetupRefreshGrantType)
	data.Add("refresh_token", cred.RefreshToken)

	req, err := http.NewRequest("POST", sn.AuthURL, strings.NewReader(data.Encode()))
	if err != nil {
		ErrorLog.Println("meetup err: ", err)
		return "", "", errors.New("Something went wrong")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		ErrorLog.Println("meetup err: ", err)
		return "", "", errors.New("Something is wrong on our end")
	}
	defer resp.Body.Close()

	if resp.StatusCode > 201 {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		bodyString := string(bodyBytes)

		ErrorLog.Println(bodyString)
		ErrorLog.Println("meetup err with code: ", resp.StatusCode)
		return "", "", errors.New("BAD REQUEST: " + strconv.Itoa(resp.StatusCode))
	}

	meetupResponse := MeetupAccessResponse{}
	err = json.NewDecoder(resp.Body).Decode(&meetupResponse)
	if err != nil {
		ErrorLog.Println("meetup NewDecoder err: ", err)
		return "", "", err
	}

	return meetupResponse.AccessToken, meetupResponse.RefreshToken, nil
}
