package main

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Facebook has no refresh tokens; a short-lived token is traded for a
// long-lived one with the fb_exchange_token grant, re-using the current
// access token as the exchanged value.
func facebookRefreshGrant(sn SocialNetwork, cred UserSocialNetworkCredential) (string, string, error) {
	if cred.AccessToken == "" {
		return "", "", errors.New("no access token to exchange, must reauthorize")
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", sn.ClientKey)
	params.Add("client_secret", passwords.FACEBOOK_API_SECRET)
	params.Add("fb_exchange_token", cred.AccessToken)

	req, err := http.NewRequest("GET", sn.AuthURL+"?"+params.Encode(), nil)
	if err != nil {
		ErrorLog.Println("facebook err: ", err)
		return "", "", errors.New("Something went wrong")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		ErrorLog.Println("facebook err: ", err)
		return "", "", errors.New("Something is wrong on our end")
	}
	defer resp.Body.Close()

	if resp.StatusCode > 201 {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		bodyString := string(bodyBytes)

		ErrorLog.Println(bodyString)
		ErrorLog.Println("facebook err with code: ", resp.StatusCode)
		return "", "", errors.New("BAD REQUEST: " + strconv.Itoa(resp.StatusCode))
	}

	fbResponse := FacebookAccessResponse{}
	err = json.NewDecoder(resp.Body).Decode(&fbResponse)
	if err != nil {
		ErrorLog.Println("facebook NewDecoder err: ", err)
		return "", "", err
	}

	return fbResponse.AccessToken, "", nil
}
