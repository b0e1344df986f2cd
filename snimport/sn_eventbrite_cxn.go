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

	uuid "github.com/satori/go.uuid"
)

// Eventbrite access tokens do not expire, so there is no refresh grant for
// this network; RSVPs arrive through the webhook registered here instead of
// polling.

const eventbriteWebhookActions = "order.placed,order.refunded"

func eventbriteWebhookEndpoint(verifyToken string) string {
	base := "https://connect.gettalent.com"
	if !env.Production {
		base = "http://localhost:8080"
	}

	return base + "/webhooks/eventbrite/" + verifyToken
}

// registerEventbriteWebhook creates the vendor-side webhook and fills in the
// credential's webhook id and verify token; the caller persists the
// credential.
func registerEventbriteWebhook(sn SocialNetwork, cred *UserSocialNetworkCredential) error {
	tok, err := uuid.NewV4()
	if err != nil {
		return err
	}
	verifyToken := tok.String()

	data := url.Values{}
	data.Add("endpoint_url", eventbriteWebhookEndpoint(verifyToken))
	data.Add("actions", eventbriteWebhookActions)

	req, err := http.NewRequest("POST", sn.ApiURL+"/webhooks/", strings.NewReader(data.Encode()))
	if err != nil {
		ErrorLog.Println("eventbrite err: ", err)
		return errors.New("Something went wrong")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		ErrorLog.Println("eventbrite err: ", err)
		return errors.New("Something is wrong on our end")
	}
	defer resp.Body.Close()

	if resp.StatusCode > 201 {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		bodyString := string(bodyBytes)

		ErrorLog.Println(bodyString)
		ErrorLog.Println("eventbrite webhook err with code: ", resp.StatusCode)
		return errors.New("BAD REQUEST: " + strconv.Itoa(resp.StatusCode))
	}

	created := EventbriteWebhookCreateResponse{}
	err = json.NewDecoder(resp.Body).Decode(&created)
	if err != nil {
		ErrorLog.Println("eventbrite NewDecoder err: ", err)
		return err
	}

	cred.Webhook = created.ID
	cred.WebhookToken = verifyToken

	return nil
}

func deleteEventbriteWebhook(sn SocialNetwork, cred UserSocialNetworkCredential) error {
	req, err := http.NewRequest("DELETE", sn.ApiURL+"/webhooks/"+cred.Webhook+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 && resp.StatusCode != http.StatusNotFound {
		return errors.New("eventbrite webhook delete returned " + strconv.Itoa(resp.StatusCode))
	}

	return nil
}
