package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserSocialNetworkCredential struct {
	ID              int64  `db:"id, primarykey, autoincrement" json:"id"`
	UserID          int64  `db:"user_id" json:"user_id"`
	SocialNetworkID int64  `db:"social_network_id" json:"social_network_id"`
	AccessToken     string `db:"access_token" json:"-"`
	RefreshToken    string `db:"refresh_token" json:"-"`
	MemberID        string `db:"member_id" json:"member_id"`
	Webhook         string `db:"webhook" json:"webhook"`
	WebhookToken    string `db:"webhook_token" json:"-"`
	Status          string `db:"status" json:"status"`
}

const (
	CREDENTIAL_CONNECTED = "connected"
	CREDENTIAL_EXPIRED   = "expired"
)

// socialNetworkID of 0 means all networks
func getAllConnectedCredentials(socialNetworkID int64) ([]UserSocialNetworkCredential, error) {
	allCreds := []UserSocialNetworkCredential{}

	var err error
	if socialNetworkID == 0 {
		_, err = dbmap.Select(&allCreds, "SELECT * FROM user_credentials WHERE status = ?", CREDENTIAL_CONNECTED)
	} else {
		_, err = dbmap.Select(&allCreds, "SELECT * FROM user_credentials WHERE status = ? AND social_network_id = ?", CREDENTIAL_CONNECTED, socialNetworkID)
	}
	if err != nil {
		ErrorLog.Println("getAllConnectedCredentials Select: ", err)
		return allCreds, errors.New("could not query user credentials")
	}

	return allCreds, nil
}

func getCredentialByUserAndSocialNetwork(userID, socialNetworkID int64) (*UserSocialNetworkCredential, error) {
	thisCred := &UserSocialNetworkCredential{}
	err := dbmap.SelectOne(thisCred, "SELECT * FROM user_credentials WHERE user_id = ? AND social_network_id = ?", userID, socialNetworkID)
	if err != nil {
		return nil, errors.New("could not find credential for user")
	}

	return thisCred, nil
}

func getCredentialByWebhookToken(token string) (*UserSocialNetworkCredential, error) {
	thisCred := &UserSocialNetworkCredential{}
	err := dbmap.SelectOne(thisCred, "SELECT * FROM user_credentials WHERE webhook_token = ?", token)
	if err != nil {
		return nil, errors.New("could not find credential for webhook token")
	}

	return thisCred, nil
}

func registerCredentialRoutes(router *gin.Engine) {
	router.DELETE("/api/social_networks/:networkName/credentials/:userID", disconnectCredential)
}

func disconnectCredential(c *gin.Context) {
	err := isAdminUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thisSN, err := getSocialNetworkByName(c.Param("networkName"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input is wrong format"})
		return
	}

	thisCred, err := getCredentialByUserAndSocialNetwork(userID, thisSN.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if thisSN.Name == SN_EVENTBRITE && thisCred.Webhook != "" {
		if err := deleteEventbriteWebhook(thisSN, *thisCred); err != nil {
			ErrorLog.Println("disconnectCredential could not delete vendor webhook: ", err)
		}
	}

	_, err = dbmap.Delete(thisCred)
	if err != nil {
		ErrorLog.Println("disconnectCredential Delete: ", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
