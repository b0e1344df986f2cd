package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func registerImportRoutes(router *gin.Engine, o *ImportOrchestrator) {
	router.GET("/healthcheck", healthcheck)
	router.POST("/api/import/run", func(c *gin.Context) { runImportNow(c, o) })
	router.POST("/webhooks/eventbrite/:verifyToken", func(c *gin.Context) { eventbriteWebhookReceiver(c, o) })
	router.POST("/api/social_networks/"+SN_EVENTBRITE+"/credentials/:userID/webhook", addEventbriteWebhook)
}

func healthcheck(c *gin.Context) {
	err := dbmap.Db.Ping()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"db": "down"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"db": "up"})
}

type RunImportBody struct {
	Mode          string `json:"mode"`
	SocialNetwork string `json:"social_network"`
}

func runImportNow(c *gin.Context, o *ImportOrchestrator) {
	err := isAdminUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := RunImportBody{Mode: string(ModeEvent)}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindWith(&input, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Input is wrong format"})
			return
		}
	}

	mode := ImportMode(input.Mode)
	if mode != ModeEvent && mode != ModeRsvp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be event or rsvp"})
		return
	}

	go func() {
		_, err := o.Run(mode, input.SocialNetwork)
		if err != nil {
			ErrorLog.Println("admin triggered import failed: ", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"started": true})
}

// Eventbrite pushes order webhooks here; the verify token in the path ties
// the request back to the credential the webhook was registered for. Always
// answer 200 once the payload is read, the vendor retries anything else.
func eventbriteWebhookReceiver(c *gin.Context, o *ImportOrchestrator) {
	thisCred, err := getCredentialByWebhookToken(c.Param("verifyToken"))
	if err != nil {
		ErrorLog.Println("eventbrite webhook with unknown verify token")
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	payload := EventbriteWebhookPayload{}
	if err := c.ShouldBindWith(&payload, binding.JSON); err != nil {
		ErrorLog.Println("eventbrite webhook bad payload: ", err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	if payload.Config.Action != "order.placed" && payload.Config.Action != "order.refunded" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	thisSN, err := getSocialNetworkByID(thisCred.SocialNetworkID)
	if err != nil {
		ErrorLog.Println("eventbrite webhook: ", err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	session := newVendorSession(thisSN, *thisCred)
	client, normalizer := buildEventbrite(session)

	order, err := client.(*eventbriteClient).getOrder(payload.APIURL)
	if err != nil {
		ErrorLog.Printf("eventbrite webhook order fetch failed: user=%d err=%v\n", thisCred.UserID, err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	imported := 0
	for _, rawAttendee := range order.Attendees {
		att, err := normalizer.NormalizeAttendee(rawAttendee, rawAttendee)
		if err != nil {
			ErrorLog.Printf("eventbrite webhook normalize failed: user=%d err=%v\n", thisCred.UserID, err)
			continue
		}
		if att == nil {
			continue
		}

		if payload.Config.Action == "order.refunded" {
			att.RsvpStatus = RSVP_NO
		}

		_, err = o.reconciler.UpsertRsvp(att)
		if err != nil {
			ErrorLog.Printf("eventbrite webhook upsert failed: user=%d err=%v\n", thisCred.UserID, err)
			continue
		}

		imported++
	}

	InfoLog.Printf("eventbrite webhook processed: user=%d action=%s rsvps=%d\n",
		thisCred.UserID, payload.Config.Action, imported)

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

func addEventbriteWebhook(c *gin.Context) {
	err := isAdminUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input is wrong format"})
		return
	}

	thisSN, err := getSocialNetworkByName(SN_EVENTBRITE)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thisCred, err := getCredentialByUserAndSocialNetwork(userID, thisSN.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = registerEventbriteWebhook(thisSN, thisCred)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = dbmap.Update(thisCred)
	if err != nil {
		ErrorLog.Println("addEventbriteWebhook Update: ", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"webhook": thisCred.Webhook})
}
