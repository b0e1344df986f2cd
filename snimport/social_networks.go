package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type SocialNetwork struct {
	ID          int64  `db:"id, primarykey, autoincrement" json:"id"`
	Name        string `db:"name" json:"name"`
	URL         string `db:"url" json:"url"`
	ApiURL      string `db:"api_url" json:"api_url"`
	ClientKey   string `db:"client_key" json:"client_key"`
	AuthURL     string `db:"auth_url" json:"auth_url"`
	RedirectURL string `db:"redirect_url" json:"redirect_url"`
}

const (
	SN_MEETUP     = "Meetup"
	SN_EVENTBRITE = "Eventbrite"
	SN_FACEBOOK   = "Facebook"
)

func getSocialNetworkByName(name string) (SocialNetwork, error) {
	if cached, found := cash.Get(CACHENAME_SOCIAL_NETWORK_BY_NAME + name); found {
		return cached.(SocialNetwork), nil
	}

	thisSN := SocialNetwork{}
	err := dbmap.SelectOne(&thisSN, "SELECT * FROM social_networks WHERE name = ?", name)
	if err != nil {
		return thisSN, errors.New("could not find social network " + name)
	}

	cash.Set(CACHENAME_SOCIAL_NETWORK_BY_NAME+name, thisSN, DEFAULT_CACHE_EXPIRATION)

	return thisSN, nil
}

func getSocialNetworkByID(id int64) (SocialNetwork, error) {
	key := CACHENAME_SOCIAL_NETWORK_BY_ID + strconv.FormatInt(id, 10)
	if cached, found := cash.Get(key); found {
		return cached.(SocialNetwork), nil
	}

	thisSN := SocialNetwork{}
	err := dbmap.SelectOne(&thisSN, "SELECT * FROM social_networks WHERE id = ?", id)
	if err != nil {
		return thisSN, errors.New("could not find social network")
	}

	cash.Set(key, thisSN, DEFAULT_CACHE_EXPIRATION)

	return thisSN, nil
}

func getAllSocialNetworks() ([]SocialNetwork, error) {
	allSNs := []SocialNetwork{}
	_, err := dbmap.Select(&allSNs, "SELECT * FROM social_networks")
	if err != nil {
		ErrorLog.Println("getAllSocialNetworks Select: ", err)
		return allSNs, errors.New("could not list social networks")
	}

	return allSNs, nil
}

func registerSocialNetworkRoutes(router *gin.Engine) {
	router.POST("/api/social_networks", addSocialNetwork)
	router.GET("/api/social_networks", listSocialNetworks)
}

func addSocialNetwork(c *gin.Context) {
	err := isAdminUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := SocialNetwork{}
	if err := c.ShouldBindWith(&input, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input is wrong format"})
		return
	}

	err = dbmap.Insert(&input)
	if err != nil {
		ErrorLog.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Something went wrong"})
		return
	}

	cash.Delete(CACHENAME_SOCIAL_NETWORK_BY_NAME + input.Name)

	c.JSON(http.StatusCreated, input)
}

func listSocialNetworks(c *gin.Context) {
	err := isAdminUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allSNs, err := getAllSocialNetworks()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, allSNs)
}

func isAdminUser(c *gin.Context) error {
	key := c.GetHeader("Admin-Key")
	if key == "" || key != passwords.ADMIN_KEY {
		return errors.New("Not authorized")
	}

	return nil
}
