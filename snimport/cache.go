package main

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

var cash *cache.Cache

const (
	CACHENAME_SOCIAL_NETWORK_BY_NAME = "snbyname"
	CACHENAME_SOCIAL_NETWORK_BY_ID   = "snbyid"

	DEFAULT_CACHE_EXPIRATION = 20 * time.Minute
)

func initCache() {
	cash = cache.New(DEFAULT_CACHE_EXPIRATION, 10*time.Minute)
}
