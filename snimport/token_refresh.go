package main

import (
	"errors"
	"log"

	"gopkg.in/gorp.v2"
)

// TokenRefresher keeps credential access tokens usable. It is only invoked
// reactively, after a vendor call came back 401; expiry timestamps are not
// reliable across vendors so there is no proactive schedule.
type TokenRefresher struct {
	db       *gorp.DbMap
	registry map[string]vendorBuilder
	notify   func(cred UserSocialNetworkCredential, sn SocialNetwork)
	infoLog  *log.Logger
	errorLog *log.Logger
}

func newTokenRefresher(db *gorp.DbMap, registry map[string]vendorBuilder) *TokenRefresher {
	return &TokenRefresher{
		db:       db,
		registry: registry,
		notify:   sendReconnectNotice,
		infoLog:  InfoLog,
		errorLog: ErrorLog,
	}
}

// Refresh exchanges the refresh token and persists the result. A failure
// means this user's connection is broken: the credential is flagged expired,
// the user is notified, and the caller must skip the task for this run.
func (tr *TokenRefresher) Refresh(cred *UserSocialNetworkCredential, sn SocialNetwork) (string, error) {
	builder, ok := tr.registry[sn.Name]
	if !ok {
		return "", errors.New("no registered vendor for " + sn.Name)
	}

	if builder.refreshGrant == nil {
		// tokens for this vendor never expire, a 401 means revoked
		tr.markExpired(cred, sn)
		return "", errors.New(sn.Name + " does not issue refresh tokens, user must reconnect")
	}

	newAccess, newRefresh, err := builder.refreshGrant(sn, *cred)
	if err != nil {
		tr.errorLog.Printf("REFRESH ERROR!: network=%s user=%d err=%v\n", sn.Name, cred.UserID, err)
		tr.markExpired(cred, sn)
		return "", err
	}

	cred.AccessToken = newAccess
	if newRefresh != "" {
		// some vendors rotate the refresh token on every exchange
		cred.RefreshToken = newRefresh
	}

	_, err = tr.db.Update(cred)
	if err != nil {
		tr.errorLog.Println("Refresh could not persist new token: ", err)
		return "", err
	}

	tr.infoLog.Printf("refreshed access token: network=%s user=%d\n", sn.Name, cred.UserID)

	return newAccess, nil
}

func (tr *TokenRefresher) markExpired(cred *UserSocialNetworkCredential, sn SocialNetwork) {
	cred.Status = CREDENTIAL_EXPIRED

	_, err := tr.db.Update(cred)
	if err != nil {
		tr.errorLog.Println("markExpired could not update credential: ", err)
		return
	}

	if tr.notify != nil {
		tr.notify(*cred, sn)
	}
}
