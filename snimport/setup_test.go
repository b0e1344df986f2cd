package main

import (
	"database/sql"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gopkg.in/gorp.v2"
	_ "modernc.org/sqlite"
)

var testLog = log.New(io.Discard, "", 0)

// setupTestDB points the package globals at a throwaway sqlite database with
// the same tables and unique natural-key indexes the mysql setup creates.
func setupTestDB(t *testing.T) {
	t.Helper()

	env = &Env{Production: false}
	InfoLog = testLog
	ErrorLog = testLog
	GinLog = testLog
	cash = cache.New(time.Minute, time.Minute)

	dbPath := filepath.Join(t.TempDir(), "snimport_test.db")
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	dbmap = &gorp.DbMap{Db: db, Dialect: gorp.SqliteDialect{}}
	registerTables(dbmap)

	if err := dbmap.CreateTablesIfNotExists(); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	mustExec(t, "CREATE UNIQUE INDEX userNetworkUnique ON user_credentials (user_id, social_network_id)")
	mustExec(t, "CREATE UNIQUE INDEX eventNaturalKey ON events (user_id, social_network_id, social_network_event_id)")
	mustExec(t, "CREATE UNIQUE INDEX rsvpNaturalKey ON rsvps (social_network_rsvp_id, candidate_id, social_network_id)")

	t.Cleanup(func() { db.Close() })
}

func mustExec(t *testing.T, query string) {
	t.Helper()

	if _, err := dbmap.Exec(query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func insertTestNetwork(t *testing.T, name, apiURL, authURL string) SocialNetwork {
	t.Helper()

	sn := SocialNetwork{Name: name, ApiURL: apiURL, AuthURL: authURL, ClientKey: "test-client-key"}
	if err := dbmap.Insert(&sn); err != nil {
		t.Fatalf("insert social network: %v", err)
	}

	return sn
}

func insertTestCredential(t *testing.T, userID, snID int64, access, refresh string) UserSocialNetworkCredential {
	t.Helper()

	cred := UserSocialNetworkCredential{
		UserID:          userID,
		SocialNetworkID: snID,
		AccessToken:     access,
		RefreshToken:    refresh,
		MemberID:        "1001",
		Status:          CREDENTIAL_CONNECTED,
	}
	if err := dbmap.Insert(&cred); err != nil {
		t.Fatalf("insert credential: %v", err)
	}

	return cred
}

func insertTestEvent(t *testing.T, userID, snID int64, vendorEventID, title string) Event {
	t.Helper()

	ev := Event{
		SocialNetworkEventID: vendorEventID,
		SocialNetworkID:      snID,
		UserID:               userID,
		Title:                title,
		Created:              time.Now().Unix(),
	}
	if err := dbmap.Insert(&ev); err != nil {
		t.Fatalf("insert event: %v", err)
	}

	return ev
}

func countRows(t *testing.T, table string) int {
	t.Helper()

	n, err := dbmap.SelectInt("SELECT COUNT(*) FROM " + table)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}

	return int(n)
}

func newTestOrchestrator(registry map[string]vendorBuilder) *ImportOrchestrator {
	return &ImportOrchestrator{
		db:       dbmap,
		registry: registry,
		refresher: &TokenRefresher{
			db:       dbmap,
			registry: registry,
			infoLog:  testLog,
			errorLog: testLog,
		},
		reconciler: &Reconciler{db: dbmap, infoLog: testLog, errorLog: testLog},
		poolSize:   importPoolSize,
		infoLog:    testLog,
		errorLog:   testLog,
	}
}

func newTestSession(sn SocialNetwork, cred UserSocialNetworkCredential) *vendorSession {
	s := newVendorSession(sn, cred)
	s.infoLog = testLog
	s.errorLog = testLog

	return s
}
