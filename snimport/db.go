package main

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/gorp.v2"
)

const (
	ProdHost   = "127.0.0.1"
	ProdDbUser = "snimport"

	LocalHost   = "127.0.0.1"
	LocalDbUser = "root"

	DbName = "snimport"
)

var dbmap *gorp.DbMap

func initDB() {
	host := LocalHost
	password := passwords.LOCAL_DB_PW
	user := LocalDbUser

	if env.Production {
		host = ProdHost
		password = passwords.PROD_DB_PW
		user = ProdDbUser
	}

	db, err := sql.Open("mysql", user+":"+password+"@tcp("+host+":3306)/"+DbName)
	if err != nil {
		panic("💥 DB OPEN FAILED: " + err.Error())
	}

	err = db.Ping()
	if err != nil {
		panic("💥 DB PING FAILED: " + err.Error())
	}

	InfoLog.Println("Connected to DB ", host)

	dbmap = &gorp.DbMap{Db: db, Dialect: gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8"}}

	registerTables(dbmap)

	err = dbmap.CreateTablesIfNotExists()
	if err != nil {
		panic("💥 DB ADD TABLES FAILED")
	}

	go runExecs()
}

func registerTables(m *gorp.DbMap) {
	m.AddTableWithName(SocialNetwork{}, "social_networks")
	m.AddTableWithName(User{}, "users")
	m.AddTableWithName(UserSocialNetworkCredential{}, "user_credentials")
	m.AddTableWithName(Event{}, "events")
	m.AddTableWithName(Candidate{}, "candidates")
	m.AddTableWithName(RSVP{}, "rsvps")
}

func runExecs() {
	// the unique natural-key indexes below are what makes concurrent
	// upserts from the worker pool safe, do not drop them
	dbmap.Exec("CREATE UNIQUE INDEX nameUnique ON social_networks (name)")
	dbmap.Exec("CREATE UNIQUE INDEX userNetworkUnique ON user_credentials (user_id, social_network_id)")
	dbmap.Exec("CREATE UNIQUE INDEX eventNaturalKey ON events (user_id, social_network_id, social_network_event_id)")
	dbmap.Exec("CREATE UNIQUE INDEX rsvpNaturalKey ON rsvps (social_network_rsvp_id, candidate_id, social_network_id)")
	dbmap.Exec("CREATE INDEX candidateEmailLookup ON candidates (email)")
	dbmap.Exec("ALTER TABLE user_credentials ADD COLUMN webhook VARCHAR(255) DEFAULT ''")
	dbmap.Exec("ALTER TABLE user_credentials ADD COLUMN webhook_token VARCHAR(255) DEFAULT ''")
	dbmap.Exec("ALTER TABLE user_credentials ADD COLUMN status VARCHAR(50) DEFAULT 'connected'")
	dbmap.Exec("ALTER TABLE events MODIFY description TEXT")
	dbmap.Exec("ALTER TABLE events MODIFY organizer_email VARCHAR(512)")
	dbmap.Exec("ALTER TABLE user_credentials MODIFY access_token VARCHAR(2048)")
	dbmap.Exec("ALTER TABLE user_credentials MODIFY refresh_token VARCHAR(2048)")
}
