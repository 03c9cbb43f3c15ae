package tests

import (
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DBClient returns a postgresql test client for integration tests
// It targets localhost by default; override the hostname with POSTGRES_HOST
// in a CI environment
func DBClient(t *testing.T) *sqlx.DB {
	host := "localhost"
	if envHost := os.Getenv("POSTGRES_HOST"); envHost != "" {
		host = envHost
	}
	dsn := fmt.Sprintf("host=%s port=5432 user=postgres password=postgres dbname=postgres sslmode=disable", host)
	dbClient, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	return dbClient
}

// DBExec execute an sql query which can lead to an immediate failure of the unit test
func DBExec(dbClient *sqlx.DB, query string, t *testing.T, failNow bool) {
	_, err := dbClient.Exec(query)
	if err != nil {
		t.Error(err)
		if failNow {
			t.FailNow()
		}
	}
}
