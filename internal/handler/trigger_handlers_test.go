package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/fieldreach/intelligence-api/internal/tests"
	"github.com/fieldreach/intelligence-api/internal/trigger"
)

func dbTriggerInitRepo(dbClient *sqlx.DB, t *testing.T) {
	dbTriggerDestroyRepo(dbClient, t)
	tests.DBExec(dbClient, tests.TriggersTableV1, t, true)
}

func dbTriggerDestroyRepo(dbClient *sqlx.DB, t *testing.T) {
	tests.DBExec(dbClient, tests.TriggersDropTableV1, t, true)
}

func TestPostTrigger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tests.CheckDebugLogs(t)

	db := tests.DBClient(t)
	defer dbTriggerDestroyRepo(db, t)
	dbTriggerInitRepo(db, t)

	trigger.ReplaceGlobals(trigger.NewPostgresRepository(db))

	body := `{"name": "donation.received", "category": "donation", "priority": 5, "enabled": true, "cooldownSeconds": 300, "condition": "amount >= 1000"}`
	rr := tests.BuildTestHandler(t, "POST", "/triggers", body, "/triggers", PostTrigger)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var created trigger.Trigger
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Errorf("expected a non-zero trigger id")
	}
	if created.Name != "donation.received" {
		t.Errorf("expected name donation.received, got %s", created.Name)
	}
}

func TestPostTriggerInvalidCondition(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tests.CheckDebugLogs(t)

	db := tests.DBClient(t)
	defer dbTriggerDestroyRepo(db, t)
	dbTriggerInitRepo(db, t)

	trigger.ReplaceGlobals(trigger.NewPostgresRepository(db))

	body := `{"name": "donation.received", "category": "donation", "priority": 5, "condition": "amount >=+ "}`
	rr := tests.BuildTestHandler(t, "POST", "/triggers", body, "/triggers", PostTrigger)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestGetTriggers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tests.CheckDebugLogs(t)

	db := tests.DBClient(t)
	defer dbTriggerDestroyRepo(db, t)
	dbTriggerInitRepo(db, t)

	trigger.ReplaceGlobals(trigger.NewPostgresRepository(db))

	_, err := trigger.R().Create(trigger.Trigger{Name: "donation.received", Category: "donation", Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	_, err = trigger.R().Create(trigger.Trigger{Name: "news.negative", Category: "crisis", Enabled: true})
	if err != nil {
		t.Fatal(err)
	}

	rr := tests.BuildTestHandler(t, "GET", "/triggers", "", "/triggers", GetTriggers)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var triggers []trigger.Trigger
	if err := json.Unmarshal(rr.Body.Bytes(), &triggers); err != nil {
		t.Fatal(err)
	}
	if len(triggers) != 2 {
		t.Errorf("expected 2 triggers, got %d", len(triggers))
	}
}

func TestDeleteTriggerDisables(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tests.CheckDebugLogs(t)

	db := tests.DBClient(t)
	defer dbTriggerDestroyRepo(db, t)
	dbTriggerInitRepo(db, t)

	trigger.ReplaceGlobals(trigger.NewPostgresRepository(db))

	id, err := trigger.R().Create(trigger.Trigger{Name: "donation.received", Category: "donation", Enabled: true})
	if err != nil {
		t.Fatal(err)
	}

	rr := tests.BuildTestHandler(t, "DELETE", "/triggers/1", "", "/triggers/{id}", DeleteTrigger)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	disabled, found, err := trigger.R().Get(id)
	if err != nil || !found {
		t.Fatalf("trigger not found after disable (err: %v)", err)
	}
	if disabled.Enabled {
		t.Errorf("expected the trigger to be disabled")
	}
}

func TestValidateTrigger(t *testing.T) {
	body := `{"name": "donation.received", "category": "donation", "priority": 5, "condition": "amount >= 1000"}`
	rr := tests.BuildTestHandler(t, "POST", "/triggers/validate", body, "/triggers/validate", ValidateTrigger)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
}
