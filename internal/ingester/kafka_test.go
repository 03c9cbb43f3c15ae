package ingester

import (
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	raw := []byte(`{"type": "donation.received", "urgency": 8, "candidateId": "cand-1", "payload": {"amount": 5200}}`)

	event, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if event.Type != "donation.received" {
		t.Errorf("expected type donation.received, got %s", event.Type)
	}
	if event.Urgency == nil || *event.Urgency != 8 {
		t.Errorf("expected urgency 8, got %v", event.Urgency)
	}
	if event.CandidateID != "cand-1" {
		t.Errorf("expected candidate cand-1, got %s", event.CandidateID)
	}
	if event.Payload["amount"] != float64(5200) {
		t.Errorf("expected amount 5200, got %v", event.Payload["amount"])
	}
}

func TestDecodeEventMissingType(t *testing.T) {
	if _, err := decodeEvent([]byte(`{"urgency": 8}`)); err == nil {
		t.Errorf("expected an error on missing event type")
	}
}

func TestDecodeEventMalformed(t *testing.T) {
	if _, err := decodeEvent([]byte(`not json`)); err == nil {
		t.Errorf("expected an error on malformed payload")
	}
}
