package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.AirtableSettings{
		BaseURL: server.URL,
		BaseID:  "appTEST",
		Token:   "key-test",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.AirtableSettings{Token: "key"}, nil); err == nil {
		t.Error("missing base id must be rejected")
	}
	if _, err := NewClient(config.AirtableSettings{BaseID: "app"}, nil); err == nil {
		t.Error("missing token must be rejected")
	}
}

func TestClientUpsert(t *testing.T) {
	var captured upsertRequest
	var gotAuth string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/appTEST/Events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(upsertResponse{
			Records:        []struct{ ID string `json:"id"` }{{ID: "rec42"}},
			CreatedRecords: []string{"rec42"},
		})
	}))

	result, err := client.Upsert(context.Background(), "Events", "Event ID", map[string]any{"Event ID": "EVT-AAAA1111"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if result.ExternalID != "rec42" || !result.Created {
		t.Errorf("result = %+v", result)
	}
	if gotAuth != "Bearer key-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if len(captured.PerformUpsert.FieldsToMergeOn) != 1 || captured.PerformUpsert.FieldsToMergeOn[0] != "Event ID" {
		t.Errorf("merge fields = %v", captured.PerformUpsert.FieldsToMergeOn)
	}
	if len(captured.Records) != 1 || captured.Records[0].Fields["Event ID"] != "EVT-AAAA1111" {
		t.Errorf("records = %+v", captured.Records)
	}
}

func TestClientUpsertSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"INVALID_REQUEST"}`, http.StatusUnprocessableEntity)
	}))

	if _, err := client.Upsert(context.Background(), "Events", "Event ID", map[string]any{}); err == nil {
		t.Fatal("non-2xx status must be an error")
	}
}

func TestClientDeleteByKey(t *testing.T) {
	var deletedPath string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			formula := r.URL.Query().Get("filterByFormula")
			if formula != "{Report ID}='RPT-CCCC3333'" {
				t.Errorf("formula = %q", formula)
			}
			json.NewEncoder(w).Encode(listResponse{
				Records: []struct{ ID string `json:"id"` }{{ID: "rec99"}},
			})
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	if err := client.DeleteByKey(context.Background(), "Event Reports", "Report ID", "RPT-CCCC3333"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deletedPath != "/appTEST/Event Reports/rec99" {
		t.Errorf("delete path = %q", deletedPath)
	}
}

func TestClientDeleteByKeyMissingRecord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			t.Error("no delete expected when the record is absent")
		}
		json.NewEncoder(w).Encode(listResponse{})
	}))

	if err := client.DeleteByKey(context.Background(), "Events", "Event ID", "EVT-GONE"); err != nil {
		t.Fatalf("absent record must not be an error, got %v", err)
	}
}

func TestClientPing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("maxRecords") != "1" {
			t.Errorf("ping must request a single record, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(listResponse{})
	}))

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClientPingBadCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"AUTHENTICATION_REQUIRED"}`, http.StatusUnauthorized)
	}))

	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("401 must surface as an error")
	}
}
