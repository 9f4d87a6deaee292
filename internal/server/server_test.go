package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gedtree/gedtree/pkg/store"
)

const testDocument = `0 HEAD
0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
1 FAMS @F1@
0 @I2@ INDI
1 NAME Jane /Miller/
1 SEX F
1 FAMS @F1@
0 @I3@ INDI
1 NAME Tom /Smith/
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
0 TRLR
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Config{Store: store.NewMemoryStore()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func upload(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/datasets?name=family.ged", "text/plain", strings.NewReader(testDocument))
	if err != nil {
		t.Fatalf("POST /datasets error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /datasets status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var ds store.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}
	if ds.ID == "" {
		t.Fatal("upload response missing dataset id")
	}
	return ds.ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-Id"); got == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestUploadAndGet(t *testing.T) {
	ts := newTestServer(t)
	id := upload(t, ts)

	resp, err := http.Get(ts.URL + "/datasets/" + id)
	if err != nil {
		t.Fatalf("GET /datasets/{id} error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /datasets/{id} status = %d, want 200", resp.StatusCode)
	}

	var ds store.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if ds.Name != "family.ged" || ds.Persons != 3 || ds.Families != 1 {
		t.Errorf("dataset = %+v, want name=family.ged persons=3 families=1", ds)
	}
}

func TestUploadRejectsBrokenDocument(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/datasets", "text/plain", strings.NewReader("0 HEAD\nnot a gedcom line\n"))
	if err != nil {
		t.Fatalf("POST /datasets error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /datasets status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if body.Error.Code != "PARSE_ERROR" {
		t.Errorf("error code = %q, want PARSE_ERROR", body.Error.Code)
	}
}

func TestPersons(t *testing.T) {
	ts := newTestServer(t)
	id := upload(t, ts)

	resp, err := http.Get(ts.URL + "/datasets/" + id + "/persons")
	if err != nil {
		t.Fatalf("GET persons error = %v", err)
	}
	defer resp.Body.Close()

	var persons []personInfo
	if err := json.NewDecoder(resp.Body).Decode(&persons); err != nil {
		t.Fatalf("decoding persons: %v", err)
	}
	if len(persons) != 3 {
		t.Fatalf("persons len = %d, want 3", len(persons))
	}
	if persons[0].ID != "I1" || persons[0].Name != "John Smith" {
		t.Errorf("persons[0] = %+v, want I1 John Smith", persons[0])
	}
}

func TestTreeOutput(t *testing.T) {
	ts := newTestServer(t)
	id := upload(t, ts)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPart   string
	}{
		{
			name:       "gtr default",
			query:      "?person=I3",
			wantStatus: http.StatusOK,
			wantPart:   "sandclock[id=F1]{c[id=I3]",
		},
		{
			name:       "delimited person id",
			query:      "?person=@I3@",
			wantStatus: http.StatusOK,
			wantPart:   "sandclock[id=F1]{c[id=I3]",
		},
		{
			name:       "dot format",
			query:      "?person=I3&format=dot",
			wantStatus: http.StatusOK,
			wantPart:   "digraph gedtree",
		},
		{
			name:       "unknown person",
			query:      "?person=I99",
			wantStatus: http.StatusNotFound,
			wantPart:   "PERSON_NOT_FOUND",
		},
		{
			name:       "missing person",
			query:      "",
			wantStatus: http.StatusBadRequest,
			wantPart:   "INVALID_XREF",
		},
		{
			name:       "bad format",
			query:      "?person=I3&format=pdf",
			wantStatus: http.StatusBadRequest,
			wantPart:   "INVALID_FORMAT",
		},
		{
			name:       "bad limit",
			query:      "?person=I3&max_ancestor_generations=-2",
			wantStatus: http.StatusBadRequest,
			wantPart:   "INVALID_LIMIT",
		},
		{
			name:       "limited ancestors",
			query:      "?person=I3&max_ancestor_generations=0",
			wantStatus: http.StatusOK,
			wantPart:   "sandclock[id=F1]{c[id=I3]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/datasets/" + id + "/tree" + tt.query)
			if err != nil {
				t.Fatalf("GET tree error = %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("reading body: %v", err)
			}
			if !strings.Contains(string(body), tt.wantPart) {
				t.Errorf("body = %q, want to contain %q", body, tt.wantPart)
			}
		})
	}
}

func TestRenderOneShot(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/render?person=I3", "text/plain", strings.NewReader(testDocument))
	if err != nil {
		t.Fatalf("POST /render error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /render status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.HasPrefix(string(body), "sandclock[id=F1]{c[id=I3]") {
		t.Errorf("body = %q, want sandclock prefix", body)
	}

	// Nothing is stored for one-shot renders.
	listResp, err := http.Get(ts.URL + "/datasets")
	if err != nil {
		t.Fatalf("GET /datasets error = %v", err)
	}
	defer listResp.Body.Close()
	var list []store.Dataset
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("datasets after one-shot render = %d, want 0", len(list))
	}
}

func TestRenderOneShotEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/render?person=I3", "text/plain", strings.NewReader(""))
	if err != nil {
		t.Fatalf("POST /render error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /render status = %d, want 400", resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t)
	id := upload(t, ts)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/datasets/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}

	// Second delete is a 404
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("repeat DELETE status = %d, want 404", resp.StatusCode)
	}
}
