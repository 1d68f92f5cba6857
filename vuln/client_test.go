package vuln

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBatchQueryRequestShape(t *testing.T) {
	var gotBody batchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"vulns":[]},{"vulns":[]}]}`))
	}))
	defer srv.Close()

	prev := Endpoint
	Endpoint = srv.URL
	defer func() { Endpoint = prev }()

	c := NewClient()
	got, err := c.BatchQuery(context.Background(), []string{"pkg:npm/left-pad@1.0.0", "pkg:pypi/requests@2.0.0"})
	if err != nil {
		t.Fatalf("BatchQuery: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if len(gotBody.Queries) != 2 {
		t.Fatalf("len(queries) = %d, want 2", len(gotBody.Queries))
	}
	if gotBody.Queries[0].Package.Purl != "pkg:npm/left-pad@1.0.0" {
		t.Errorf("queries[0].package.purl = %q", gotBody.Queries[0].Package.Purl)
	}
	if gotBody.Queries[1].Package.Purl != "pkg:pypi/requests@2.0.0" {
		t.Errorf("queries[1].package.purl = %q", gotBody.Queries[1].Package.Purl)
	}
}

func TestBatchQueryNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	prev := Endpoint
	Endpoint = srv.URL
	defer func() { Endpoint = prev }()

	c := NewClient()
	_, err := c.BatchQuery(context.Background(), []string{"pkg:npm/left-pad@1.0.0"})
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
	dbErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if dbErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", dbErr.Status, http.StatusTooManyRequests)
	}
}

func TestParseBatchResponseSeverity(t *testing.T) {
	body := []byte(`{
		"results": [
			{"vulns": [
				{"id": "GHSA-1", "database_specific": {"severity": "MODERATE"}},
				{"id": "GHSA-2", "database_specific": {"severity": "high"}},
				{"id": "GHSA-3", "database_specific": {"severity": "CRITICAL"}},
				{"id": "GHSA-4", "database_specific": {"severity": "nonsense"}}
			]}
		]
	}`)
	out, err := parseBatchResponse(body, 1)
	if err != nil {
		t.Fatalf("parseBatchResponse: %v", err)
	}
	if len(out) != 1 || len(out[0]) != 4 {
		t.Fatalf("unexpected shape: %+v", out)
	}
	want := []Severity{Medium, High, Critical, Unknown}
	for i, v := range out[0] {
		if v.Severity != want[i] {
			t.Errorf("vuln[%d] (%s) severity = %s, want %s", i, v.ID, v.Severity, want[i])
		}
	}
}

func TestParseBatchResponseMissingResultsArray(t *testing.T) {
	if _, err := parseBatchResponse([]byte(`{}`), 1); err == nil {
		t.Fatal("expected error for missing results array")
	}
}

func TestParseVulnerabilityCVSSFallback(t *testing.T) {
	body := []byte(`{
		"results": [
			{"vulns": [
				{"id": "CVE-1", "severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}]}
			]}
		]
	}`)
	out, err := parseBatchResponse(body, 1)
	if err != nil {
		t.Fatalf("parseBatchResponse: %v", err)
	}
	v := out[0][0]
	if v.Severity != Critical {
		t.Errorf("Severity = %s, want Critical", v.Severity)
	}
	if v.CVSSScore == nil {
		t.Fatal("CVSSScore is nil")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"LOW", Low, true},
		{"low", Low, true},
		{"MODERATE", Medium, true},
		{"Medium", Medium, true},
		{"HIGH", High, true},
		{"high", High, true},
		{"CRITICAL", Critical, true},
		{"  critical  ", Critical, true},
		{"", Unknown, false},
		{"severe", Unknown, false},
	}
	for _, c := range cases {
		got, ok := ParseSeverity(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseSeverity(%q) = (%s, %v), want (%s, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
