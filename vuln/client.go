package vuln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Endpoint is the vulnerability database's batch query endpoint. It's a
// build-time constant; point it at a mirror or mock with an override for
// testing.
var Endpoint = "https://api.osv.dev/v1/querybatch"

const (
	connectTimeout = 10 * time.Second
	readTimeout    = 30 * time.Second
	userAgent      = "shards-compliance/1"
)

// Error is returned for a non-2xx response from the database.
type Error struct {
	Status int
	Body   string // truncated
}

func (e *Error) Error() string {
	return fmt.Sprintf("vulnerability database returned %d: %s", e.Status, e.Body)
}

// Client queries the vulnerability database over HTTP.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a Client with fixed connect/read timeouts and no retry.
func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				ResponseHeaderTimeout: readTimeout,
			},
			Timeout: connectTimeout + readTimeout,
		},
	}
}

type batchQuery struct {
	Package struct {
		Purl string `json:"purl"`
	} `json:"package"`
}

type batchRequest struct {
	Queries []batchQuery `json:"queries"`
}

// BatchQuery issues a single POST containing one query per purl, in order,
// and returns the parsed vulnerabilities for each, in the same order.
func (c *Client) BatchQuery(ctx context.Context, purls []string) ([][]Vulnerability, error) {
	req := batchRequest{Queries: make([]batchQuery, len(purls))}
	for i, p := range purls {
		req.Queries[i].Package.Purl = p
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("vuln: encode batch request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("vuln: batch request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vuln: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		truncated := respBody
		if len(truncated) > 512 {
			truncated = truncated[:512]
		}
		return nil, &Error{Status: resp.StatusCode, Body: string(truncated)}
	}

	return parseBatchResponse(respBody, len(purls))
}

// parseBatchResponse uses gjson for lenient traversal since the database's
// vulnerability objects carry many optional/nested fields we only need a
// handful of.
func parseBatchResponse(body []byte, expected int) ([][]Vulnerability, error) {
	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("vuln: response missing results array")
	}

	out := make([][]Vulnerability, 0, expected)
	results.ForEach(func(_, result gjson.Result) bool {
		var vulns []Vulnerability
		result.Get("vulns").ForEach(func(_, v gjson.Result) bool {
			vulns = append(vulns, parseVulnerability(v))
			return true
		})
		out = append(out, vulns)
		return true
	})
	return out, nil
}

func parseVulnerability(v gjson.Result) Vulnerability {
	vuln := Vulnerability{
		ID:      v.Get("id").String(),
		Summary: v.Get("summary").String(),
		Details: v.Get("details").String(),
	}

	if dbSev := v.Get("database_specific.severity"); dbSev.Exists() {
		// Unrecognized spellings fall back to Unknown rather than being
		// stored verbatim, so they can't slip past severityRank uncounted.
		vuln.Severity, _ = ParseSeverity(dbSev.String())
	} else if sev, score, ok := severityFromArray(v.Get("severity")); ok {
		vuln.Severity = sev
		vuln.CVSSScore = score
	} else {
		vuln.Severity = Unknown
	}

	v.Get("aliases").ForEach(func(_, a gjson.Result) bool {
		vuln.Aliases = append(vuln.Aliases, a.String())
		return true
	})
	v.Get("references").ForEach(func(_, r gjson.Result) bool {
		if u := r.Get("url"); u.Exists() {
			vuln.References = append(vuln.References, u.String())
		}
		return true
	})
	vuln.AffectedVersions = flattenAffectedVersions(v.Get("affected"))

	if p := v.Get("published"); p.Exists() {
		if t, err := time.Parse(time.RFC3339, p.String()); err == nil {
			vuln.Published = &t
		}
	}
	if m := v.Get("modified"); m.Exists() {
		if t, err := time.Parse(time.RFC3339, m.String()); err == nil {
			vuln.Modified = &t
		}
	}

	return vuln
}

// severityFromArray derives a severity from the first CVSS-like entry in a
// `severity[]` array.
func severityFromArray(arr gjson.Result) (Severity, *float64, bool) {
	var sev Severity
	var score *float64
	var ok bool
	arr.ForEach(func(_, entry gjson.Result) bool {
		vector := entry.Get("score").String()
		if s, parsed := baseScoreFromVector(vector); parsed {
			sev = SeverityFromCVSS(s)
			score = &s
			ok = true
			return false
		}
		return true
	})
	return sev, score, ok
}

// flattenAffectedVersions flattens affected[].ranges[].events[] into
// "introduced: X" / "fixed: Y" strings, preserved verbatim for display.
func flattenAffectedVersions(affected gjson.Result) []string {
	var out []string
	affected.ForEach(func(_, a gjson.Result) bool {
		a.Get("ranges").ForEach(func(_, r gjson.Result) bool {
			r.Get("events").ForEach(func(_, ev gjson.Result) bool {
				if in := ev.Get("introduced"); in.Exists() {
					out = append(out, "introduced: "+in.String())
				}
				if fx := ev.Get("fixed"); fx.Exists() {
					out = append(out, "fixed: "+fx.String())
				}
				return true
			})
			return true
		})
		return true
	})
	return out
}
