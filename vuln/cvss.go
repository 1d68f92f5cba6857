package vuln

import (
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// baseScoreFromVector parses a CVSS vector string (e.g.
// "CVSS:3.1/AV:N/AC:L/...") and returns its base score. It tries the v3.1,
// v3.0 and v4.0 parsers in turn since the vuln database doesn't tag which
// CVSS version a given vector string uses; an unparseable vector returns
// (0, false) rather than an error, since a single malformed score shouldn't
// abort a whole batch.
func baseScoreFromVector(vector string) (float64, bool) {
	if v, err := gocvss31.ParseVector(vector); err == nil {
		return v.BaseScore(), true
	}
	if v, err := gocvss30.ParseVector(vector); err == nil {
		return v.BaseScore(), true
	}
	if v, err := gocvss40.ParseVector(vector); err == nil {
		return v.Score(), true
	}
	return 0, false
}
