package vuln

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentCacheReads bounds the goroutine fan-out for the cache-read
// pass below; it's disk I/O, not network, so a generous bound is fine.
const maxConcurrentCacheReads = 16

// ScanPurls resolves vulnerabilities for each purl. The cache-read pass runs
// with bounded concurrency since each purl's cache file is an independent
// disk read; the resulting cache misses are then folded into a single
// batch request against the vulnerability database.
//
// purls may contain empty strings for path dependencies; they're skipped
// and their result is always nil.
func (c *Client) ScanPurls(ctx context.Context, projectRoot string, purls []string, now time.Time) ([][]Vulnerability, error) {
	out := make([][]Vulnerability, len(purls))
	hit := make([]bool, len(purls))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentCacheReads)
	for i, p := range purls {
		if p == "" {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			if vulns, ok := readCache(projectRoot, p, now); ok {
				mu.Lock()
				out[i], hit[i] = vulns, true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // readCache never returns an error; this can't fail.

	var missPurls []string
	var missIdx []int
	for i, p := range purls {
		if p == "" || hit[i] {
			continue
		}
		missPurls = append(missPurls, p)
		missIdx = append(missIdx, i)
	}

	if len(missPurls) == 0 {
		return out, nil
	}

	fetched, err := c.BatchQuery(ctx, missPurls)
	if err != nil {
		return out, err
	}

	for j, idx := range missIdx {
		var vulns []Vulnerability
		if j < len(fetched) {
			vulns = fetched[j]
		}
		out[idx] = vulns
		_ = writeCache(projectRoot, purls[idx], vulns)
	}

	return out, nil
}
