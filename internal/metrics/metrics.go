package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests and upstream fetches.
// In-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)
	fetchesTotal   = make(map[fetchKey]int64)

	cleanupFilesRemoved int64
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

type fetchKey struct {
	Platform string
	Strategy string
	Outcome  string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordFetch counts one upstream fetch. outcome is a short tag such as
// "success", "not_found" or "error".
func RecordFetch(platform, strategy, outcome string) {
	mu.Lock()
	defer mu.Unlock()
	fetchesTotal[fetchKey{Platform: platform, Strategy: strategy, Outcome: outcome}]++
}

// RecordCleanup adds to the number of debug artifacts deleted.
func RecordCleanup(removed int) {
	if removed <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	cleanupFilesRemoved += int64(removed)
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP metagrab_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE metagrab_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		fmt.Fprintf(&b, "metagrab_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP metagrab_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE metagrab_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP metagrab_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE metagrab_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		fmt.Fprintf(&b, "metagrab_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "metagrab_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	b.WriteString("# HELP metagrab_fetch_total Upstream metadata fetches by platform, strategy and outcome\n")
	b.WriteString("# TYPE metagrab_fetch_total counter\n")

	var fetchKeys []fetchKey
	for k := range fetchesTotal {
		fetchKeys = append(fetchKeys, k)
	}
	sort.Slice(fetchKeys, func(i, j int) bool {
		if fetchKeys[i].Platform != fetchKeys[j].Platform {
			return fetchKeys[i].Platform < fetchKeys[j].Platform
		}
		if fetchKeys[i].Strategy != fetchKeys[j].Strategy {
			return fetchKeys[i].Strategy < fetchKeys[j].Strategy
		}
		return fetchKeys[i].Outcome < fetchKeys[j].Outcome
	})

	for _, k := range fetchKeys {
		fmt.Fprintf(&b, "metagrab_fetch_total{platform=\"%s\",strategy=\"%s\",outcome=\"%s\"} %d\n",
			k.Platform, k.Strategy, k.Outcome, fetchesTotal[k])
	}

	b.WriteString("# HELP metagrab_cleanup_files_removed_total Debug artifacts deleted by housekeeping\n")
	b.WriteString("# TYPE metagrab_cleanup_files_removed_total counter\n")
	fmt.Fprintf(&b, "metagrab_cleanup_files_removed_total %d\n", cleanupFilesRemoved)

	return b.String()
}
