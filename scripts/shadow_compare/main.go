// Command shadow_compare replays read endpoints against both this API and the
// legacy punctuality backend and reports divergences. Run it with both stacks
// up before routing traffic away from the legacy service.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type endpoint struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

// defaultEndpoints covers the read surface. Mutating endpoints are excluded:
// replaying them would double-write attendance.
var defaultEndpoints = []endpoint{
	{Method: http.MethodGet, Path: "/api/v1/punctuality/summary", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/punctuality/alerts", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/justifications", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/attendance/board", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/recoveries", Critical: false},
	{Method: http.MethodGet, Path: "/api/v1/interns/active", Critical: false},
	{Method: http.MethodGet, Path: "/api/v1/schedules", Critical: false},
}

type result struct {
	Endpoint      endpoint
	NewStatus     int
	LegacyStatus  int
	StatusMatch   bool
	BodyMatch     bool
	NewLatency    time.Duration
	LegacyLatency time.Duration
	Err           error
}

func main() {
	var (
		newBase       string
		legacyBase    string
		endpointsPath string
		timeout       time.Duration
	)
	flag.StringVar(&newBase, "new-base", "http://localhost:8080", "new API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "legacy API base URL")
	flag.StringVar(&endpointsPath, "endpoints", "", "optional JSON file overriding the endpoint list")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	endpoints := defaultEndpoints
	if endpointsPath != "" {
		loaded, err := loadEndpoints(endpointsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load endpoints: %v\n", err)
			os.Exit(2)
		}
		endpoints = loaded
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	fmt.Println("Punctuality shadow comparison")
	fmt.Println("-----------------------------")
	for _, ep := range endpoints {
		res := compare(client, newBase, legacyBase, ep)
		report(res)
		if ep.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
	}
	if breaking > 0 {
		fmt.Printf("%d critical endpoint(s) diverge\n", breaking)
		os.Exit(1)
	}
	fmt.Println("all critical endpoints match")
}

func loadEndpoints(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var endpoints []endpoint
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints in %s", path)
	}
	return endpoints, nil
}

func compare(client *http.Client, newBase, legacyBase string, ep endpoint) result {
	res := result{Endpoint: ep}

	newStatus, newBody, newLatency, err := fetch(client, newBase, ep)
	if err != nil {
		res.Err = fmt.Errorf("new api: %w", err)
		return res
	}
	legacyStatus, legacyBody, legacyLatency, err := fetch(client, legacyBase, ep)
	if err != nil {
		res.Err = fmt.Errorf("legacy api: %w", err)
		return res
	}

	res.NewStatus = newStatus
	res.LegacyStatus = legacyStatus
	res.NewLatency = newLatency
	res.LegacyLatency = legacyLatency
	res.StatusMatch = newStatus == legacyStatus
	res.BodyMatch = payloadsEqual(newBody, legacyBody)
	return res
}

func fetch(client *http.Client, base string, ep endpoint) (int, []byte, time.Duration, error) {
	url := strings.TrimRight(base, "/") + ep.Path
	req, err := http.NewRequest(ep.Method, url, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// payloadsEqual compares bodies as JSON so formatting and number
// representation differences between the two stacks do not count as diffs.
func payloadsEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	canonicalize(&aj)
	canonicalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func canonicalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, inner := range val {
			canonicalize(&inner)
			val[k] = inner
		}
	case []interface{}:
		for i, inner := range val {
			canonicalize(&inner)
			val[i] = inner
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(res result) {
	verdict := "OK"
	if res.Err != nil {
		verdict = "ERROR"
	} else if !res.StatusMatch || !res.BodyMatch {
		verdict = "DIFF"
	}
	fmt.Printf("[%s] %s %s\n", verdict, res.Endpoint.Method, res.Endpoint.Path)
	if res.Err != nil {
		fmt.Printf("  %v\n", res.Err)
		return
	}
	fmt.Printf("  new %d (%s) | legacy %d (%s) | status match %t | body match %t\n",
		res.NewStatus, res.NewLatency, res.LegacyStatus, res.LegacyLatency, res.StatusMatch, res.BodyMatch)
}
