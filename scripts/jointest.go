// Jointest is a concurrent HTTP testing tool for the join gateway. It fires
// randomly generated share codes at a running gateway and verifies the
// response: a 302 with the matching Location header in redirect mode, a 200
// HTML body in serve mode.
//
// Usage:
//
//	go run jointest.go -url http://localhost:3000 -concurrency 10 -requests 1000
//	go run jointest.go -url http://localhost:3000 -mode serve -requests 500 -out summary.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type summary struct {
	Requests   int64         `json:"requests"`
	Passed     int64         `json:"passed"`
	Failed     int64         `json:"failed"`
	Duration   time.Duration `json:"duration"`
	ReqPerSec  float64       `json:"req_per_sec"`
	P50Latency time.Duration `json:"p50_latency"`
	P90Latency time.Duration `json:"p90_latency"`
	P99Latency time.Duration `json:"p99_latency"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "gateway base URL")
	mode := flag.String("mode", "redirect", "expected gateway mode: redirect or serve")
	requests := flag.Int("requests", 1000, "total number of requests")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	out := flag.String("out", "", "write JSON summary to this file")
	flag.Parse()

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	var (
		passed    int64
		failed    int64
		mutex     sync.Mutex
		latencies []time.Duration
	)

	jobs := make(chan string, *requests)
	for i := 0; i < *requests; i++ {
		jobs <- randomCode()
	}
	close(jobs)

	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for code := range jobs {
				reqStart := time.Now()
				ok := verify(client, *baseURL, *mode, code)
				elapsed := time.Since(reqStart)

				if ok {
					atomic.AddInt64(&passed, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}

				mutex.Lock()
				latencies = append(latencies, elapsed)
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	result := summary{
		Requests:   passed + failed,
		Passed:     passed,
		Failed:     failed,
		Duration:   elapsed,
		ReqPerSec:  float64(passed+failed) / elapsed.Seconds(),
		P50Latency: latencyPercentile(latencies, 0.50),
		P90Latency: latencyPercentile(latencies, 0.90),
		P99Latency: latencyPercentile(latencies, 0.99),
	}

	fmt.Printf("requests: %d  passed: %d  failed: %d\n", result.Requests, result.Passed, result.Failed)
	fmt.Printf("duration: %v  rate: %.1f req/s\n", result.Duration, result.ReqPerSec)
	fmt.Printf("latency p50: %v  p90: %v  p99: %v\n", result.P50Latency, result.P90Latency, result.P99Latency)

	if *out != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			err = os.WriteFile(*out, data, 0644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to write summary: %v\n", err)
			os.Exit(1)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func verify(client *http.Client, baseURL, mode, code string) bool {
	resp, err := client.Get(baseURL + "/join/" + code)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	switch mode {
	case "serve":
		return resp.StatusCode == http.StatusOK
	default:
		return resp.StatusCode == http.StatusFound &&
			resp.Header.Get("Location") == "/join.html?code="+code
	}
}

func randomCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}

	return string(code)
}

func latencyPercentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
