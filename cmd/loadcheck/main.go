// Command loadcheck hammers a running gateway with concurrent requests from a single
// signed-in client and reports how the gateway resolved the races: overlapping wallet
// loads should end in 200 or 409, and parallel claims on one purchase should reach
// the API at most once.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ==============================================
// METRICS
// ==============================================

type Metrics struct {
	totalRequests int64
	status200     int64
	status401     int64
	status409     int64
	status422     int64
	status5xx     int64
	other         int64
	totalDuration int64 // in milliseconds
}

func (m *Metrics) track(status int, d time.Duration) {
	atomic.AddInt64(&m.totalRequests, 1)
	atomic.AddInt64(&m.totalDuration, d.Milliseconds())
	switch {
	case status == http.StatusOK:
		atomic.AddInt64(&m.status200, 1)
	case status == http.StatusUnauthorized:
		atomic.AddInt64(&m.status401, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.status409, 1)
	case status == http.StatusUnprocessableEntity:
		atomic.AddInt64(&m.status422, 1)
	case status >= 500:
		atomic.AddInt64(&m.status5xx, 1)
	default:
		atomic.AddInt64(&m.other, 1)
	}
}

func (m *Metrics) print(title string) {
	total := atomic.LoadInt64(&m.totalRequests)
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Requests:     %d\n", total)
	fmt.Printf("200 OK:             %d\n", atomic.LoadInt64(&m.status200))
	fmt.Printf("401 Unauthorized:   %d\n", atomic.LoadInt64(&m.status401))
	fmt.Printf("409 Conflict:       %d\n", atomic.LoadInt64(&m.status409))
	fmt.Printf("422 Unprocessable:  %d\n", atomic.LoadInt64(&m.status422))
	fmt.Printf("5xx:                %d\n", atomic.LoadInt64(&m.status5xx))
	fmt.Printf("Other:              %d\n", atomic.LoadInt64(&m.other))
	if total > 0 {
		fmt.Printf("Avg Response Time:  %dms\n", atomic.LoadInt64(&m.totalDuration)/total)
	}
	fmt.Println(strings.Repeat("=", 60))
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

type runner struct {
	baseURL string
	client  *http.Client
}

func (r *runner) send(method, path string, body any) (int, []byte, time.Duration, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, 0, err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, r.baseURL+path, rd)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	d := time.Since(start)
	if err != nil {
		return 0, nil, d, err
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, d, nil
}

// walletStorm fires overlapping wallet loads for the same client.
func (r *runner) walletStorm(concurrency, iterations int) *Metrics {
	m := &Metrics{}
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				tab := []string{"account", "deposit", "withdrawal"}[(worker+j)%3]
				status, _, d, err := r.send(http.MethodGet, fmt.Sprintf("/wallet?tab=%s&page=%d", tab, j%3+1), nil)
				if err != nil {
					fmt.Printf("connection error [WALLET worker %d]: %v\n", worker, err)
					continue
				}
				m.track(status, d)
			}
		}(i)
	}
	wg.Wait()
	return m
}

// claimStorm fires simultaneous claims on one purchase.
func (r *runner) claimStorm(purchaseID string, concurrency int) *Metrics {
	m := &Metrics{}
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			<-start
			status, body, d, err := r.send(http.MethodPost, "/orders/"+url.PathEscape(purchaseID)+"/claim", nil)
			if err != nil {
				fmt.Printf("connection error [CLAIM worker %d]: %v\n", worker, err)
				return
			}
			m.track(status, d)
			if status != http.StatusOK && status != http.StatusConflict {
				fmt.Printf("CLAIM[worker %d] -> %d: %s\n", worker, status, body)
			}
		}(i)
	}
	close(start)
	wg.Wait()
	return m
}

// ==============================================
// MAIN
// ==============================================

func main() {
	v := viper.New()
	v.SetEnvPrefix("LOADCHECK")
	v.AutomaticEnv()
	v.SetDefault("BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("CONCURRENCY", 10)
	v.SetDefault("ITERATIONS", 20)

	baseURL := strings.TrimRight(v.GetString("BASE_URL"), "/")
	email, password := v.GetString("EMAIL"), v.GetString("PASSWORD")
	if email == "" || password == "" {
		fmt.Println("LOADCHECK_EMAIL and LOADCHECK_PASSWORD are required")
		os.Exit(2)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		fmt.Println("invalid LOADCHECK_BASE_URL:", err)
		os.Exit(2)
	}
	jar, _ := cookiejar.New(nil)
	// Every worker shares one client id so their requests race on the same state.
	jar.SetCookies(u, []*http.Cookie{{Name: "sh_client", Value: uuid.NewString(), Path: "/"}})

	r := &runner{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	status, body, _, err := r.send(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil || status != http.StatusOK {
		fmt.Printf("login failed: status=%d err=%v body=%s\n", status, err, body)
		os.Exit(1)
	}
	fmt.Println("Signed in")

	concurrency, iterations := v.GetInt("CONCURRENCY"), v.GetInt("ITERATIONS")
	fmt.Printf("Wallet storm: %d goroutines x %d iterations\n", concurrency, iterations)
	startTime := time.Now()
	wallet := r.walletStorm(concurrency, iterations)
	wallet.print(fmt.Sprintf("WALLET LOADS (%v)", time.Since(startTime).Round(time.Millisecond)))

	if id := v.GetString("PURCHASE_ID"); id != "" {
		claims := r.claimStorm(id, concurrency)
		claims.print("CLAIMS ON " + id)
		if passed := concurrency - int(atomic.LoadInt64(&claims.status409)); passed > 1 {
			fmt.Printf("%d claims got past the in-flight guard\n", passed)
		}
	}
}
