package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Test configuration
type LoadTestConfig struct {
	BaseURL           string
	RequestsPerSecond int
	DurationSeconds   int
	ConcurrentWorkers int
}

// Stats tracking
type Stats struct {
	successCount  atomic.Int64
	errorCount    atomic.Int64
	responseTimes []float64
	mu            sync.Mutex
}

func (s *Stats) addResponseTime(duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responseTimes = append(s.responseTimes, duration)
}

func (s *Stats) getResponseTimes() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := make([]float64, len(s.responseTimes))
	copy(times, s.responseTimes)
	return times
}

// targets spreads the load over the dashboard reads for every month.
func targets(base string) []string {
	base = strings.TrimRight(base, "/")
	var out []string
	for m := 1; m <= 12; m++ {
		out = append(out,
			fmt.Sprintf("%s/api/transactions?month=%d&page=1&perPage=10", base, m),
			fmt.Sprintf("%s/api/transactions/stats?month=%d", base, m),
			fmt.Sprintf("%s/api/transactions/bar-chart?month=%d", base, m),
			fmt.Sprintf("%s/api/transactions/pie-chart?month=%d", base, m),
			fmt.Sprintf("%s/api/transactions/combined-data?month=%d", base, m),
		)
	}
	return out
}

func sendRequest(client *http.Client, url string, stats *Stats) {
	start := time.Now()

	resp, err := client.Get(url)
	if err != nil {
		stats.errorCount.Add(1)
		stats.addResponseTime(time.Since(start).Seconds())
		return
	}
	defer resp.Body.Close()

	// Read and discard body
	io.Copy(io.Discard, resp.Body)

	duration := time.Since(start).Seconds()
	stats.addResponseTime(duration)

	// 404 is a valid answer for a month without data
	if resp.StatusCode == 200 || resp.StatusCode == 404 {
		stats.successCount.Add(1)
	} else {
		stats.errorCount.Add(1)
	}
}

func worker(client *http.Client, stats *Stats, jobs <-chan string, wg *sync.WaitGroup) {
	defer wg.Done()

	for url := range jobs {
		sendRequest(client, url, stats)
	}
}

func calculatePercentile(sorted []float64, percentile float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * percentile)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func main() {
	config := LoadTestConfig{
		BaseURL:           getEnvOrDefault("TARGET_URL", "http://localhost:5000"),
		RequestsPerSecond: getEnvIntOrDefault("REQUESTS_PER_SECOND", 500),
		DurationSeconds:   getEnvIntOrDefault("DURATION_SECONDS", 30),
		ConcurrentWorkers: getEnvIntOrDefault("CONCURRENT_WORKERS", 100),
	}
	urls := targets(config.BaseURL)

	fmt.Println("Starting load test...")
	fmt.Printf("Target: %s\n", config.BaseURL)
	fmt.Printf("Endpoints: %d\n", len(urls))
	fmt.Printf("Total requests: %d\n", config.RequestsPerSecond*config.DurationSeconds)
	fmt.Printf("Target RPS: %d\n", config.RequestsPerSecond)
	fmt.Printf("Concurrent workers: %d\n", config.ConcurrentWorkers)
	fmt.Printf("Duration: %d seconds\n", config.DurationSeconds)
	fmt.Println(strings.Repeat("-", 50))

	stats := &Stats{}

	// Create HTTP client with connection pooling
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        config.ConcurrentWorkers,
			MaxIdleConnsPerHost: config.ConcurrentWorkers,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 60 * time.Second,
	}

	jobs := make(chan string, config.RequestsPerSecond)

	var wg sync.WaitGroup
	for i := 0; i < config.ConcurrentWorkers; i++ {
		wg.Add(1)
		go worker(client, stats, jobs, &wg)
	}

	startTime := time.Now()
	totalRequests := config.RequestsPerSecond * config.DurationSeconds
	requestsSent := 0

	for i := 0; i < config.DurationSeconds && requestsSent < totalRequests; i++ {
		batchStart := time.Now()

		for j := 0; j < config.RequestsPerSecond && requestsSent < totalRequests; j++ {
			jobs <- urls[requestsSent%len(urls)]
			requestsSent++
		}

		success := stats.successCount.Load()
		errors := stats.errorCount.Load()
		fmt.Printf("[%ds] Completed: %d | Success: %d | Errors: %d\n",
			i+1, success+errors, success, errors)

		// Wait for next second
		elapsed := time.Since(batchStart)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	duration := time.Since(startTime).Seconds()

	success := stats.successCount.Load()
	errors := stats.errorCount.Load()
	total := success + errors
	actualRPS := float64(total) / duration

	times := stats.getResponseTimes()
	sort.Float64s(times)
	var avgResponseTime, minTime, maxTime float64
	if len(times) > 0 {
		sum := 0.0
		for _, t := range times {
			sum += t
		}
		avgResponseTime = sum / float64(len(times))
		minTime = times[0]
		maxTime = times[len(times)-1]
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("LOAD TEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Duration: %.2f seconds\n", duration)
	fmt.Printf("Total requests: %d\n", total)
	fmt.Printf("Successful: %d\n", success)
	fmt.Printf("Failed: %d\n", errors)
	if total > 0 {
		fmt.Printf("Success rate: %.2f%%\n", float64(success)/float64(total)*100)
	}
	fmt.Printf("\nActual RPS: %.2f\n", actualRPS)
	fmt.Printf("\nResponse times:\n")
	fmt.Printf("  Average: %.2f ms\n", avgResponseTime*1000)
	fmt.Printf("  P50: %.2f ms\n", calculatePercentile(times, 0.50)*1000)
	fmt.Printf("  P95: %.2f ms\n", calculatePercentile(times, 0.95)*1000)
	fmt.Printf("  P99: %.2f ms\n", calculatePercentile(times, 0.99)*1000)
	fmt.Printf("  Min: %.2f ms\n", minTime*1000)
	fmt.Printf("  Max: %.2f ms\n", maxTime*1000)
}
