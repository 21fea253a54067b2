// Command apitest smoke-tests a running almanac API server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/almanac-api/internal/almanac"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status    string `json:"status"`
	Ephemeris string `json:"ephemeris"`
	Locale    string `json:"locale"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Almanac API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testDayReports()
	tr.testFlyingStars()
	tr.testOfficerRange()
	tr.testZiWei()
	tr.testEdgeCases()
	tr.testSolarTerms()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (ephemeris=%s, locale=%s)", health.Ephemeris, health.Locale))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testDayReports() {
	tr.printSection("Day Reports")

	testCases := []struct {
		date        string
		lunar       string
		dayPillar   string
		description string
	}{
		{"2025-01-29", "2025-1-1", "戊戌", "Lunar New Year 2025"},
		{"2024-02-10", "2024-1-1", "甲辰", "Lunar New Year 2024"},
		{"2023-03-22", "2023-2-1", "己卯", "First day of a leap month"},
		{"2000-01-01", "1999-11-25", "戊午", "Millennium"},
		{"1984-02-02", "1984-1-1", "丙寅", "Lunar New Year 1984"},
	}

	for _, tc := range testCases {
		var r almanac.DayReport
		if err := tr.getData("/api/v1/day/"+tc.date, &r); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		lunar := fmt.Sprintf("%d-%d-%d", r.Lunar.Year, r.Lunar.Month, r.Lunar.Day)
		if lunar == tc.lunar && r.Pillars.Day.Pillar == tc.dayPillar {
			tr.recordSuccess(fmt.Sprintf("%s: %s %s (%s)", tc.date, r.Lunar.MonthName, r.Pillars.Day.Pillar, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %s %s, got %s %s",
				tc.lunar, tc.dayPillar, lunar, r.Pillars.Day.Pillar))
		}

		if tr.verbose {
			tr.printDayDetail(&r)
		}
	}
}

func (tr *TestRunner) testFlyingStars() {
	tr.printSection("Flying Stars")

	for _, scale := range []string{"year", "month", "day", "hour"} {
		var g almanac.GridView
		if err := tr.getData("/api/v1/flying-stars/"+scale+"/2025-01-29?time=10:00", &g); err != nil {
			tr.recordError(scale, err.Error())
			continue
		}
		if len(g.Palaces) == 9 {
			tr.recordSuccess(fmt.Sprintf("%s grid: center %d, %s", scale, g.Center, g.Direction.Label))
		} else {
			tr.recordError(scale, fmt.Sprintf("Expected 9 palaces, got %d", len(g.Palaces)))
		}
	}
}

func (tr *TestRunner) testOfficerRange() {
	tr.printSection("Officer Range Tests")

	var v almanac.OfficerRangeView
	if err := tr.getData("/api/v1/officer?start=2025-02-01&end=2025-02-07", &v); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if len(v.Officers) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(v.Officers)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", len(v.Officers)))
	}
	if tr.verbose {
		for _, o := range v.Officers {
			fmt.Printf("    %s %s (%s)\n", o.Date, o.Officer.Label, o.Rule.Label)
		}
	}

	// Test range limit (should reject > 90 days)
	tr.expectStatus("Range limit enforced (>90 days rejected)", "/api/v1/officer?start=2025-01-01&end=2025-12-31", http.StatusBadRequest)

	// Test invalid range (end before start)
	tr.expectStatus("Invalid range rejected (end before start)", "/api/v1/officer?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testZiWei() {
	tr.printSection("Zi Wei Chart")

	var c almanac.ChartView
	if err := tr.getData("/api/v1/ziwei?birth=1990-06-15&hour=8&year=2025", &c); err != nil {
		tr.recordError("Chart", err.Error())
		return
	}

	stars := 0
	for _, p := range c.Palaces {
		stars += len(p.MainStars)
	}
	if len(c.Palaces) == 12 && stars == 14 {
		tr.recordSuccess(fmt.Sprintf("Chart: %s, life palace %s", c.Bureau.Label, c.Palaces[c.LifePalace].Branch.Label))
	} else {
		tr.recordError("Chart", fmt.Sprintf("Expected 12 palaces and 14 main stars, got %d and %d", len(c.Palaces), stars))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/day/invalid", http.StatusBadRequest)
	tr.expectStatus("Invalid time rejected", "/api/v1/pillars/2025-01-29?time=24:30", http.StatusBadRequest)
	tr.expectStatus("Unknown scale rejected", "/api/v1/flying-stars/week/2025-01-29", http.StatusBadRequest)
	tr.expectStatus("Unsupported year reported", "/api/v1/day/1850-06-01", http.StatusUnprocessableEntity)
	tr.expectStatus("Missing end parameter rejected", "/api/v1/officer?start=2025-01-01", http.StatusBadRequest)

	// Leap year date
	var r almanac.DayReport
	if err := tr.getData("/api/v1/day/2024-02-29", &r); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}
}

func (tr *TestRunner) testSolarTerms() {
	tr.printSection("Solar Terms 2025")

	var v almanac.SolarTermsView
	if err := tr.getData("/api/v1/solar-terms/2025", &v); err != nil {
		tr.recordError("Terms", err.Error())
		return
	}

	if len(v.Terms) != 24 {
		tr.recordError("Terms", fmt.Sprintf("Expected 24 terms, got %d", len(v.Terms)))
		return
	}
	for _, t := range v.Terms {
		tr.recordSuccess(fmt.Sprintf("%2d %s %s", t.Index, t.Name.Label, t.Time))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the data field of a successful response.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}
	return tr.client.Do(req)
}

func (tr *TestRunner) expectStatus(name, path string, status int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(name)
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(r *almanac.DayReport) {
	p := r.Pillars
	fmt.Printf("    Pillars: %s %s %s %s\n", p.Year.Pillar, p.Month.Pillar, p.Day.Pillar, p.Hour.Pillar)
	fmt.Printf("    Officer: %s (%s)\n", r.Officer.Officer.Label, r.Officer.Rule.Label)
	fmt.Printf("    Lodge:   %s\n", r.Lodge.Label)
	fmt.Printf("    Road:    %s %s\n", r.Road.Spirit.Label, r.Road.Road.Label)
	if r.SolarTerm != nil {
		fmt.Printf("    Term:    %s %s\n", r.SolarTerm.Name.Label, r.SolarTerm.Time)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
