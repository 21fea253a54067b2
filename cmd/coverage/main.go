// Command coverage resolves the full day report of every date in a year range
// and reports which dates fail, grouped by error kind and year.
//
// Usage:
//
//	go run ./cmd/coverage -start 1912 -years 128
//	go run ./cmd/coverage -start 2024 -years 4 -o coverage.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/almanac-api/internal/almanac"
	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/config"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

// TestResult holds the result for a single date
type TestResult struct {
	Date    string `json:"date"`
	Success bool   `json:"success"`
	Officer string `json:"officer,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
}

// KindStats tracks failures sharing an error kind
type KindStats struct {
	Kind        string   `json:"kind"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates"`
}

func main() {
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	workers := flag.Int("workers", 4, "Years resolved concurrently")
	hour := flag.Int("hour", 12, "Clock hour used for every date")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Almanac - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ctx := logger.NewContext(context.Background(), logger.New(os.Stderr, "warn", "text"))
	svc, db, err := almanac.Open(ctx, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Test all dates
	results, err := testAllDates(ctx, svc, *startYear, endYear, *hour, *workers)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		printResults(results)
	}

	// Analyze results
	analysis := analyzeResults(results)

	// Print summary
	printSummary(analysis, *startYear, endYear)

	// Print failures by kind
	printFailuresByKind(analysis)

	// Output to file if requested
	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

// testAllDates resolves each year on its own goroutine, at most workers at a time.
func testAllDates(ctx context.Context, svc *almanac.Service, startYear, endYear, hour, workers int) ([]TestResult, error) {
	perYear := make([][]TestResult, endYear-startYear+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for year := startYear; year <= endYear; year++ {
		g.Go(func() error {
			current := time.Date(year, 1, 1, hour, 0, 0, 0, time.UTC)
			for current.Year() == year {
				if err := ctx.Err(); err != nil {
					return err
				}
				perYear[year-startYear] = append(perYear[year-startYear], testDate(svc, current))
				current = current.AddDate(0, 0, 1)
			}
			fmt.Printf("  Resolved %d\n", year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	fmt.Println()

	var results []TestResult
	for _, rs := range perYear {
		results = append(results, rs...)
	}
	return results, nil
}

func testDate(svc *almanac.Service, t time.Time) TestResult {
	result := TestResult{Date: t.Format(calendar.DateLayout)}

	report, err := svc.Day(calendar.InstantOf(t))
	if err != nil {
		result.Kind = string(calendar.KindOf(err))
		if result.Kind == "" {
			result.Kind = "internal"
		}
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Officer = report.Officer.Officer.Key
	result.Rule = report.Officer.Rule.Key
	return result
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int
	TotalSuccess int
	TotalFailed  int
	ByKind       map[string]*KindStats
	ByYear       map[int]*YearStats
	ByRule       map[string]int
	AllFailures  []TestResult
}

type YearStats struct {
	Year        int
	TotalDays   int
	SuccessDays int
	FailedDays  int
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByKind: make(map[string]*KindStats),
		ByYear: make(map[int]*YearStats),
		ByRule: make(map[string]int),
	}

	for _, r := range results {
		analysis.TotalDays++

		date, _ := time.Parse(calendar.DateLayout, r.Date)
		year := date.Year()

		// Year stats
		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[year].SuccessDays++
			analysis.ByRule[r.Rule]++
			continue
		}

		analysis.TotalFailed++
		analysis.ByYear[year].FailedDays++
		if _, ok := analysis.ByKind[r.Kind]; !ok {
			analysis.ByKind[r.Kind] = &KindStats{Kind: r.Kind}
		}
		analysis.ByKind[r.Kind].FailedDays++
		analysis.ByKind[r.Kind].FailedDates = append(analysis.ByKind[r.Kind].FailedDates, r.Date)
		analysis.AllFailures = append(analysis.AllFailures, r)
	}

	return analysis
}

func printResults(results []TestResult) {
	for _, r := range results {
		if r.Success {
			fmt.Printf("  ✓ %s: %s (%s)\n", r.Date, r.Officer, r.Rule)
		} else {
			fmt.Printf("  ✗ %s: %s\n", r.Date, r.Error)
		}
	}
	fmt.Println()
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Printf("Successful:        %d (%.1f%%)\n", analysis.TotalSuccess,
		float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Println()

	// By year
	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays,
				float64(stats.SuccessDays)/float64(stats.TotalDays)*100)
		}
	}
	fmt.Println()

	// Officer rules
	fmt.Println("Officer Rules:")
	rules := make([]string, 0, len(analysis.ByRule))
	for rule := range analysis.ByRule {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Printf("  %-20s %d\n", rule, analysis.ByRule[rule])
	}
	fmt.Println()
}

func printFailuresByKind(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures! 🎉")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES BY KIND")
	fmt.Println("================================================================")

	// Sort kinds by failure count
	var kinds []*KindStats
	for _, stats := range analysis.ByKind {
		kinds = append(kinds, stats)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].FailedDays > kinds[j].FailedDays
	})

	for _, stats := range kinds {
		fmt.Printf("\n%s: %d failures\n", stats.Kind, stats.FailedDays)
		// Show up to 5 example dates
		for i, date := range stats.FailedDates {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Printf("  - %s\n", date)
		}
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                `json:"generated_at"`
		Summary     map[string]any        `json:"summary"`
		ByKind      map[string]*KindStats `json:"by_kind"`
		ByRule      map[string]int        `json:"by_rule"`
		Failures    []TestResult          `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
			"success_rate":  fmt.Sprintf("%.2f%%", float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100),
		},
		ByKind:   analysis.ByKind,
		ByRule:   analysis.ByRule,
		Failures: analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
