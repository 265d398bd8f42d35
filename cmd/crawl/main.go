// Command crawl is the one-shot CLI: run a crawl session and/or query
// the store from the terminal. An external scheduler (cron, CI) can
// invoke it instead of the engine's built-in ticker.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape"
	"jobscanner-engine/internal/snapshot"
	"jobscanner-engine/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	var (
		runCrawl = flag.Bool("run", false, "run a crawl session")
		terms    = flag.String("terms", "", "comma-separated search terms (default: configured)")
		source   = flag.String("source", "", "restrict the crawl to one source (google_careers|linkedin)")
		showStat = flag.Bool("stats", false, "print database statistics")
		list     = flag.Bool("list", false, "list stored jobs")
		company  = flag.String("company", "", "filter listing by company substring")
		status   = flag.String("status", "", "filter listing by status")
		search   = flag.String("search", "", "search jobs by term")
		limit    = flag.Int("limit", 20, "max results for list/search")
		snapDir  = flag.String("snapshot", "", "write a static JSON snapshot to this directory")
	)
	flag.Parse()

	if !*runCrawl && !*showStat && !*list && *search == "" && *snapDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	dataDir := os.Getenv("JOBSCANNER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, val := config.NormalizeAndValidate(cfg)
	if !val.OK() {
		for _, e := range val.Errors {
			log.Printf("config error: %s", e)
		}
		os.Exit(1)
	}
	if *limit <= 0 {
		log.Fatal("limit must be a positive integer")
	}
	switch *source {
	case "":
	case "google_careers":
		cfg.Crawl.Sources.LinkedIn.Enabled = false
	case "linkedin":
		cfg.Crawl.Sources.GoogleCareers.Enabled = false
	default:
		log.Fatalf("unknown source %q (want google_careers or linkedin)", *source)
	}

	db, err := store.Open(filepath.Join(dataDir, "jobs.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if *runCrawl {
		var override []string
		if *terms != "" {
			for _, t := range strings.Split(*terms, ",") {
				if t = strings.TrimSpace(t); t != "" {
					override = append(override, t)
				}
			}
		}
		sum, err := scrape.RunSession(ctx, db, cfg, override, nil)
		if err != nil {
			log.Fatalf("crawl failed: %v", err)
		}
		fmt.Printf("Crawl finished: found=%d inserted=%d duplicates=%d dropped=%d failures=%d\n",
			sum.Found, sum.Inserted, sum.Duplicates, sum.Dropped, sum.Failures)
	}

	if *showStat {
		st, err := db.Stats(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Total jobs: %d\n", st.Total)
		for status, n := range st.ByStatus {
			fmt.Printf("  %-10s %d\n", status, n)
		}
	}

	if *search != "" {
		jobs, err := db.Search(ctx, *search, *limit)
		if err != nil {
			log.Fatal(err)
		}
		printJobs(jobs)
	}

	if *list {
		jobs, err := db.List(ctx, store.ListOpts{
			Status:  *status,
			Company: *company,
			Limit:   *limit,
		})
		if err != nil {
			log.Fatal(err)
		}
		printJobs(jobs)
	}

	if *snapDir != "" {
		if err := snapshot.Write(ctx, db, *snapDir, cfg.Crawl.SearchTerms); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Snapshot written to %s\n", *snapDir)
	}
}

func printJobs(jobs []domain.JobListing) {
	if len(jobs) == 0 {
		fmt.Println("No jobs found.")
		return
	}
	for _, j := range jobs {
		fmt.Printf("[%d] %s / %s (%s)\n", j.ID, j.Title, j.Company, j.Location)
		fmt.Printf("    %s\n", j.URL)
		if j.PostedDate != "" {
			fmt.Printf("    posted: %s  status: %s\n", j.PostedDate, j.Status)
		} else {
			fmt.Printf("    status: %s\n", j.Status)
		}
	}
	fmt.Printf("%d job(s)\n", len(jobs))
}
