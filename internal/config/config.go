package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SourceToggle struct {
	Enabled  bool `yaml:"enabled"`
	MaxPages int  `yaml:"max_pages"`
}

type LinkedInSource struct {
	SourceToggle `yaml:",inline"`
	Location     string `yaml:"location"`
}

// Config is the one place search terms, per-source caps and the
// politeness delay live; CLI and HTTP both read from here.
type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Crawl struct {
		SearchTerms    []string `yaml:"search_terms"`
		DelaySeconds   int      `yaml:"delay_seconds"`
		PerSourceLimit int      `yaml:"per_source_limit"`

		Sources struct {
			GoogleCareers SourceToggle   `yaml:"google_careers"`
			LinkedIn      LinkedInSource `yaml:"linkedin"`
		} `yaml:"sources"`
	} `yaml:"crawl"`

	Schedule struct {
		Enabled       bool `yaml:"enabled"`
		IntervalHours int  `yaml:"interval_hours"`
	} `yaml:"schedule"`

	Snapshot struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"snapshot"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 8090
	cfg.Crawl.SearchTerms = []string{
		"VP Engineering",
		"Director Engineering",
		"Engineering Manager",
		"Staff Engineer",
	}
	cfg.Crawl.DelaySeconds = 2
	cfg.Crawl.PerSourceLimit = 30
	cfg.Crawl.Sources.GoogleCareers.Enabled = true
	cfg.Crawl.Sources.GoogleCareers.MaxPages = 2
	cfg.Crawl.Sources.LinkedIn.Enabled = true
	cfg.Crawl.Sources.LinkedIn.MaxPages = 3
	cfg.Crawl.Sources.LinkedIn.Location = "United States"
	cfg.Schedule.IntervalHours = 24
	cfg.Snapshot.Dir = "snapshot"
	return cfg
}
