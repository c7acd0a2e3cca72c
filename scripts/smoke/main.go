// Command smoke probes a running instance and reports per-endpoint status
// and latency. Intended for post-deploy checks; exits non-zero when a
// critical target fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base        string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}

	failedCritical := false
	for _, t := range targets {
		res := probe(client, base, t)
		report(res)
		if t.Critical && !passed(res) {
			failedCritical = true
		}
	}

	if failedCritical {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}

	for i := range cfg.Targets {
		if cfg.Targets[i].Method == "" {
			cfg.Targets[i].Method = http.MethodGet
		}
		if cfg.Targets[i].Expect == 0 {
			cfg.Targets[i].Expect = http.StatusOK
		}
	}
	return cfg.Targets, nil
}

func probe(client *http.Client, base string, t target) result {
	req, err := http.NewRequest(t.Method, base+t.Path, nil)
	if err != nil {
		return result{Target: t, Err: err}
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return result{Target: t, Duration: elapsed, Err: err}
	}
	defer resp.Body.Close()

	return result{Target: t, Status: resp.StatusCode, Duration: elapsed}
}

func passed(r result) bool {
	return r.Err == nil && r.Status == r.Target.Expect
}

func report(r result) {
	mark := "ok  "
	if !passed(r) {
		mark = "FAIL"
	}
	if r.Err != nil {
		fmt.Printf("%s %-6s %-40s error: %v\n", mark, r.Target.Method, r.Target.Path, r.Err)
		return
	}
	fmt.Printf("%s %-6s %-40s %d (want %d) %s\n", mark, r.Target.Method, r.Target.Path, r.Status, r.Target.Expect, r.Duration.Round(time.Millisecond))
}
