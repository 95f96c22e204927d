package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Body     string `json:"body,omitempty"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Match    bool
	Err      error
	Duration time.Duration
}

func main() {
	var (
		baseURL     string
		token       string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("SMOKE_TOKEN"), "Bearer token for authenticated routes")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var failedCritical int

	for _, tgt := range targets {
		res := check(client, baseURL, token, tgt)
		printResult(res)
		if !res.Match && res.Target.Critical {
			failedCritical++
		}
	}

	if failedCritical > 0 {
		log.Fatalf("%d critical target(s) failed", failedCritical)
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
	return cfg.Targets, nil
}

func check(client *http.Client, baseURL, token string, tgt target) result {
	var body io.Reader
	if tgt.Body != "" {
		body = bytes.NewBufferString(tgt.Body)
	}
	req, err := http.NewRequest(tgt.Method, strings.TrimRight(baseURL, "/")+tgt.Path, body)
	if err != nil {
		return result{Target: tgt, Err: err}
	}
	if tgt.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return result{Target: tgt, Err: err, Duration: elapsed}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	expect := tgt.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	return result{
		Target:   tgt,
		Status:   resp.StatusCode,
		Match:    resp.StatusCode == expect,
		Duration: elapsed,
	}
}

func printResult(res result) {
	label := "ok"
	if res.Err != nil {
		label = "error"
	} else if !res.Match {
		label = "mismatch"
	}
	if res.Err != nil {
		fmt.Printf("[%s] %s %s: %v\n", label, res.Target.Method, res.Target.Path, res.Err)
		return
	}
	fmt.Printf("[%s] %s %s: status=%d duration=%s\n", label, res.Target.Method, res.Target.Path, res.Status, res.Duration.Round(time.Millisecond))
}
