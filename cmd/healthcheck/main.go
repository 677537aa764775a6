// Package main probes the server's liveness endpoint for container health
// checks. Exit status 0 means healthy.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/garyellow/askhr-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "10000"
	}

	client := &http.Client{Timeout: config.ReadinessCheckTimeout}
	url := fmt.Sprintf("http://localhost:%s/livez", port)

	resp, err := client.Get(url)
	if err != nil {
		os.Exit(1)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
