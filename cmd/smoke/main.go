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
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Smoke test for a running jaspel API. Tokens are minted locally with
// JWT_SECRET, so the secret must match the server's.

type step struct {
	title  string
	method string
	path   string
	token  string
	body   interface{}
	expect int
}

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func mintToken(secret, role string) string {
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func sendRequest(client *http.Client, baseURL string, s step) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if s.body != nil {
		jsonBody, _ := json.Marshal(s.body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(s.method, baseURL+s.path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000/api/jaspel/v1", "API base URL")
	verbose := flag.Bool("v", false, "print response bodies")
	burst := flag.Int("burst", 0, "extra /reports calls to probe the rate limiter")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		color.Red("JWT_SECRET is not set")
		os.Exit(1)
	}

	admin := mintToken(secret, "admin")
	bendahara := mintToken(secret, "bendahara")
	petugas := mintToken(secret, "petugas")

	steps := []step{
		{"Health", "GET", "/health", "", nil, http.StatusOK},
		{"Report without token", "GET", "/reports", "", nil, http.StatusUnauthorized},
		{"Report as petugas", "GET", "/reports", petugas, nil, http.StatusForbidden},
		{"Report, all roles", "GET", "/reports?role=semua&per_page=10", admin, nil, http.StatusOK},
		{"Report, unknown role", "GET", "/reports?role=perawat", admin, nil, http.StatusBadRequest},
		{"Role statistics", "GET", "/roles/statistics", bendahara, nil, http.StatusOK},
		{"System validation", "GET", "/validation/system", admin, nil, http.StatusOK},
		{"Flow analysis", "GET", "/flow/analysis", admin, nil, http.StatusOK},
		{"Bulk status as admin", "PUT", "/entries/status", admin, map[string]interface{}{
			"ids": []string{uuid.NewString()}, "status": "approved",
		}, http.StatusForbidden},
		{"Bulk status, nothing pending", "PUT", "/entries/status", bendahara, map[string]interface{}{
			"ids": []string{uuid.NewString()}, "status": "approved",
		}, http.StatusOK},
		{"Export", "POST", "/export", admin, map[string]interface{}{"format": "csv"}, http.StatusOK},
		{"Usage stats", "GET", "/usage/stats?hours=3", admin, nil, http.StatusOK},
	}

	client := &http.Client{Timeout: 15 * time.Second}
	color.Cyan("Jaspel API smoke test against %s\n", *baseURL)

	failed := 0
	for i, s := range steps {
		color.Yellow("\n%d. %s (%s %s)", i+1, s.title, s.method, s.path)
		resp, body, err := sendRequest(client, *baseURL, s)
		if err != nil {
			color.Red("Failed: %v", err)
			failed++
			continue
		}
		if resp.StatusCode != s.expect {
			color.Red("Status: %s (expected %d)", resp.Status, s.expect)
			prettyPrint(body)
			failed++
			continue
		}
		color.Green("Status: %s", resp.Status)
		if *verbose {
			prettyPrint(body)
		}
	}

	if *burst > 0 {
		color.Yellow("\nBurst of %d report calls", *burst)
		limited := 0
		for i := 0; i < *burst; i++ {
			resp, _, err := sendRequest(client, *baseURL, step{method: "GET", path: "/reports", token: bendahara})
			if err != nil {
				color.Red("Failed: %v", err)
				break
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				limited++
				if limited == 1 {
					color.Green("Rate limited after %d calls, Retry-After=%s", i, resp.Header.Get("Retry-After"))
				}
			}
		}
		if limited == 0 {
			color.Red("No call was rate limited")
			failed++
		}
	}

	if failed > 0 {
		color.Red("\n%d step(s) failed", failed)
		os.Exit(1)
	}
	color.Cyan("\nAll steps passed")
}
