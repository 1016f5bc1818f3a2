// Minimal end-to-end check against a running memberhub API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/types"
	"github.com/stake-plus/memberhub/src/api/webserver"
)

var (
	baseURL   = getenv("API_URL", "http://localhost:8080/api")
	redisURL  = getenv("REDIS_URL", "")
	jwtSecret = getenv("JWT_SECRET", "")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must match the server's secret")
	}
	token, err := webserver.IssueToken([]byte(jwtSecret), webserver.Identity{
		ID:    "smoke-" + uuid.NewString(),
		Email: "smoke@example.org",
		Role:  types.RoleAdmin,
	}, 10*time.Minute)
	if err != nil {
		log.Fatalf("token: %v", err)
	}

	start := time.Now()
	id := createMember(token)
	checkMember(token, id)
	updateMember(token, id)
	listMembers(token)
	doReq("DELETE", "/members/"+id, token, nil, nil, http.StatusNoContent)
	doReq("GET", "/members/"+id, token, nil, nil, http.StatusNotFound)
	doReq("GET", "/leadership", "", nil, nil, http.StatusOK)

	if redisURL != "" {
		checkChanges(id, start)
	}
	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- members

func createMember(tok string) string {
	var m types.Member
	doReq("POST", "/members", tok, map[string]any{
		"fullName":     "Smoke Test " + uuid.NewString()[:8],
		"phone":        "01700000000",
		"constituency": "Smoke-1",
		"district":     "Smoke",
	}, &m, http.StatusCreated)
	if m.ID == "" {
		log.Fatal("create: empty id")
	}
	return m.ID
}

func checkMember(tok, id string) {
	var m types.Member
	doReq("GET", "/members/"+id, tok, nil, &m, http.StatusOK)
	if m.Constituency != "Smoke-1" || !m.IsActive {
		log.Fatalf("get: unexpected member %+v", m)
	}
}

func updateMember(tok, id string) {
	var m types.Member
	doReq("PUT", "/members/"+id, tok, map[string]any{"city": "Dhaka"}, &m, http.StatusOK)
	if m.City != "Dhaka" || m.District != "Smoke" {
		log.Fatalf("update: unexpected member %+v", m)
	}
}

func listMembers(tok string) {
	var res struct {
		Items []types.Member `json:"items"`
		Total int64          `json:"total"`
	}
	doReq("GET", "/members?constituency=Smoke-1&limit=1", tok, nil, &res, http.StatusOK)
	if res.Total == 0 || len(res.Items) != 1 {
		log.Fatalf("list: total %d with %d items", res.Total, len(res.Items))
	}
}

// ----------------------------- change stream

func checkChanges(id string, since time.Time) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	from := fmt.Sprintf("%d-0", since.Add(-time.Second).UnixMilli())
	msgs, err := rdb.XRange(context.Background(), data.ChangeStream, from, "+").Result()
	if err != nil {
		log.Fatalf("redis xrange: %v", err)
	}
	seen := map[string]bool{}
	for _, m := range msgs {
		if m.Values["id"] == id {
			seen[fmt.Sprint(m.Values["op"])] = true
		}
	}
	for _, op := range []data.Op{data.OpCreate, data.OpUpdate, data.OpDelete} {
		if !seen[string(op)] {
			log.Fatalf("change stream: no %s event for %s", op, id)
		}
	}
}

// ----------------------------- helpers

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
