package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/memberhub/src/api/config"
	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/store"
	"github.com/stake-plus/memberhub/src/api/types"
)

const testSecret = "test-secret-that-is-at-least-32-bytes"

type recordingNotifier struct {
	mu      sync.Mutex
	changes []data.Change
}

func (r *recordingNotifier) Publish(_ context.Context, ch data.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, ch)
	return nil
}

func (r *recordingNotifier) all() []data.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]data.Change(nil), r.changes...)
}

type chanBroadcaster chan types.Notice

func (b chanBroadcaster) Broadcast(_ context.Context, n types.Notice) error {
	b <- n
	return nil
}

type testEnv struct {
	t       *testing.T
	router  *Server
	store   *store.Store
	changes *recordingNotifier
	sent    chanBroadcaster
	member  string
	admin   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := data.Open(dsn, data.Pool{MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, data.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Default()
	cfg.JWTSecret = testSecret
	st := store.New(db, 5*time.Second)
	env := &testEnv{
		t:       t,
		store:   st,
		changes: &recordingNotifier{},
		sent:    make(chanBroadcaster, 4),
	}
	env.router = New(cfg, st, Deps{Changes: env.changes, Broadcaster: env.sent})
	env.member = env.token(Identity{ID: "user-member", Email: "m@example.com", FirstName: "Mina", Role: types.RoleMember})
	env.admin = env.token(Identity{ID: "user-admin", Email: "a@example.com", FirstName: "Arif", Role: types.RoleAdmin})
	return env
}

func (e *testEnv) token(id Identity) string {
	tok, err := IssueToken([]byte(testSecret), id, time.Hour)
	require.NoError(e.t, err)
	return tok
}

func (e *testEnv) do(method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func memberBody(name string) map[string]any {
	return map[string]any{
		"fullName":     name,
		"phone":        "9876543210",
		"constituency": "X",
		"district":     "Y",
	}
}

func TestMembers_CreateThenGet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/members", memberBody("Ayesha Rahman"), env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.Member](t, w)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	w = env.do(http.MethodGet, "/api/members/"+created.ID, nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[types.Member](t, w)
	assert.Equal(t, "Ayesha Rahman", got.FullName)
	assert.Equal(t, "9876543210", got.Phone)
	assert.Equal(t, "X", got.Constituency)
}

func TestMembers_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	created := decode[types.Member](t, env.do(http.MethodPost, "/api/members", memberBody("Ayesha Rahman"), env.member))

	w := env.do(http.MethodPut, "/api/members/"+created.ID, map[string]any{"phone": "01700000000"}, env.member)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[types.Member](t, w)
	assert.Equal(t, "01700000000", got.Phone)
	assert.Equal(t, "Ayesha Rahman", got.FullName)
	assert.Equal(t, "Y", got.District)
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestMembers_Missing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/members/does-not-exist", nil, env.member)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]any](t, w)["err"], "not found")

	w = env.do(http.MethodPut, "/api/members/does-not-exist", map[string]any{"phone": "01700000000"}, env.member)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembers_Pagination(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"First Member", "Second Member"} {
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/members", memberBody(name), env.member).Code)
	}

	w := env.do(http.MethodGet, "/api/members?page=2&limit=1", nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[store.Result[types.Member]](t, w)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Items, 1)

	w = env.do(http.MethodGet, "/api/members?page=-1", nil, env.member)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMembers_Search(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Ayesha Rahman", "Karim Uddin"} {
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/members", memberBody(name), env.member).Code)
	}

	res := decode[store.Result[types.Member]](t, env.do(http.MethodGet, "/api/members?search=ayesha", nil, env.member))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ayesha Rahman", res.Items[0].FullName)
}

func TestMembers_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/members", map[string]any{"fullName": "A", "phone": "123"}, env.member)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Err    string `json:"err"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	fields := map[string]string{}
	for _, f := range body.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be at least 2 characters", fields["fullName"])
	assert.Equal(t, "is required", fields["constituency"])
	assert.Contains(t, fields, "phone")

	w = env.do(http.MethodPost, "/api/members", "not an object", env.member)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMembers_SanitizesMarkup(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/members", memberBody("<script>alert(1)</script><b>Ayesha</b> &amp; Co"), env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Ayesha & Co", decode[types.Member](t, w).FullName)
}

func TestMembers_DeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	created := decode[types.Member](t, env.do(http.MethodPost, "/api/members", memberBody("Ayesha Rahman"), env.member))

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/members/"+created.ID, nil, env.member).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/members/"+created.ID, nil, env.member).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/members/"+created.ID, nil, env.member).Code)

	var ops []data.Op
	for _, ch := range env.changes.all() {
		assert.Equal(t, "members", ch.Entity)
		ops = append(ops, ch.Op)
	}
	assert.Equal(t, []data.Op{data.OpCreate, data.OpDelete, data.OpDelete}, ops)
}

func TestAuth_Required(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/members", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/dashboard/stats", nil, "").Code)

	forged, err := IssueToken([]byte("another-secret-that-is-32-bytes-long"), Identity{ID: "x"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/members", nil, forged).Code)

	expired, err := IssueToken([]byte(testSecret), Identity{ID: "x"}, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/members", nil, expired).Code)
}

func TestLeadership_PublicList(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"name": "Rahim Khan", "designation": "President", "priority": 1}
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/leadership", body, "").Code)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/leadership", body, env.admin).Code)

	w := env.do(http.MethodGet, "/api/leadership", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[store.Result[types.Leadership]](t, w)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "President", res.Items[0].Designation)
}

func TestNotices_PinnedFirstAndAuthor(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/notices",
		map[string]any{"title": "Regular notice", "content": "body"}, env.member).Code)
	w := env.do(http.MethodPost, "/api/notices",
		map[string]any{"title": "Pinned notice", "content": "body", "isPinned": true}, env.member)
	require.Equal(t, http.StatusCreated, w.Code)
	pinned := decode[types.Notice](t, w)
	assert.Equal(t, "user-member", pinned.AuthorID)

	res := decode[store.Result[types.Notice]](t, env.do(http.MethodGet, "/api/notices", nil, env.member))
	require.Len(t, res.Items, 2)
	assert.Equal(t, pinned.ID, res.Items[0].ID)
}

func TestNotices_ViewCounter(t *testing.T) {
	env := newTestEnv(t)
	n := decode[types.Notice](t, env.do(http.MethodPost, "/api/notices",
		map[string]any{"title": "Counted", "content": "body"}, env.member))

	env.do(http.MethodPost, "/api/notices/"+n.ID+"/view", nil, env.member)
	w := env.do(http.MethodPost, "/api/notices/"+n.ID+"/view", nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[types.Notice](t, w).ViewCount)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/notices/missing/view", nil, env.member).Code)
}

func TestNotices_UrgentIsBroadcast(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/api/notices", map[string]any{"title": "Routine", "content": "body"}, env.member)
	env.do(http.MethodPost, "/api/notices", map[string]any{"title": "Flood alert", "content": "body", "priority": "urgent"}, env.member)

	select {
	case n := <-env.sent:
		assert.Equal(t, "Flood alert", n.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("urgent notice was not broadcast")
	}
	select {
	case n := <-env.sent:
		t.Fatalf("unexpected broadcast of %q", n.Title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEvents_OrganizerDefaultsToCaller(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/events", map[string]any{
		"title":     "Town hall",
		"type":      "offline",
		"startDate": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	}, env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ev := decode[types.Event](t, w)
	assert.Equal(t, "user-member", ev.OrganizerID)
	assert.Equal(t, types.EventDraft, ev.Status)
}

func TestFeedback_RespondRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	fb := decode[types.Feedback](t, env.do(http.MethodPost, "/api/feedback", map[string]any{
		"name":     "Nadia",
		"subject":  "Street lights",
		"message":  "The lights on road 4 are out.",
		"category": "complaint",
	}, env.member))
	require.NotEmpty(t, fb.ID)
	assert.Equal(t, types.FeedbackPending, fb.Status)

	reply := map[string]any{"response": "Reported to the ward office."}
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/feedback/"+fb.ID+"/respond", reply, env.member).Code)

	w := env.do(http.MethodPost, "/api/feedback/"+fb.ID+"/respond", reply, env.admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[types.Feedback](t, w)
	assert.Equal(t, types.FeedbackResolved, got.Status)
	assert.Equal(t, "Reported to the ward office.", got.AdminResponse)
	assert.NotNil(t, got.RespondedAt)
}

func TestUsers_CurrentAndRole(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/user", nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[types.User](t, w)
	assert.Equal(t, "user-member", u.ID)
	assert.Equal(t, types.RoleMember, u.Role)

	body := map[string]any{"role": "leadership"}
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPut, "/api/users/user-member/role", body, env.member).Code)
	w = env.do(http.MethodPut, "/api/users/user-member/role", body, env.admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.RoleLeadership, decode[types.User](t, w).Role)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, "/api/users/nobody/role", body, env.admin).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/api/users/user-member/role", map[string]any{"role": "owner"}, env.admin).Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/members", memberBody("Ayesha Rahman"), env.member).Code)

	w := env.do(http.MethodGet, "/api/dashboard/stats", nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[store.Dashboard](t, w)
	assert.EqualValues(t, 1, d.TotalMembers)
	assert.Equal(t, 100.0, d.MemberGrowth)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/dashboard/member-stats", nil, env.member).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/dashboard/upcoming-events?limit=3", nil, env.member).Code)
	assert.Equal(t, "[]", env.do(http.MethodGet, "/api/dashboard/recent-notices", nil, env.member).Body.String())
}

func TestETag_NotModified(t *testing.T) {
	env := newTestEnv(t)
	created := decode[types.Member](t, env.do(http.MethodPost, "/api/members", memberBody("Ayesha Rahman"), env.member))

	w := env.do(http.MethodGet, "/api/members/"+created.ID, nil, env.member)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w = env.do(http.MethodGet, "/api/members/"+created.ID, nil, env.member, "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	env.do(http.MethodPut, "/api/members/"+created.ID, map[string]any{"city": "Dhaka"}, env.member)
	w = env.do(http.MethodGet, "/api/members/"+created.ID, nil, env.member, "If-None-Match", tag)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/healthz", nil, "").Code)
	env.do(http.MethodGet, "/api/members", nil, env.member)
	w := env.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `memberhub_http_requests_total{method="GET",route="/api/members",status="200"} 1`)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.NotContains(t, rl.requests, "b")

	assert.True(t, NewRateLimiter(0, time.Minute).Allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(NewRateLimiter(1, time.Hour)), func(c *gin.Context) { c.Status(http.StatusOK) })

	serve := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, serve())
	assert.Equal(t, http.StatusTooManyRequests, serve())
}

func TestSanitizer(t *testing.T) {
	s := newSanitizer()
	assert.Equal(t, "hello", s.clean("<p>hello</p>"))
	assert.Equal(t, "", s.clean("<script>alert(1)</script>"))
	assert.Equal(t, "x", s.clean(`<a href="javascript:alert(1)">x`))
	assert.Equal(t, "x", s.clean(`<span onclick="steal()">x`))
	assert.Equal(t, "Tom & Jerry", s.clean("<i>Tom</i> &amp; Jerry"))

	for _, plain := range []string{
		"Won ward a<b and c>d; Tom & Jerry",
		"  Rahul  ",
		"a &lt; b",
		"3 < 4 and 5 > 2",
		"<b and c>",
	} {
		assert.Equal(t, plain, s.clean(plain), plain)
		assert.False(t, hasMarkup(plain), plain)
	}
}

func TestMembers_FlatContactFields(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"fullName":         "Test User",
		"phone":            "9876543210",
		"email":            "t@example.com",
		"constituency":     "X",
		"district":         "Y",
		"division":         "Z",
		"address":          "addr",
		"emergencyContact": "9876543211",
	}

	w := env.do(http.MethodPost, "/api/members", body, env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]any](t, w)["id"].(string)

	w = env.do(http.MethodGet, "/api/members/"+id, nil, env.member)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	for k, v := range body {
		assert.Equal(t, v, got[k], k)
	}
	assert.Equal(t, map[string]any{"address": "addr", "emergencyContact": "9876543211"}, got["contactInfo"])

	w = env.do(http.MethodPut, "/api/members/"+id, map[string]any{"address": "House 4, Road 2"}, env.member)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode[types.Member](t, w)
	assert.Equal(t, types.ContactInfo{Address: "House 4, Road 2", EmergencyContact: "9876543211"}, m.ContactInfo)
	assert.Equal(t, "Test User", m.FullName)

	w = env.do(http.MethodPut, "/api/members/"+id, map[string]any{"emergencyContact": "123"}, env.member)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMembers_PlainTextStoredVerbatim(t *testing.T) {
	env := newTestEnv(t)
	body := memberBody("  Rahul  ")
	body["achievements"] = "Won ward a<b and c>d; Tom & Jerry"

	w := env.do(http.MethodPost, "/api/members", body, env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[types.Member](t, w).ID

	got := decode[types.Member](t, env.do(http.MethodGet, "/api/members/"+id, nil, env.member))
	assert.Equal(t, "  Rahul  ", got.FullName)
	assert.Equal(t, "Won ward a<b and c>d; Tom & Jerry", got.Achievements)

	w = env.do(http.MethodPut, "/api/members/"+id, map[string]any{"achievements": "x <y> z"}, env.member)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "x <y> z", decode[types.Member](t, w).Achievements)
}

func TestEvents_EndDateCannotPrecedeStoredStart(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/api/events", map[string]any{
		"title":     "Convention",
		"type":      "hybrid",
		"startDate": "2030-01-01T10:00:00Z",
	}, env.member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[types.Event](t, w).ID

	w = env.do(http.MethodPut, "/api/events/"+id, map[string]any{"endDate": "2020-01-01T00:00:00Z"}, env.member)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "endDate")

	w = env.do(http.MethodPut, "/api/events/"+id, map[string]any{"endDate": "2030-01-02T10:00:00Z"}, env.member)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, decode[types.Event](t, w).EndDate)

	w = env.do(http.MethodPut, "/api/events/"+id, map[string]any{"startDate": "2030-02-01T10:00:00Z"}, env.member)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPut, "/api/events/missing", map[string]any{"endDate": "2030-01-02T10:00:00Z"}, env.member).Code)
}

type blockingBroadcaster struct {
	release chan struct{}
	done    chan string
}

func (b blockingBroadcaster) Broadcast(_ context.Context, n types.Notice) error {
	<-b.release
	b.done <- n.ID
	return nil
}

func TestDrain_WaitsForBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	b := blockingBroadcaster{release: make(chan struct{}), done: make(chan string, 1)}
	s := New(config.Default(), env.store, Deps{Broadcaster: b})

	require.NoError(t, s.Drain(context.Background()))

	s.broadcast(types.Notice{Base: types.Base{ID: "n-1"}})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.DeadlineExceeded)

	close(b.release)
	require.NoError(t, s.Drain(context.Background()))
	assert.Equal(t, "n-1", <-b.done)
}
