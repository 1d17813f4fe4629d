package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/kv"
	"github.com/example/morning-report/internal/markup"
	"github.com/example/morning-report/internal/platform/auth"
	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/internal/refresh"
)

const userID = "amzn1.ask.account.CLI"

type fakeJS struct {
	subject string
	data    []byte
}

func (f *fakeJS) Publish(subj string, data []byte, _ ...nats.PubOpt) (*nats.PubAck, error) {
	f.subject, f.data = subj, data
	return &nats.PubAck{Stream: refresh.StreamName, Sequence: 42}, nil
}

type harness struct {
	store *kv.Memory
	repo  *records.Repository
	js    *fakeJS
	opts  kv.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGO_URL", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("ADMIN_JWT_SECRET", "")
	store := kv.NewMemory()
	return &harness{store: store, repo: records.NewRepository(store), js: &fakeJS{}}
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	deps := Deps{
		OpenStore: func(_ context.Context, opts kv.Options, _ *zap.Logger) (kv.Store, error) {
			h.opts = opts
			return h.store, nil
		},
		DialNATS: func(string) (refresh.Publisher, func(), error) {
			return h.js, func() {}, nil
		},
	}
	cmd := NewRootCmd(deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) seedReport(t *testing.T) {
	t.Helper()
	body := markup.DocumentFromNodes(
		markup.Element("p", markup.Text("Good morning.")),
		markup.Element("h2", markup.Text("City Hall")),
		markup.Element("p", markup.Text("The council voted.")),
	)
	err := h.repo.SaveReport(context.Background(), records.Report{
		Title:       "Morning Report",
		Author:      "Jane Doe",
		PublishedAt: time.Date(2021, 1, 1, 6, 0, 0, 0, time.UTC),
		Body:        body,
	})
	if err != nil {
		t.Fatal(err)
	}
}

// ─── Root ───────────────────────────────────────────────────────────────────

func TestRoot_HelpListsCommands(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, name := range []string{"render", "podcasts", "key", "positions", "token", "refresh"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected help to list %q, got:\n%s", name, out)
		}
	}
}

func TestStoreRequired(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "render")
	if err == nil || !strings.Contains(err.Error(), "--redis-url") {
		t.Fatalf("expected missing store error, got %v", err)
	}
}

func TestStoreFlagsFromEnv(t *testing.T) {
	h := newHarness(t)
	h.seedReport(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/skill")
	if _, _, err := h.run(t, "render"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if h.opts.DatabaseURL != "postgres://localhost/skill" || h.opts.MongoDB != "morning_report" {
		t.Fatalf("unexpected store options %+v", h.opts)
	}
}

// ─── Render ─────────────────────────────────────────────────────────────────

func TestRender_Text(t *testing.T) {
	h := newHarness(t)
	h.seedReport(t)
	out, _, err := h.run(t, "render", "--redis-url", "redis://x")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{"=== Morning Report ===", "by Jane Doe", "-- City Hall --", "The council voted."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRender_SSML(t *testing.T) {
	h := newHarness(t)
	h.seedReport(t)
	out, _, err := h.run(t, "render", "--format", "ssml", "--redis-url", "redis://x")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(out, "<speak>") || !strings.Contains(out, "City Hall") {
		t.Fatalf("unexpected ssml %q", out)
	}
}

func TestRender_Errors(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "render", "--format", "html", "--redis-url", "redis://x"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, _, err := h.run(t, "render", "--format", "ssml", "--max-length", "10", "--redis-url", "redis://x"); err == nil {
		t.Fatal("expected error for a max length below the minimum")
	}
	if _, _, err := h.run(t, "render", "--redis-url", "redis://x"); err == nil {
		t.Fatal("expected error when no report is stored")
	}
}

func TestPodcasts(t *testing.T) {
	h := newHarness(t)
	err := h.repo.SavePodcasts(context.Background(), []records.Podcast{
		{Title: "Ep Two", Token: "ep-2", MediaURL: "https://cdn.example.org/2.mp3", PublishedAt: time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)},
		{Title: "Ep One", Token: "ep-1", MediaURL: "https://cdn.example.org/1.mp3", PublishedAt: time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, _, err := h.run(t, "podcasts", "--redis-url", "redis://x")
	if err != nil {
		t.Fatalf("podcasts failed: %v", err)
	}
	if !strings.Contains(out, "ep-2") || strings.Index(out, "ep-2") > strings.Index(out, "ep-1") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if !strings.Contains(out, "2021-01-04") {
		t.Fatalf("expected dates in listing:\n%s", out)
	}
}

// ─── Positions ──────────────────────────────────────────────────────────────

func TestKey(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "key", userID)
	if err != nil {
		t.Fatalf("key failed: %v", err)
	}
	if strings.TrimSpace(out) != records.PositionKey(userID) {
		t.Fatalf("unexpected key %q", out)
	}
}

func TestPositions_GetAndDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if err := h.repo.SavePosition(ctx, records.Position{UserID: userID, Token: "ep-1", OffsetMilliseconds: 1234}); err != nil {
		t.Fatal(err)
	}

	out, _, err := h.run(t, "positions", "get", userID, "--redis-url", "redis://x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var pos records.Position
	if err := json.Unmarshal([]byte(out), &pos); err != nil {
		t.Fatalf("output is not a position: %v\n%s", err, out)
	}
	if pos.Token != "ep-1" || pos.OffsetMilliseconds != 1234 {
		t.Fatalf("unexpected position %+v", pos)
	}

	if _, _, err := h.run(t, "positions", "delete", userID, "--redis-url", "redis://x"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := h.run(t, "positions", "get", userID, "--redis-url", "redis://x"); err == nil {
		t.Fatal("expected error after delete")
	}
}

// ─── Operations ─────────────────────────────────────────────────────────────

func TestToken(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "token"); err == nil {
		t.Fatal("expected error without secret")
	}
	t.Setenv("ADMIN_JWT_SECRET", "admin-secret")
	out, _, err := h.run(t, "token", "--subject", "ops")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	claims, err := auth.JWTVerifier{Secret: []byte("admin-secret")}.Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRefresh(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "refresh"); err == nil {
		t.Fatal("expected error without NATS URL")
	}
	out, _, err := h.run(t, "refresh", "--nats-url", "nats://localhost:4222", "--reason", "deploy")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if h.js.subject != refresh.Subject || !strings.Contains(string(h.js.data), `"reason":"deploy"`) {
		t.Fatalf("unexpected publish %s %s", h.js.subject, h.js.data)
	}
	if !strings.Contains(out, "sequence 42") {
		t.Fatalf("unexpected output %q", out)
	}
}
