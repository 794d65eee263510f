package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(db, cache health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(db, cache, logger, reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{err: errors.New("db down")}, &mockPinger{err: errors.New("redis down")})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{}, &mockPinger{})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	for _, dep := range []string{"postgres", "redis"} {
		check, ok := result.Checks[dep]
		if !ok {
			t.Fatalf("missing %s check", dep)
		}
		if check.Status != "up" {
			t.Fatalf("expected %s up, got %s", dep, check.Status)
		}
		if g := testGauge(t, reg, "auth_health_check_up", dep); g != 1 {
			t.Fatalf("expected %s gauge 1, got %f", dep, g)
		}
	}
}

func TestReadiness_PostgresDown(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{err: errors.New("connection refused")}, &mockPinger{})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != "down" {
		t.Fatalf("expected postgres down, got %s", pg.Status)
	}
	if pg.Error == "" {
		t.Fatal("expected error message")
	}
	if result.Checks["redis"].Status != "up" {
		t.Fatal("expected redis up")
	}

	if g := testGauge(t, reg, "auth_health_check_up", "postgres"); g != 0 {
		t.Fatalf("expected gauge 0, got %f", g)
	}
}

func TestReadiness_RedisDown(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{}, &mockPinger{err: errors.New("connection refused")})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["redis"].Status != "down" {
		t.Fatal("expected redis down")
	}
	if result.Checks["postgres"].Status != "up" {
		t.Fatal("expected postgres up")
	}

	if g := testGauge(t, reg, "auth_health_check_up", "redis"); g != 0 {
		t.Fatalf("expected gauge 0, got %f", g)
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "dependency" && label.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}
