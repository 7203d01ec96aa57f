package health

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("engine", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "1 + 1 = 2"}
	})

	if checker.Name() != "engine" {
		t.Errorf("Name() = %v, want engine", checker.Name())
	}
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "1 + 1 = 2" {
		t.Errorf("Check() = %+v", result)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"empty", map[string]Status{}, StatusHealthy},
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
		{"empty status counts as healthy", map[string]Status{"a": ""}, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("mlox-test", "1.0.0")
			for name, status := range tt.statuses {
				status := status
				registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks = %d, want %d", len(report.Checks), len(tt.statuses))
			}
			if report.Healthy() != (tt.want != StatusUnhealthy) {
				t.Errorf("Healthy() = %v", report.Healthy())
			}
		})
	}
}

func TestRegistry_ResultsSortedAndNamed(t *testing.T) {
	registry := NewRegistry("mlox-test", "1.0.0")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
			return CheckResult{}
		})
	}

	report := registry.Check(context.Background())
	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "alpha,mid,zeta" {
		t.Errorf("check order = %v", names)
	}
	if report.Service != "mlox-test" || report.Version != "1.0.0" {
		t.Errorf("report = %+v", report)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("mlox-test", "1.0.0")
	registry.RegisterFunc("temp", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.Unregister("temp")

	report := registry.Check(context.Background())
	if len(report.Checks) != 0 || report.Status != StatusHealthy {
		t.Errorf("report after unregister = %+v", report)
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("mlox-test", "1.0.0")
	var counter int32

	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(20 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := registry.Check(context.Background())
	duration := time.Since(start)

	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("counter = %d, want 5", counter)
	}
	if duration > 90*time.Millisecond {
		t.Errorf("duration = %v, checks should run concurrently", duration)
	}
	for _, c := range report.Checks {
		if c.Duration < 20*time.Millisecond {
			t.Errorf("%s duration = %v", c.Name, c.Duration)
		}
	}
}

func TestRegistry_CheckWithTimeout(t *testing.T) {
	registry := NewRegistry("mlox-test", "1.0.0")
	registry.RegisterFunc("slow", func(ctx context.Context) CheckResult {
		select {
		case <-ctx.Done():
			return CheckResult{Status: StatusUnhealthy, Message: ctx.Err().Error()}
		case <-time.After(5 * time.Second):
			return CheckResult{Status: StatusHealthy}
		}
	})

	report := registry.CheckWithTimeout(context.Background(), 20*time.Millisecond)
	if report.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Status)
	}
}

func TestTCPCheck(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	address := listener.Addr().String()

	checker := TCPCheck("grpc", address, time.Second)
	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Details["address"] != address {
		t.Errorf("open listener: %+v", result)
	}

	listener.Close()
	result = checker.Check(context.Background())
	if result.Status != StatusUnhealthy || result.Message == "" {
		t.Errorf("closed listener: %+v", result)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "mlox", Status: StatusDegraded, Uptime: "1h0m0s", Checks: []CheckResult{{}, {}}}
	want := "Service: mlox, Status: degraded, Uptime: 1h0m0s, Checks: 2"
	if report.String() != want {
		t.Errorf("String() = %q, want %q", report.String(), want)
	}
}
