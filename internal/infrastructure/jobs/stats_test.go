package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) Count(context.Context) (int64, error) {
	return s.n, s.err
}

func newGauge() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_accounts"})
}

func TestRefreshGauge(t *testing.T) {
	g := newGauge()
	if err := RefreshGauge(context.Background(), stubCounter{n: 7}, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(g); got != 7 {
		t.Fatalf("expected gauge 7, got %v", got)
	}
}

func TestRefreshGauge_ErrorKeepsLastValue(t *testing.T) {
	g := newGauge()
	g.Set(3)
	err := RefreshGauge(context.Background(), stubCounter{err: errors.New("down")}, g)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := testutil.ToFloat64(g); got != 3 {
		t.Fatalf("expected gauge to keep 3, got %v", got)
	}
}

func TestScheduler_ScheduleGaugeRefresh(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	if err := s.ScheduleGaugeRefresh("", stubCounter{}, newGauge(), 0); err != nil {
		t.Fatalf("empty spec must disable the job, got %v", err)
	}
	if err := s.ScheduleGaugeRefresh("off", stubCounter{}, newGauge(), 0); err != nil {
		t.Fatalf("off must disable the job, got %v", err)
	}
	if len(s.cron.Entries()) != 0 {
		t.Fatalf("expected no entries, got %d", len(s.cron.Entries()))
	}

	if err := s.ScheduleGaugeRefresh("not a schedule", stubCounter{}, newGauge(), 0); err == nil {
		t.Fatal("expected error for invalid spec")
	}

	if err := s.ScheduleGaugeRefresh("@every 1m", stubCounter{}, newGauge(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.cron.Entries()))
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestCronLogger_RecoveredPanicIsZerologError(t *testing.T) {
	var buf bytes.Buffer
	cl := cronLogger{log: zerolog.New(&buf).With().Str("component", "cron").Logger()}

	cron.Recover(cl)(cron.FuncJob(func() { panic("boom") })).Run()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" || entry["message"] != "panic" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["error"] != "boom" || entry["component"] != "cron" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["stack"]; !ok {
		t.Error("expected stack field")
	}
}

func TestCronLogger_InfoIsDebug(t *testing.T) {
	var buf bytes.Buffer
	cl := cronLogger{log: zerolog.New(&buf).Level(zerolog.InfoLevel)}

	cl.Info("skip", "entry", 1)
	if buf.Len() != 0 {
		t.Fatalf("scheduling chatter logged above debug: %q", buf.String())
	}
}
