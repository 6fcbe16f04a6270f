package scheduler_test

import (
	"context"
	"testing"

	"github.com/firehallhq/cadintel/internal/logger"
	"github.com/firehallhq/cadintel/internal/scheduler"
)

type noopRetrainer struct{}

func (noopRetrainer) MaybeRetrain(context.Context) error { return nil }

func TestNew(t *testing.T) {
	s, err := scheduler.New("0 3 * * *", noopRetrainer{}, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	s.Stop()
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := scheduler.New("not a cron spec", noopRetrainer{}, logger.NewNop()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}
