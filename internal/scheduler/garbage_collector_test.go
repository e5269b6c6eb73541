package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/logger"
)

func deletedAt(ts time.Time) *time.Time { return &ts }

func TestGarbageCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	memIndex := index.NewMemoryIndex()

	now := time.Now()
	links := []*domain.Link{
		{
			Metadata: domain.Metadata{Name: "active"},
			Spec:     domain.LinkSpec{URL: "https://active.example.com", DisplayName: "Active"},
		},
		{
			Metadata: domain.Metadata{
				Name:              "recently-deleted",
				DeletionTimestamp: deletedAt(now.Add(-10 * 24 * time.Hour)), // Deleted 10 days ago
			},
			Spec: domain.LinkSpec{URL: "https://recent.example.com", DisplayName: "Recent"},
		},
		{
			Metadata: domain.Metadata{
				Name:              "old-deleted",
				DeletionTimestamp: deletedAt(now.Add(-35 * 24 * time.Hour)), // Deleted 35 days ago
			},
			Spec: domain.LinkSpec{URL: "https://old.example.com", DisplayName: "Old"},
		},
	}

	memIndex.Replace(nil, links)

	// Create GC with 30 day threshold
	gc := NewGarbageCollector(
		nil, // no Redis store for this test
		memIndex,
		log,
		24*time.Hour,
		30*24*time.Hour,
	)

	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	// Should have 2 links left (active + recently deleted)
	if n, _ := memIndex.Count(); n != 2 {
		t.Errorf("Expected 2 links after GC, got %d", n)
	}

	if _, err := memIndex.FetchLink(context.Background(), "active"); err != nil {
		t.Error("Active link was incorrectly removed")
	}

	if _, err := memIndex.FetchLink(context.Background(), "recently-deleted"); err != nil {
		t.Error("Recently deleted link was incorrectly removed")
	}

	if _, err := memIndex.FetchLink(context.Background(), "old-deleted"); err == nil {
		t.Error("Old deleted link was not removed")
	}
}

func TestGarbageCollector_DefaultThreshold(t *testing.T) {
	gc := NewGarbageCollector(nil, index.NewMemoryIndex(), logger.New("error", false), time.Hour, 0)
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want %v", gc.threshold, DefaultGCThreshold)
	}
}
