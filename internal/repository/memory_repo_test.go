package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/altaimate/internal/model"
)

func TestMemoryProjectRecordRepo_ImplementsInterface(t *testing.T) {
	var _ ProjectRecordRepository = (*MemoryProjectRecordRepo)(nil)
}

func TestStaticServerRecordRepo_ImplementsInterface(t *testing.T) {
	var _ ServerRecordRepository = (*StaticServerRecordRepo)(nil)
}

func TestMemoryProjectRecordRepo_ListReturnsSeedThenCreated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRecordRepo(SeedProjectRecords())

	rec := &model.ProjectRecord{ID: "abc", Name: "New", ProjectType: "web", Status: model.ProjectStatusCreated, CreatedAt: time.Now()}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	if list[0].Name != "Sample Web App" || list[1].Name != "Mobile App Demo" || list[2].ID != "abc" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestMemoryProjectRecordRepo_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRecordRepo(SeedProjectRecords())

	got, err := repo.FindByID(ctx, "2")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Status != "In Development" {
		t.Errorf("FindByID(2) = %+v", got)
	}

	missing, err := repo.FindByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("FindByID(nope) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestMemoryProjectRecordRepo_SeedIsCopied(t *testing.T) {
	seed := SeedProjectRecords()
	repo := NewMemoryProjectRecordRepo(seed)
	seed[0].Name = "mutated"

	list, _ := repo.List(context.Background())
	if list[0].Name != "Sample Web App" {
		t.Error("expected repo to be independent of the seed slice")
	}
}

func TestMemoryProjectRecordRepo_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRecordRepo(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo.Create(ctx, &model.ProjectRecord{ID: fmt.Sprintf("p%d", i)})
		}(i)
	}
	wg.Wait()

	list, _ := repo.List(ctx)
	if len(list) != 50 {
		t.Errorf("len(list) = %d, want 50", len(list))
	}
}

func TestStaticServerRecordRepo_List(t *testing.T) {
	repo := NewStaticServerRecordRepo(SeedServerRecords())

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].Provider != "AWS" || list[1].Status != "Provisioning" {
		t.Errorf("unexpected servers: %+v", list)
	}
}
