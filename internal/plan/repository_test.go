package plan

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/db"
	"github.com/evcraddock/litetravel/internal/trip"
)

func testRepo(t *testing.T) (*Repository, string, string) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	users := auth.NewUserStore(d)
	alice, err := users.Register("alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	bob, err := users.Register("bob@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return NewRepository(d), alice.ID, bob.ID
}

func demo() trip.Content {
	return trip.DemoContent(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestCreateAndGet(t *testing.T) {
	repo, alice, _ := testRepo(t)

	desc := "weekend"
	p, err := repo.Create(alice, Input{Title: "Changsha", Description: &desc, Content: demo()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Error("expected id")
	}
	if p.UserID != alice {
		t.Errorf("user_id = %q", p.UserID)
	}

	got, err := repo.Get(alice, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Changsha" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description == nil || *got.Description != "weekend" {
		t.Errorf("description = %v", got.Description)
	}
	if len(got.Content.Days) != 2 || len(got.Content.Days[0].Nodes) != 2 {
		t.Errorf("content not round-tripped: %+v", got.Content)
	}
	if got.Content.Days[0].Nodes[1].ID != "dining-pozi" {
		t.Errorf("node order changed: %+v", got.Content.Days[0].Nodes)
	}
}

func TestCreateNormalizesEmptyDays(t *testing.T) {
	repo, alice, _ := testRepo(t)

	p, err := repo.Create(alice, Input{Title: "Empty", Content: trip.Content{Meta: trip.TripMeta{City: "Beijing"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(p.Content.Days) != 1 || p.Content.Days[0].DayIndex != 1 {
		t.Errorf("days = %+v, want one empty day", p.Content.Days)
	}
	if p.Description != nil {
		t.Errorf("description = %v, want nil", p.Description)
	}
}

func TestCreateValidation(t *testing.T) {
	repo, alice, _ := testRepo(t)

	long := make([]rune, 256)
	for i := range long {
		long[i] = '长'
	}

	bad := demo()
	bad.Days[1].Nodes[0].ID = "spot-yuelu"

	tests := []struct {
		name string
		in   Input
	}{
		{"empty title", Input{Title: "", Content: demo()}},
		{"long title", Input{Title: string(long), Content: demo()}},
		{"duplicate node ids", Input{Title: "x", Content: bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Create(alice, tt.in); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestOwnerScoping(t *testing.T) {
	repo, alice, bob := testRepo(t)

	p, err := repo.Create(alice, Input{Title: "mine", Content: demo()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Get(bob, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get as other user: err = %v", err)
	}
	title := "stolen"
	if _, err := repo.Update(bob, p.ID, Update{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update as other user: err = %v", err)
	}
	if err := repo.Delete(bob, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete as other user: err = %v", err)
	}

	list, err := repo.List(bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("bob sees %d plans", len(list))
	}
}

func TestListSummariesNewestUpdatedFirst(t *testing.T) {
	repo, alice, _ := testRepo(t)

	first, err := repo.Create(alice, Input{Title: "first", Content: demo()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(alice, Input{Title: "second", Content: demo()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.List(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "second" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].City != "长沙" || list[0].DaysCount != 2 || list[0].Dates[0] != "2024-05-01" {
		t.Errorf("summary = %+v", list[0])
	}

	title := "first, renamed"
	if _, err := repo.Update(alice, first.ID, Update{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err = repo.List(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Title != "first, renamed" {
		t.Errorf("updated plan should sort first, got %q", list[0].Title)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo, alice, _ := testRepo(t)

	p, err := repo.Create(alice, Input{Title: "t", Content: demo()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c := demo()
	c.Days = c.Days[:1]
	desc := "one day only"
	got, err := repo.Update(alice, p.ID, Update{Description: &desc, Content: &c})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "t" {
		t.Errorf("title changed to %q", got.Title)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("description = %v", got.Description)
	}
	if len(got.Content.Days) != 1 {
		t.Errorf("days = %d, want 1", len(got.Content.Days))
	}
	if got.UpdatedAt.Before(p.UpdatedAt) {
		t.Error("updated_at went backwards")
	}

	empty := ""
	if _, err := repo.Update(alice, p.ID, Update{Title: &empty}); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty title: err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, alice, _ := testRepo(t)

	p, err := repo.Create(alice, Input{Title: "t", Content: demo()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(alice, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(alice, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(alice, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}
