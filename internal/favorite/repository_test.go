package favorite

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/db"
	"github.com/evcraddock/litetravel/internal/geo"
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

func input(name string, typ trip.NodeType) Input {
	return Input{Type: typ, Name: name, Location: geo.Location{Lat: 28.2, Lng: 112.9}}
}

func TestAddAndList(t *testing.T) {
	repo, alice, _ := testRepo(t)

	addr := "岳麓区"
	in := input("岳麓山", trip.NodeSpot)
	in.Address = &addr
	f, err := repo.Add(alice, in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if f.ID == "" || f.UserID != alice {
		t.Errorf("favorite = %+v", f)
	}
	if f.Address == nil || *f.Address != addr {
		t.Errorf("address = %v", f.Address)
	}
	if f.Location.Lat != 28.2 {
		t.Errorf("lat = %f", f.Location.Lat)
	}

	if _, err := repo.Add(alice, input("坡子街", trip.NodeDining)); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := repo.List(alice, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Name != "坡子街" {
		t.Errorf("list = %+v, want newest first", all)
	}

	dining, err := repo.List(alice, trip.NodeDining)
	if err != nil {
		t.Fatalf("list dining: %v", err)
	}
	if len(dining) != 1 || dining[0].Type != trip.NodeDining {
		t.Errorf("dining = %+v", dining)
	}
}

func TestListUnknownType(t *testing.T) {
	repo, alice, _ := testRepo(t)
	if _, err := repo.List(alice, "museum"); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	repo, alice, bob := testRepo(t)

	if _, err := repo.Add(alice, input("橘子洲", trip.NodeSpot)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.Add(alice, input("橘子洲", trip.NodeSpot)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	if _, err := repo.Add(alice, input("橘子洲", trip.NodeHotel)); err != nil {
		t.Errorf("same name, other type: %v", err)
	}
	if _, err := repo.Add(bob, input("橘子洲", trip.NodeSpot)); err != nil {
		t.Errorf("same name, other user: %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	repo, alice, _ := testRepo(t)

	longAddr := strings.Repeat("a", 501)
	withAddr := input("x", trip.NodeSpot)
	withAddr.Address = &longAddr

	tests := []struct {
		name string
		in   Input
	}{
		{"unknown type", input("x", "museum")},
		{"empty name", input("", trip.NodeSpot)},
		{"long name", input(strings.Repeat("n", 256), trip.NodeSpot)},
		{"long address", withAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Add(alice, tt.in); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestGrouped(t *testing.T) {
	repo, alice, _ := testRepo(t)

	for _, in := range []Input{
		input("a", trip.NodeSpot),
		input("b", trip.NodeSpot),
		input("c", trip.NodeHotel),
	} {
		if _, err := repo.Add(alice, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	g, err := repo.Grouped(alice)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(g.Spot) != 2 || len(g.Hotel) != 1 {
		t.Errorf("grouped = %d spot, %d hotel", len(g.Spot), len(g.Hotel))
	}
	if g.Dining == nil || len(g.Dining) != 0 {
		t.Errorf("dining = %v, want empty non-nil", g.Dining)
	}
}

func TestDelete(t *testing.T) {
	repo, alice, bob := testRepo(t)

	f, err := repo.Add(alice, input("x", trip.NodeSpot))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Delete(bob, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete as other user: err = %v", err)
	}
	if err := repo.Delete(alice, f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(alice, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestTripItem(t *testing.T) {
	addr := "somewhere"
	f := &Favorite{ID: "f1", Name: "n", Type: trip.NodeHotel, Address: &addr}
	item := f.TripItem()
	if item.ID != "f1" || item.Address != "somewhere" || item.Type != trip.NodeHotel {
		t.Errorf("item = %+v", item)
	}
}
