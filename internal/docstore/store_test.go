package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyderfleet/fleetops/internal/infrastructure/database"
	_ "github.com/hyderfleet/fleetops/migrations"
)

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type widget struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Active    bool   `json:"active"`
	Rank      int    `json:"rank"`
	Where     point  `json:"where"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt string `json:"created_at"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "docs.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return New(db)
}

func seedWidgets(t *testing.T, c *Collection) {
	t.Helper()
	docs := []any{
		widget{ID: "w1", Name: "alpha", Status: "idle", Active: true, Rank: 3, CreatedAt: "2026-01-01T10:00:00Z"},
		widget{ID: "w2", Name: "beta", Status: "busy", Active: false, Rank: 1, CreatedAt: "2026-01-03T10:00:00Z"},
		widget{ID: "w3", Name: "gamma", Status: "idle", Active: false, Rank: 2, CreatedAt: "2026-01-02T10:00:00Z"},
	}
	if err := c.InsertMany(context.Background(), docs); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}
}

func TestFind_FilterSortLimit(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	seedWidgets(t, c)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		opts   FindOptions
		want   []string
	}{
		{name: "all in insertion order", want: []string{"w1", "w2", "w3"}},
		{name: "equality", filter: Filter{Eq("status", "idle")}, want: []string{"w1", "w3"}},
		{name: "two conditions", filter: Filter{Eq("status", "idle"), Eq("name", "gamma")}, want: []string{"w3"}},
		{name: "boolean true", filter: Filter{Eq("active", true)}, want: []string{"w1"}},
		{name: "boolean false", filter: Filter{Eq("active", false)}, want: []string{"w2", "w3"}},
		{name: "gte on timestamp", filter: Filter{Gte("created_at", "2026-01-02T00:00:00Z")}, want: []string{"w2", "w3"}},
		{name: "sort desc", opts: FindOptions{Sort: []Sort{{Field: "created_at", Desc: true}}}, want: []string{"w2", "w3", "w1"}},
		{name: "sort asc with limit", opts: FindOptions{Sort: []Sort{{Field: "rank"}}, Limit: 2}, want: []string{"w2", "w3"}},
		{name: "no match", filter: Filter{Eq("status", "gone")}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []widget
			if err := c.Find(ctx, tt.filter, tt.opts, &got); err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if got == nil {
				t.Fatal("Find() left result nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Find() returned %d docs, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFind_IsolatesCollections(t *testing.T) {
	s := openTestStore(t)
	seedWidgets(t, s.Collection("widgets"))

	var got []widget
	if err := s.Collection("gadgets").Find(context.Background(), nil, FindOptions{}, &got); err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("gadgets returned %d docs, want 0", len(got))
	}
}

func TestFindOne(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	ctx := context.Background()

	if err := c.InsertOne(ctx, widget{ID: "w1", Name: "alpha", Secret: "hidden", Where: point{Lat: 17.4, Lng: 78.4}}); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	var w widget
	if err := c.FindOne(ctx, Filter{Eq("id", "w1")}, &w); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if w.Secret != "hidden" || w.Where.Lat != 17.4 {
		t.Errorf("FindOne() = %+v", w)
	}

	t.Run("nested field", func(t *testing.T) {
		var n widget
		if err := c.FindOne(ctx, Filter{Eq("where.lng", 78.4)}, &n); err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
	})

	t.Run("projection removes field", func(t *testing.T) {
		var p widget
		if err := c.FindOneWithOptions(ctx, Filter{Eq("id", "w1")}, FindOptions{Projection: []string{"secret"}}, &p); err != nil {
			t.Fatalf("FindOneWithOptions() error = %v", err)
		}
		if p.Secret != "" {
			t.Errorf("Secret = %q, want projected out", p.Secret)
		}
	})

	t.Run("not found", func(t *testing.T) {
		var none widget
		if err := c.FindOne(ctx, Filter{Eq("id", "nope")}, &none); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindOne() error = %v, want ErrNotFound", err)
		}
	})
}

func TestInsertOne_Errors(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	ctx := context.Background()

	if err := c.InsertOne(ctx, widget{ID: "w1"}); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}
	if err := c.InsertOne(ctx, widget{ID: "w1"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate id error = %v, want ErrDuplicate", err)
	}
	if err := c.InsertOne(ctx, widget{}); !errors.Is(err, ErrMissingID) {
		t.Errorf("missing id error = %v, want ErrMissingID", err)
	}
	if err := c.InsertOne(ctx, []int{1}); !errors.Is(err, ErrMissingID) {
		t.Errorf("non-object error = %v, want ErrMissingID", err)
	}
}

func TestInsertOne_UniqueUsername(t *testing.T) {
	users := openTestStore(t).Collection("users")
	ctx := context.Background()

	type user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := users.InsertOne(ctx, user{ID: "u1", Username: "admin"}); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}
	if err := users.InsertOne(ctx, user{ID: "u2", Username: "admin"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username error = %v, want ErrDuplicate", err)
	}
}

func TestInsertMany_Atomic(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	ctx := context.Background()

	err := c.InsertMany(ctx, []any{widget{ID: "a"}, widget{ID: "b"}, widget{ID: "a"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("InsertMany() error = %v, want ErrDuplicate", err)
	}
	n, err := c.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after failed batch, want 0", n)
	}
}

func TestUpdateOne(t *testing.T) {
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	c := s.Collection("widgets")
	seedWidgets(t, c)
	ctx := context.Background()

	matched, err := c.UpdateOne(ctx, "w2", Set{"active": true, "where": point{Lat: 1, Lng: 2}, "name": "beta-2"})
	if err != nil {
		t.Fatalf("UpdateOne() error = %v", err)
	}
	if !matched {
		t.Fatal("UpdateOne() matched = false, want true")
	}

	var w widget
	if err := c.FindOne(ctx, Filter{Eq("id", "w2")}, &w); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if !w.Active || w.Name != "beta-2" || w.Where.Lng != 2 {
		t.Errorf("after update = %+v", w)
	}
	// Untouched fields survive a partial set
	if w.Status != "busy" || w.Rank != 1 {
		t.Errorf("partial set clobbered fields: %+v", w)
	}

	matched, err = c.UpdateOne(ctx, "missing", Set{"name": "x"})
	if err != nil {
		t.Fatalf("UpdateOne(missing) error = %v", err)
	}
	if matched {
		t.Error("UpdateOne(missing) matched = true, want false")
	}
}

func TestCount(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	seedWidgets(t, c)

	n, err := c.Count(context.Background(), Filter{Eq("status", "idle")})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestInvalidFieldRejected(t *testing.T) {
	c := openTestStore(t).Collection("widgets")
	ctx := context.Background()

	var got []widget
	err := c.Find(ctx, Filter{Eq("name') OR 1=1 --", "x")}, FindOptions{}, &got)
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("Find() error = %v, want ErrInvalidField", err)
	}
	if _, err := c.UpdateOne(ctx, "w1", Set{"$bad": 1}); !errors.Is(err, ErrInvalidField) {
		t.Errorf("UpdateOne() error = %v, want ErrInvalidField", err)
	}
}
