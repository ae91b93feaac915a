package object

import (
	"testing"
	"time"
)

func TestPoolWrapsAtCapacity(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		p := NewPool[Actor](n, nil)
		for i := 0; i < n; i++ {
			if got := p.Next(); got != i {
				t.Fatalf("cap %d: call %d returned %d", n, i, got)
			}
		}
		if got := p.Next(); got != 0 {
			t.Fatalf("cap %d: call %d returned %d, want 0", n, n, got)
		}
		if c := p.Cursor(); c < 0 || c >= p.Len() {
			t.Fatalf("cap %d: cursor %d out of range", n, c)
		}
	}
}

func TestPoolMinimumCapacity(t *testing.T) {
	p := NewPool[Actor](0, nil)
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
	if p.Next() != 0 || p.Next() != 0 {
		t.Fatal("single slot pool must always return 0")
	}
}

func TestPoolInitAndAcquire(t *testing.T) {
	p := NewPool(3, func(a *Actor) {
		a.Kind = KindProjectile
		a.Size = Vec{X: 4, Y: 1}
	})

	seen := 0
	p.Each(func(i int, a *Actor) {
		if a.Kind != KindProjectile || a.Size.X != 4 {
			t.Errorf("slot %d not initialised: %+v", i, a)
		}
		seen++
	})
	if seen != 3 {
		t.Fatalf("Each visited %d slots", seen)
	}

	i, a := p.Acquire()
	a.Active = true
	if !p.Slot(i).Active {
		t.Fatal("Acquire must return a pointer into the pool")
	}
}

func TestPoolRewind(t *testing.T) {
	p := NewPool[Actor](4, nil)
	p.Next()
	p.Next()
	p.Rewind()
	if p.Next() != 0 {
		t.Fatal("Rewind should reset cursor to 0")
	}
}

func TestPoolReset(t *testing.T) {
	p := NewPool[Actor](3, nil)
	for range 3 {
		_, a := p.Acquire()
		a.Launch(NewTrajectory(Vec{}, Vec{X: 10}, time.Unix(0, 0), time.Second))
	}
	p.Next()

	p.Reset(func(a *Actor) { a.Deactivate() })

	if p.Cursor() != 0 {
		t.Fatalf("cursor = %d after Reset", p.Cursor())
	}
	p.Each(func(i int, a *Actor) {
		if a.Active || a.Path.IsSet() {
			t.Errorf("slot %d still live after Reset: %+v", i, a)
		}
	})
}
