package matrix

import (
	"slices"
	"testing"
)

func TestGet(t *testing.T) {
	m := New[string, string, string]()
	m.Set("a", "b", "hello")
	m.Set("a", "c", "world")

	tests := []struct {
		name   string
		r, c   string
		want   string
		wantOK bool
	}{
		{"existing", "a", "b", "hello", true},
		{"second column", "a", "c", "world", true},
		{"missing column", "a", "z", "", false},
		{"missing row", "z", "b", "", false},
		{"reverse not implied", "b", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Get(tt.r, tt.c)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q, %q) = %q, %v, want %q, %v", tt.r, tt.c, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	m := New[string, string, int]()
	m.Set("a", "x", 1)
	m.Set("a", "y", 2)
	m.Set("a", "x", 3)

	if got := m.Row("a"); !slices.Equal(got, []int{3, 2}) {
		t.Errorf("Row(a) = %v, want [3 2]", got)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestRow(t *testing.T) {
	m := New[string, string, string]()

	if got := m.Row("a"); got == nil || len(got) != 0 {
		t.Errorf("Row on unknown row = %#v, want empty non-nil slice", got)
	}

	m.Set("a", "b", "hello")
	m.Set("a", "c", "world")
	if got := m.Row("a"); !slices.Equal(got, []string{"hello", "world"}) {
		t.Errorf("Row(a) = %v, want [hello world]", got)
	}
	if got := m.Columns("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Columns(a) = %v, want [b c]", got)
	}
}

func TestDelete(t *testing.T) {
	m := New[string, string, int]()
	m.Set("a", "b", 1)
	m.Set("a", "c", 2)
	m.Set("a", "d", 3)

	m.Delete("a", "c")
	if got := m.Row("a"); !slices.Equal(got, []int{1, 3}) {
		t.Fatalf("Row(a) after delete = %v, want [1 3]", got)
	}
	if v, ok := m.Get("a", "d"); !ok || v != 3 {
		t.Errorf("Get(a, d) = %d, %v, want 3, true", v, ok)
	}

	m.Delete("a", "missing")
	m.Delete("missing", "b")

	m.Delete("a", "b")
	m.Delete("a", "d")
	if m.HasRow("a") {
		t.Error("row a should be removed once empty")
	}
	if got := m.Row("a"); len(got) != 0 {
		t.Errorf("Row(a) = %v, want []", got)
	}
	if got := m.RowCount(); got != 0 {
		t.Errorf("RowCount() = %d, want 0", got)
	}
}

func TestDeleteRow(t *testing.T) {
	m := New[string, string, int]()
	m.Set("a", "b", 1)
	m.Set("b", "a", 2)
	m.Set("c", "a", 3)

	m.DeleteRow("b")
	if got := m.Rows(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Rows() = %v, want [a c]", got)
	}
	if got := m.Values(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Values() = %v, want [1 3]", got)
	}
}

func TestEachInRow(t *testing.T) {
	m := New[int, int, string]()
	m.Set(1, 3, "c")
	m.Set(1, 1, "a")
	m.Set(1, 2, "b")

	var cols []int
	var vals []string
	m.EachInRow(1, func(c int, v string) {
		cols = append(cols, c)
		vals = append(vals, v)
	})
	if !slices.Equal(cols, []int{3, 1, 2}) || !slices.Equal(vals, []string{"c", "a", "b"}) {
		t.Errorf("EachInRow visited %v %v, want [3 1 2] [c a b]", cols, vals)
	}

	called := false
	m.EachInRow(9, func(int, string) { called = true })
	if called {
		t.Error("EachInRow on unknown row should not call fn")
	}
}

func TestSetGetProperty(t *testing.T) {
	m := New[int, int, int]()
	for r := 0; r < 20; r++ {
		for c := 0; c < 20; c++ {
			m.Set(r, c, r*100+c)
		}
	}
	for r := 0; r < 20; r++ {
		for c := 0; c < 20; c++ {
			if v, ok := m.Get(r, c); !ok || v != r*100+c {
				t.Fatalf("Get(%d, %d) = %d, %v, want %d, true", r, c, v, ok, r*100+c)
			}
		}
	}
	if got := m.Len(); got != 400 {
		t.Errorf("Len() = %d, want 400", got)
	}
}
