package utils

import "testing"

func TestPrintable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Buy milk", "Buy milk"},
		{"x\x1b]0;title\x07y", "x]0;titley"},
		{"\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"line\r\nnext\tcol", "line  next col"},
		{"del\x7fete\u0085", "delete"},
		{"🎉 ünïcode", "🎉 ünïcode"},
	}
	for _, tt := range tests {
		if got := Printable(tt.in); got != tt.want {
			t.Errorf("Printable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Buy milk", 20, "Buy milk"},
		{"Buy milk", 4, "Buy…"},
		{"héllo", 5, "héllo"},
		{"héllo", 3, "hé…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/total", "total"},
		{"#/tasks/0/title", "tasks[0].title"},
		{"/tasks/12", "tasks[12]"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.in); got != tt.want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
