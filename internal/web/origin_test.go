package web

import "testing"

func TestAPIBase(t *testing.T) {
	tests := []struct {
		origin  string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:5000", "http://127.0.0.1:5000/api", false},
		{"https://tasks.example.com/", "https://tasks.example.com/api", false},
		{" http://localhost:8080 ", "http://localhost:8080/api", false},
		{"null", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := APIBase(tt.origin)
		if (err != nil) != tt.wantErr {
			t.Errorf("APIBase(%q) error = %v, wantErr %v", tt.origin, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("APIBase(%q) = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
