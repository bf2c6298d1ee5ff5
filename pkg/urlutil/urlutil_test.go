package urlutil

import "testing"

func TestScheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://cdnapisec.vidiun.com", "https"},
		{"http://cdn.example.com", "http"},
		{"HTTP://cdn.example.com", "http"},
		{"cdn.example.com", "https"},
		{"", "https"},
		{"://bad", "https"},
	}
	for _, tt := range tests {
		if got := Scheme(tt.in); got != tt.want {
			t.Errorf("Scheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"no segments", "https://a.com/", nil, "https://a.com"},
		{"plain", "https://a.com", []string{"p", "1"}, "https://a.com/p/1"},
		{"slashes trimmed", "https://a.com/api_v3/", []string{"/service/", "multirequest"}, "https://a.com/api_v3/service/multirequest"},
		{"empty segment skipped", "https://a.com", []string{"", "x"}, "https://a.com/x"},
		{"encoding preserved", "https://a.com", []string{"a%2Cb(1)"}, "https://a.com/a%2Cb(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinPath(tt.base, tt.segments...); got != tt.want {
				t.Errorf("JoinPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyHostRegex(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		pattern     string
		replacement string
		want        string
		wantErr     bool
	}{
		{
			name:        "replaces host",
			url:         "https://cdnapisec.vidiun.com/p/1/sp/100/playManifest/a.m3u8",
			pattern:     "^https://cdnapisec.vidiun.com/",
			replacement: "https://edge.example.com",
			want:        "https://edge.example.com/p/1/sp/100/playManifest/a.m3u8",
		},
		{
			name:        "case insensitive",
			url:         "https://CDNAPISEC.vidiun.com/p/1",
			pattern:     "^https://cdnapisec.vidiun.com/",
			replacement: "https://edge.example.com",
			want:        "https://edge.example.com/p/1",
		},
		{
			name:        "first match only",
			url:         "https://a.com/a.com/x",
			pattern:     "a.com/",
			replacement: "b.com",
			want:        "https://b.com/a.com/x",
		},
		{
			name:        "no match unchanged",
			url:         "https://other.com/x",
			pattern:     "^https://cdn.com/",
			replacement: "https://edge.com",
			want:        "https://other.com/x",
		},
		{
			name:    "invalid pattern",
			url:     "https://a.com/x",
			pattern: "(",
			want:    "https://a.com/x",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyHostRegex(tt.url, tt.pattern, tt.replacement)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ApplyHostRegex() = %q, want %q", got, tt.want)
			}
		})
	}
}
