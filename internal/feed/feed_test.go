package feed

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "A quiet day in 1905.", "A quiet day in 1905."},
		{"tags removed", "<p>The <b>Cullinan</b> diamond was found.</p>", "The Cullinan diamond was found."},
		{"nested markup", "<div><a href=\"x\">Read</a> more <i>here</i></div>", "Read more here"},
		{"whitespace collapsed", "  too   many\n\nspaces ", "too many spaces"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
