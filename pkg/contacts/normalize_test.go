package contacts

import "testing"

func TestMatchEmail(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"plain address", "mike@rodriguezplumbing.com", "mike@rodriguezplumbing.com"},
		{"embedded in text", "Reach me at sarah.chen@chenconstruction.com anytime", "sarah.chen@chenconstruction.com"},
		{"with label", "Email: tom@buildco.net", "tom@buildco.net"},
		{"plus tag", "billing+invoices@acme.io", "billing+invoices@acme.io"},
		{"no address", "Rodriguez Plumbing LLC", ""},
		{"missing tld", "mike@rodriguez", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchEmail(tt.line); got != tt.want {
				t.Errorf("MatchEmail(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatchPhone(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"dashes", "555-123-4567", "555-123-4567"},
		{"parens", "(555) 123-4567", "(555) 123-4567"},
		{"dots", "555.123.4567", "555.123.4567"},
		{"country code", "+1 555 123 4567", "+1 555 123 4567"},
		{"embedded", "call 555-123-4567 after 5pm", "555-123-4567"},
		{"too few digits", "123-4567", ""},
		{"not a phone", "Suite 4567", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchPhone(tt.line); got != tt.want {
				t.Errorf("MatchPhone(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSamePhone(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "555-123-4567", "555-123-4567", true},
		{"different formatting", "(555) 123-4567", "555.123.4567", true},
		{"country code prefix", "+1-555-123-4567", "555-123-4567", false},
		{"different numbers", "555-123-4567", "555-765-4321", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SamePhone(tt.a, tt.b); got != tt.want {
				t.Errorf("SamePhone(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchWebsite(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"www.rodriguezplumbing.com", true},
		{"https://chenconstruction.com", true},
		{"rodriguezplumbing.com", true},
		{"mike@rodriguezplumbing.com", false},
		{"Rodriguez Plumbing", false},
		{"visit www.rodriguezplumbing.com today", false},
	}

	for _, tt := range tests {
		if got := MatchWebsite(tt.line); got != tt.want {
			t.Errorf("MatchWebsite(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHasBusinessMarker(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Rodriguez Plumbing LLC", true},
		{"BuildRight Inc", true},
		{"Chen Construction Co.", true},
		{"Valley Concrete Services", true},
		{"ACME Supply Company", true},
		{"Mike Rodriguez", false},
		{"collc street", false},
	}

	for _, tt := range tests {
		if got := HasBusinessMarker(tt.line); got != tt.want {
			t.Errorf("HasBusinessMarker(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestLooksLikePersonName(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Mike Rodriguez", true},
		{"Sarah Chen", true},
		{"Jean-Paul O'Brien", true},
		{"Mary Anne van der Berg", false}, // five words
		{"555-123-4567", false},
		{"123 Main Street", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikePersonName(tt.line); got != tt.want {
			t.Errorf("LooksLikePersonName(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "Mike Rodriguez", "Mike Rodriguez"},
		{"last comma first", "Rodriguez, Mike", "Mike Rodriguez"},
		{"lowercase", "mike rodriguez", "Mike Rodriguez"},
		{"extra whitespace", "  Mike   Rodriguez  ", "Mike Rodriguez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDisplayName(tt.in); got != tt.want {
				t.Errorf("NormalizeDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Mike Rodriguez", "Mike Rodriguez", true},
		{"case insensitive", "mike rodriguez", "MIKE RODRIGUEZ", true},
		{"last comma first", "Rodriguez, Mike", "Mike Rodriguez", true},
		{"different people", "Mike Rodriguez", "Maria Rodriguez", false},
		{"empty side", "", "Mike Rodriguez", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameName(tt.a, tt.b); got != tt.want {
				t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \t b\n c  "); got != "a b c" {
		t.Errorf("CollapseWhitespace = %q, want %q", got, "a b c")
	}
	if got := CollapseWhitespace(""); got != "" {
		t.Errorf("CollapseWhitespace(\"\") = %q, want empty", got)
	}
}
