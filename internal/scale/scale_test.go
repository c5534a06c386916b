package scale

import "testing"

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 18 {
		t.Fatalf("expected 18 scales, got %d", len(names))
	}
	if names[0] != Default {
		t.Errorf("first scale = %q, want %q", names[0], Default)
	}
	for _, n := range names {
		s, err := Get(n)
		if err != nil {
			t.Fatalf("Get(%q): %v", n, err)
		}
		if len(s.Notes) < 15 {
			t.Errorf("%s has only %d notes", n, len(s.Notes))
		}
	}
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		planet   bool
		hasMoons bool
		scale    string
		want     float64
	}{
		{"planet with moons", 20, true, true, "C Major", 247},
		{"planet alone", 20, true, false, "C Major", 392},
		{"huge planet clamps low", 60, true, true, "C Major", 131},
		{"moon", 5, false, false, "C Major", 659},
		{"tiny moon", 0, false, false, "C Major", 987},
		{"pentatonic planet", 50, true, true, "C Pentatonic Major", 131},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Frequency(tt.size, tt.planet, tt.hasMoons, tt.scale)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Frequency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratorFrequency(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		planet   bool
		hasMoons bool
		scale    string
		want     float64
	}{
		{"largest planet", 50, true, true, "C Major", 131},
		{"smallest planet", 20, true, true, "C Major", 523},
		{"smallest planet alone", 20, true, false, "C Major", 987},
		{"mid planet alone", 35, true, false, "C Major", 523},
		{"largest moon", 15, false, true, "C Major", 523},
		{"smallest moon", 1, false, true, "C Major", 987},
		{"short table", 1, false, true, "C Pentatonic Major", 880},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GeneratorFrequency(tt.size, tt.planet, tt.hasMoons, tt.scale)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("GeneratorFrequency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnknownScale(t *testing.T) {
	if _, err := Frequency(20, true, false, "H Major"); err == nil {
		t.Error("expected error for unknown scale")
	}
	if _, err := GeneratorFrequency(20, true, false, ""); err == nil {
		t.Error("expected error for empty scale")
	}
	if _, _, err := Range("nope"); err == nil {
		t.Error("expected error from Range")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"C Dorian", "C Dorian", true},
		{"dorian", "C Dorian", true},
		{"  c   whole tone ", "C Whole Tone", true},
		{"bebop major", "C Bebop Major", true},
		{"klezmer", "", false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRange(t *testing.T) {
	lo, hi, err := Range("C Blues")
	if err != nil {
		t.Fatal(err)
	}
	if lo != 131 || hi != 932 {
		t.Errorf("Range = %v..%v, want 131..932", lo, hi)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{-6, 3, -2},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
