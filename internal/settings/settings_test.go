package settings

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/polyorbit/internal/orbit"
)

func sampleDoc(elliptical bool) *Document {
	doc := &Document{
		Global: Global{
			NumberOfPlanets:    2,
			SpeedMultiplier:    1.5,
			EllipticalOrbits:   elliptical,
			SustainReleaseTime: Float(0.8),
		},
		Planets: []PlanetRecord{
			{
				Size: 30, Frequency: 261.63, Distance: 120, SoundFile: "samples/bell.wav",
				Moons: []MoonRecord{
					{Size: 8, Frequency: 523.25, Distance: 40},
					{Size: 5, Frequency: 659.25, Distance: 55},
				},
			},
			{Size: 45, Frequency: 130.81, Distance: 260},
		},
	}
	if elliptical {
		doc.Global.MaxEccentricity = Float(0.5)
		doc.Global.SelectedScale = "C Dorian"
		doc.Planets[0].Eccentricity, doc.Planets[0].OrbitAngle = 0.25, 1.5
		doc.Planets[0].Moons[0].Eccentricity, doc.Planets[0].Moons[0].OrbitAngle = 0.125, 3
		doc.Planets[1].Eccentricity = 0.4
	}
	return doc
}

func encode(t *testing.T, doc *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for _, elliptical := range []bool{false, true} {
		doc := sampleDoc(elliptical)
		first := encode(t, doc)

		decoded, err := Decode(bytes.NewReader(first))
		if err != nil {
			t.Fatalf("Decode(elliptical=%v): %v", elliptical, err)
		}
		second := encode(t, decoded)
		if !bytes.Equal(first, second) {
			t.Errorf("round trip changed output (elliptical=%v)\nfirst:\n%s\nsecond:\n%s", elliptical, first, second)
		}

		if decoded.BodyCount() != doc.BodyCount() {
			t.Errorf("body count = %d, want %d", decoded.BodyCount(), doc.BodyCount())
		}
		if got := decoded.Global.SustainRelease(); got != 0.8 {
			t.Errorf("sustain release = %v, want 0.8", got)
		}
		if decoded.Planets[0].SoundFile != "samples/bell.wav" {
			t.Errorf("sound file = %q", decoded.Planets[0].SoundFile)
		}
		if elliptical && decoded.Planets[0].Moons[0].Eccentricity != 0.125 {
			t.Errorf("moon eccentricity = %v, want 0.125", decoded.Planets[0].Moons[0].Eccentricity)
		}
	}
}

func TestEncodeFormat(t *testing.T) {
	out := string(encode(t, sampleDoc(true)))

	want := []string{
		"[Global]\nNumberOfPlanets=2\nSpeedMultiplier=1.5\nEllipticalOrbits=true\nSustainReleaseTime=0.8\n",
		"[Planet1]\nSize=30\nFrequency=261.63\nDistance=120\nNumberOfMoons=2\nSoundFile=samples/bell.wav\nEccentricity=0.2500\nOrbitAngle=1.5000\n",
		"[Planet1Moon2]\nSize=5\nFrequency=659.25\nDistance=55\nEccentricity=0.0000\nOrbitAngle=0.0000\n",
		"[Planet2]\nSize=45\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}

	circular := string(encode(t, sampleDoc(false)))
	for _, key := range []string{"Eccentricity", "OrbitAngle", "MaxEccentricity", "SelectedScale"} {
		if strings.Contains(circular, key) {
			t.Errorf("circular output should not contain %s", key)
		}
	}
}

func TestDecodeCircularIgnoresStrayKeys(t *testing.T) {
	src := `[Global]
NumberOfPlanets=1
SpeedMultiplier=1
EllipticalOrbits=false

[Planet1]
Size=20
Frequency=220
Distance=100
NumberOfMoons=1
Eccentricity=0.7
OrbitAngle=2.0

[Planet1Moon1]
Size=5
Frequency=440
Distance=30
Eccentricity=0.3
OrbitAngle=1.0
`
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sys, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < sys.Len(); i++ {
		b := sys.Body(i)
		if b.Eccentricity != 0 || b.OrbitAngle != 0 {
			t.Errorf("body %d: eccentricity=%v orbitAngle=%v, want 0", i, b.Eccentricity, b.OrbitAngle)
		}
	}
	if doc.Global.SustainRelease() != DefaultSustainRelease {
		t.Errorf("default sustain release not applied")
	}
}

func TestDecodeConfigparserOutput(t *testing.T) {
	src := `[Global]
numberofplanets = 1
speedmultiplier = 2.0
ellipticalorbits = True
sustainreleasetime = 0.7

[Planet1]
size = 30
frequency = 196.0
distance = 150
numberofmoons = 1
soundfile =
eccentricity = 0.2
orbitangle = 1.25

[Planet1Moon1]
size = 6
frequency = 587.0
distance = 45
eccentricity = 0.1
orbitangle = 0.5

`
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g := doc.Global
	if g.NumberOfPlanets != 1 || g.SpeedMultiplier != 2 || !g.EllipticalOrbits || g.SustainRelease() != 0.7 {
		t.Errorf("global = %+v", g)
	}
	p := doc.Planets[0]
	if p.Size != 30 || p.Distance != 150 || p.Eccentricity != 0.2 || p.OrbitAngle != 1.25 || p.SoundFile != "" {
		t.Errorf("planet = %+v", p)
	}
	if len(p.Moons) != 1 || p.Moons[0].Frequency != 587 || p.Moons[0].OrbitAngle != 0.5 {
		t.Errorf("moons = %+v", p.Moons)
	}
}

func TestSoundFileKeepsCommentCharacters(t *testing.T) {
	src := `[Global]
NumberOfPlanets=2
SpeedMultiplier=1
EllipticalOrbits=false

[Planet1]
Size=20
Frequency=220
Distance=100
NumberOfMoons=0
SoundFile=samples/kick;01.wav

[Planet2]
Size=20
Frequency=330
Distance=160
NumberOfMoons=0
SoundFile=samples/snare #2.wav
`
	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []string{"samples/kick;01.wav", "samples/snare #2.wav"}
	for i, w := range want {
		if got := doc.Planets[i].SoundFile; got != w {
			t.Errorf("planet %d sound = %q, want %q", i+1, got, w)
		}
	}

	out := encode(t, doc)
	if !bytes.Contains(out, []byte("SoundFile=samples/kick;01.wav\n")) {
		t.Errorf("sound file not written verbatim:\n%s", out)
	}
	again, err := Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Decode re-encoded: %v", err)
	}
	if !bytes.Equal(encode(t, again), out) {
		t.Error("round trip changed the document")
	}
}

func TestDecodeErrors(t *testing.T) {
	global := "[Global]\nNumberOfPlanets=1\nSpeedMultiplier=1\nEllipticalOrbits=false\n"
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no global", "[Planet1]\nSize=1\n", ErrMissing},
		{"missing speed", "[Global]\nNumberOfPlanets=0\nEllipticalOrbits=false\n", ErrMissing},
		{"bad bool", "[Global]\nNumberOfPlanets=0\nSpeedMultiplier=1\nEllipticalOrbits=maybe\n", ErrSyntax},
		{"missing planet", global, ErrMissing},
		{"non-numeric size", global + "[Planet1]\nSize=big\nFrequency=1\nDistance=1\nNumberOfMoons=0\n", ErrSyntax},
		{"missing moons", global + "[Planet1]\nSize=1\nFrequency=1\nDistance=1\n", ErrMissing},
		{"missing moon section", global + "[Planet1]\nSize=1\nFrequency=1\nDistance=1\nNumberOfMoons=1\n", ErrMissing},
		{"zero distance", global + "[Planet1]\nSize=1\nFrequency=1\nDistance=0\nNumberOfMoons=0\n", ErrInvalid},
		{"negative count", "[Global]\nNumberOfPlanets=-1\nSpeedMultiplier=1\nEllipticalOrbits=false\n", ErrInvalid},
		{"elliptical without keys", "[Global]\nNumberOfPlanets=1\nSpeedMultiplier=1\nEllipticalOrbits=true\n" +
			"[Planet1]\nSize=1\nFrequency=1\nDistance=1\nNumberOfMoons=0\n", ErrMissing},
		{"eccentricity one", "[Global]\nNumberOfPlanets=1\nSpeedMultiplier=1\nEllipticalOrbits=true\n" +
			"[Planet1]\nSize=1\nFrequency=1\nDistance=1\nNumberOfMoons=0\nEccentricity=1\nOrbitAngle=0\n", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	src := "[Global]\nNumberOfPlanets=1\nSpeedMultiplier=fast\nEllipticalOrbits=false\n"
	_, err := Decode(strings.NewReader(src))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Section != "Global" || pe.Key != "SpeedMultiplier" || pe.Value != "fast" {
		t.Errorf("unexpected location: %+v", pe)
	}
}

func TestValidateCountMismatch(t *testing.T) {
	doc := sampleDoc(false)
	doc.Global.NumberOfPlanets = 3

	var ve *ValidationError
	if err := doc.Validate(); !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, err := Build(doc); !errors.Is(err, ErrInvalid) {
		t.Errorf("Build should reject before constructing bodies, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	doc := sampleDoc(true)

	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BodyCount() != 5 {
		t.Errorf("body count = %d, want 5", loaded.BodyCount())
	}
	if loaded.Global.SelectedScale != "C Dorian" {
		t.Errorf("scale = %q", loaded.Global.SelectedScale)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuild(t *testing.T) {
	sys, err := Build(sampleDoc(true))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sys.Len() != 4 {
		t.Fatalf("len = %d, want 4", sys.Len())
	}

	planets := sys.Planets()
	if len(planets) != 2 || planets[0] != 0 || planets[1] != 3 {
		t.Fatalf("planets = %v", planets)
	}
	moons := sys.Moons(0)
	if len(moons) != 2 {
		t.Fatalf("moons = %v", moons)
	}
	m := sys.Body(moons[0])
	if m.Kind() != orbit.Moon || m.Radius != 40 || m.Eccentricity != 0.125 {
		t.Errorf("unexpected moon %+v", m)
	}
	for i := 0; i < sys.Len(); i++ {
		if sys.Body(i).Angle != 0 {
			t.Errorf("body %d angle = %v, want 0", i, sys.Body(i).Angle)
		}
	}
}

func TestFromSystemRoundTrip(t *testing.T) {
	doc := sampleDoc(true)
	sys, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	back := FromSystem(sys, doc.Global)
	if !bytes.Equal(encode(t, doc), encode(t, back)) {
		t.Errorf("FromSystem(Build(doc)) differs from doc")
	}
}

func TestDeletePlanetRemovesMoonsFromOutput(t *testing.T) {
	doc := sampleDoc(false)
	sys, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sys.RemovePlanet(0); err != nil {
		t.Fatalf("RemovePlanet: %v", err)
	}

	out := string(encode(t, FromSystem(sys, doc.Global)))
	if strings.Contains(out, "Moon1]") {
		t.Errorf("moons survived planet deletion:\n%s", out)
	}
	if !strings.Contains(out, "NumberOfPlanets=1\n") {
		t.Errorf("planet count not updated:\n%s", out)
	}
	if !strings.Contains(out, "[Planet1]\nSize=45\n") {
		t.Errorf("remaining planet not renumbered:\n%s", out)
	}
}
