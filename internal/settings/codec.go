package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	sectionGlobal = "Global"

	keyNumberOfPlanets = "NumberOfPlanets"
	keySpeedMultiplier = "SpeedMultiplier"
	keyElliptical      = "EllipticalOrbits"
	keySustainRelease  = "SustainReleaseTime"
	keyMaxEccentricity = "MaxEccentricity"
	keySelectedScale   = "SelectedScale"

	keySize          = "Size"
	keyFrequency     = "Frequency"
	keyDistance      = "Distance"
	keyNumberOfMoons = "NumberOfMoons"
	keySoundFile     = "SoundFile"
	keyEccentricity  = "Eccentricity"
	keyOrbitAngle    = "OrbitAngle"
)

func init() {
	// Key=Value with no padding, matching files written by earlier versions.
	ini.PrettyFormat = false
}

// Files written by configparser carry lowercased keys and may hold ';' or
// '#' inside values such as sample paths.
var (
	decodeOptions = ini.LoadOptions{InsensitiveKeys: true, IgnoreInlineComment: true}
	encodeOptions = ini.LoadOptions{IgnoreInlineComment: true}
)

// Load reads and validates a settings file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path through a temporary file so a crash never leaves a
// half-written settings file behind.
func Save(path string, doc *Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settings-*.ini")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Decode parses a settings document and validates it.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := ini.LoadSources(decodeOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	doc := &Document{}
	g, err := section(f, sectionGlobal)
	if err != nil {
		return nil, err
	}
	if doc.Global.NumberOfPlanets, err = intKey(g, keyNumberOfPlanets); err != nil {
		return nil, err
	}
	if doc.Global.SpeedMultiplier, err = floatKey(g, keySpeedMultiplier); err != nil {
		return nil, err
	}
	if doc.Global.EllipticalOrbits, err = boolKey(g, keyElliptical); err != nil {
		return nil, err
	}
	if doc.Global.SustainReleaseTime, err = optionalFloat(g, keySustainRelease); err != nil {
		return nil, err
	}
	if doc.Global.MaxEccentricity, err = optionalFloat(g, keyMaxEccentricity); err != nil {
		return nil, err
	}
	doc.Global.SelectedScale = strings.TrimSpace(g.Key(keySelectedScale).String())

	if doc.Global.NumberOfPlanets < 0 {
		return nil, &ValidationError{Section: sectionGlobal, Field: keyNumberOfPlanets, Reason: "must not be negative"}
	}

	elliptical := doc.Global.EllipticalOrbits
	for i := 0; i < doc.Global.NumberOfPlanets; i++ {
		sec, err := section(f, PlanetSection(i))
		if err != nil {
			return nil, err
		}
		var p PlanetRecord
		if err := readBody(sec, elliptical, &p.Size, &p.Frequency, &p.Distance, &p.SoundFile, &p.Eccentricity, &p.OrbitAngle); err != nil {
			return nil, err
		}
		moons, err := intKey(sec, keyNumberOfMoons)
		if err != nil {
			return nil, err
		}
		if moons < 0 {
			return nil, &ValidationError{Section: sec.Name(), Field: keyNumberOfMoons, Reason: "must not be negative"}
		}
		for j := 0; j < moons; j++ {
			msec, err := section(f, MoonSection(i, j))
			if err != nil {
				return nil, err
			}
			var m MoonRecord
			if err := readBody(msec, elliptical, &m.Size, &m.Frequency, &m.Distance, &m.SoundFile, &m.Eccentricity, &m.OrbitAngle); err != nil {
				return nil, err
			}
			p.Moons = append(p.Moons, m)
		}
		doc.Planets = append(doc.Planets, p)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func readBody(sec *ini.Section, elliptical bool, size *int, freq *float64, dist *int, sound *string, ecc, orbitAngle *float64) error {
	var err error
	if *size, err = intKey(sec, keySize); err != nil {
		return err
	}
	if *freq, err = floatKey(sec, keyFrequency); err != nil {
		return err
	}
	if *dist, err = intKey(sec, keyDistance); err != nil {
		return err
	}
	*sound = strings.TrimSpace(sec.Key(keySoundFile).String())

	// stray eccentricity keys are ignored for circular systems
	if !elliptical {
		*ecc, *orbitAngle = 0, 0
		return nil
	}
	if *ecc, err = floatKey(sec, keyEccentricity); err != nil {
		return err
	}
	*orbitAngle, err = floatKey(sec, keyOrbitAngle)
	return err
}

func section(f *ini.File, name string) (*ini.Section, error) {
	sec, err := f.GetSection(name)
	if err != nil {
		return nil, &ParseError{Section: name, Err: ErrMissing}
	}
	return sec, nil
}

func rawKey(sec *ini.Section, key string) (string, error) {
	if !sec.HasKey(key) {
		return "", &ParseError{Section: sec.Name(), Key: key, Err: ErrMissing}
	}
	v := strings.TrimSpace(sec.Key(key).String())
	if v == "" {
		return "", &ParseError{Section: sec.Name(), Key: key, Err: ErrMissing}
	}
	return v, nil
}

func intKey(sec *ini.Section, key string) (int, error) {
	v, err := rawKey(sec, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Section: sec.Name(), Key: key, Value: v, Err: ErrSyntax}
	}
	return n, nil
}

func floatKey(sec *ini.Section, key string) (float64, error) {
	v, err := rawKey(sec, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Section: sec.Name(), Key: key, Value: v, Err: ErrSyntax}
	}
	return f, nil
}

func boolKey(sec *ini.Section, key string) (bool, error) {
	v, err := rawKey(sec, key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, &ParseError{Section: sec.Name(), Key: key, Value: v, Err: ErrSyntax}
}

func optionalFloat(sec *ini.Section, key string) (*float64, error) {
	if !sec.HasKey(key) || strings.TrimSpace(sec.Key(key).String()) == "" {
		return nil, nil
	}
	f, err := floatKey(sec, key)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Encode writes doc in section-per-entity form. Counts are taken from the
// slices, not from Global.NumberOfPlanets.
func Encode(w io.Writer, doc *Document) error {
	f := ini.Empty(encodeOptions)
	elliptical := doc.Global.EllipticalOrbits

	g := newSectionWriter(f, sectionGlobal)
	g.set(keyNumberOfPlanets, strconv.Itoa(len(doc.Planets)))
	g.set(keySpeedMultiplier, formatFloat(doc.Global.SpeedMultiplier))
	g.set(keyElliptical, strconv.FormatBool(elliptical))
	if doc.Global.SustainReleaseTime != nil {
		g.set(keySustainRelease, formatFloat(*doc.Global.SustainReleaseTime))
	}
	if doc.Global.MaxEccentricity != nil {
		g.set(keyMaxEccentricity, formatFloat(*doc.Global.MaxEccentricity))
	}
	if doc.Global.SelectedScale != "" {
		g.set(keySelectedScale, doc.Global.SelectedScale)
	}
	if g.err != nil {
		return g.err
	}

	for i, p := range doc.Planets {
		s := newSectionWriter(f, PlanetSection(i))
		s.set(keySize, strconv.Itoa(p.Size))
		s.set(keyFrequency, formatFloat(p.Frequency))
		s.set(keyDistance, strconv.Itoa(p.Distance))
		s.set(keyNumberOfMoons, strconv.Itoa(len(p.Moons)))
		s.body(p.SoundFile, elliptical, p.Eccentricity, p.OrbitAngle)
		if s.err != nil {
			return s.err
		}

		for j, m := range p.Moons {
			ms := newSectionWriter(f, MoonSection(i, j))
			ms.set(keySize, strconv.Itoa(m.Size))
			ms.set(keyFrequency, formatFloat(m.Frequency))
			ms.set(keyDistance, strconv.Itoa(m.Distance))
			ms.body(m.SoundFile, elliptical, m.Eccentricity, m.OrbitAngle)
			if ms.err != nil {
				return ms.err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

type sectionWriter struct {
	sec *ini.Section
	err error
}

func newSectionWriter(f *ini.File, name string) *sectionWriter {
	sec, err := f.NewSection(name)
	return &sectionWriter{sec: sec, err: err}
}

func (s *sectionWriter) set(key, value string) {
	if s.err != nil {
		return
	}
	_, s.err = s.sec.NewKey(key, value)
}

func (s *sectionWriter) body(sound string, elliptical bool, ecc, orbitAngle float64) {
	if sound != "" {
		s.set(keySoundFile, sound)
	}
	if elliptical {
		s.set(keyEccentricity, strconv.FormatFloat(ecc, 'f', 4, 64))
		s.set(keyOrbitAngle, strconv.FormatFloat(orbitAngle, 'f', 4, 64))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
