package sensors

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// HwmonRoot is where the kernel exposes hwmon devices.
const HwmonRoot = "/sys/class/hwmon"

// https://www.kernel.org/doc/Documentation/hwmon/sysfs-interface
var attrRe = regexp.MustCompile(`^([a-z]+)(\d+)_([a-z_]+)$`)

// divisors convert raw sysfs integers to display units.
var divisors = map[string]float64{
	"temp":     1e3, // milli degree Celsius
	"in":       1e3, // milli volt
	"curr":     1e3, // milli ampere
	"power":    1e6, // micro watt
	"energy":   1e6, // micro joule
	"humidity": 1e3, // milli percent
	"fan":      1,   // RPM
}

// Feature is one sensor channel of a chip, e.g. temp1.
type Feature struct {
	Name  string
	Type  string
	Label string
	// Value is the current reading in display units. Valid is false when the
	// channel exposes neither input nor average, or the value did not parse.
	Value float64
	Valid bool
}

// Chip is a hwmon device.
type Chip struct {
	Name     string
	Device   string
	Features []Feature
}

// Feature returns the feature named name.
func (c Chip) Feature(name string) (Feature, bool) {
	for _, f := range c.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// HwmonScanner walks the hwmon class directory.
type HwmonScanner struct {
	fs   afero.Fs
	root string
}

// NewHwmonScanner creates a scanner over fs rooted at HwmonRoot.
func NewHwmonScanner(fs afero.Fs) *HwmonScanner {
	return &HwmonScanner{fs: fs, root: HwmonRoot}
}

// Scan reads every chip under the hwmon root, sorted by device directory.
func (s *HwmonScanner) Scan() ([]Chip, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.root, err)
	}

	var chips []Chip
	for _, entry := range entries {
		dir := filepath.Join(s.root, entry.Name())
		chip, ok := s.readChip(dir)
		if !ok {
			continue
		}
		chip.Device = entry.Name()
		chips = append(chips, chip)
	}

	sort.Slice(chips, func(i, j int) bool { return chips[i].Device < chips[j].Device })
	return chips, nil
}

// readChip reads a single hwmonN directory. Older drivers keep their
// attributes under device/, so both places are tried.
func (s *HwmonScanner) readChip(dir string) (Chip, bool) {
	for _, base := range []string{dir, filepath.Join(dir, "device")} {
		name, err := s.readString(filepath.Join(base, "name"))
		if err != nil || name == "" {
			continue
		}
		features := s.readFeatures(base)
		if len(features) == 0 && base == dir {
			// Name at the top level but attributes below device/.
			features = s.readFeatures(filepath.Join(dir, "device"))
		}
		return Chip{Name: name, Features: features}, true
	}
	return Chip{}, false
}

func (s *HwmonScanner) readFeatures(dir string) []Feature {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil
	}

	raw := make(map[string]map[string]string)
	for _, entry := range entries {
		m := attrRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if _, known := divisors[m[1]]; !known {
			continue
		}

		feature := m[1] + m[2]
		value, err := s.readString(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if raw[feature] == nil {
			raw[feature] = make(map[string]string)
		}
		raw[feature][m[3]] = value
	}

	features := make([]Feature, 0, len(raw))
	for name, attrs := range raw {
		features = append(features, parseFeature(name, attrs))
	}
	sort.Slice(features, func(i, j int) bool {
		return featureLess(features[i].Name, features[j].Name)
	})
	return features
}

func (s *HwmonScanner) readString(path string) (string, error) {
	b, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// parseFeature converts the raw attributes of one channel. Input wins over
// average; power channels usually only expose the latter.
func parseFeature(name string, attrs map[string]string) Feature {
	typ, _, _ := splitFeature(name)
	f := Feature{Name: name, Type: typ, Label: attrs["label"]}

	for _, key := range []string{"input", "average"} {
		raw, ok := attrs[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		f.Value = v / divisors[typ]
		f.Valid = true
		break
	}
	return f
}

// splitFeature splits "temp12" into ("temp", 12).
func splitFeature(name string) (string, int, bool) {
	i := strings.IndexFunc(name, unicode.IsDigit)
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, false
	}
	return name[:i], n, true
}

func featureLess(a, b string) bool {
	ta, na, _ := splitFeature(a)
	tb, nb, _ := splitFeature(b)
	if ta != tb {
		return ta < tb
	}
	return na < nb
}

// lookupHwmon finds the reading of feature on the first chip called chip.
func lookupHwmon(chips []Chip, chip, feature string) (float64, bool) {
	for _, c := range chips {
		if c.Name != chip && c.Device != chip {
			continue
		}
		if f, ok := c.Feature(feature); ok && f.Valid {
			return f.Value, true
		}
	}
	return 0, false
}
