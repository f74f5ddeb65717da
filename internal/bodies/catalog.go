// Package bodies is the static catalog of celestial bodies shown by orrery.
package bodies

// InfoPair is one labelled row of the info panel.
type InfoPair struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Descriptor is the static description of a single celestial body.
// Descriptors are never mutated after the catalog is loaded.
type Descriptor struct {
	Name     string     `yaml:"name" json:"name"`
	Radius   float64    `yaml:"radius" json:"radius"`
	Distance float64    `yaml:"distance" json:"distance"`
	Speed    float64    `yaml:"speed" json:"speed"`
	Color    uint32     `yaml:"color" json:"color"`
	Texture  string     `yaml:"texture,omitempty" json:"texture,omitempty"`
	Ringed   bool       `yaml:"ringed,omitempty" json:"ringed,omitempty"`
	Central  bool       `yaml:"central,omitempty" json:"central,omitempty"`
	Info     []InfoPair `yaml:"info" json:"info"`
}

// HasTexture reports whether the descriptor names an image asset.
func (d *Descriptor) HasTexture() bool { return d.Texture != "" }

var catalog = []Descriptor{
	{
		Name: "Sun", Radius: 3, Color: 0xfdb813, Central: true,
		Info: []InfoPair{
			{"Diameter", "1,392,700 km"},
			{"Mass", "1.989 × 10³⁰ kg"},
			{"Temperature", "5,778 K (surface)"},
			{"Age", "4.6 billion years"},
			{"Type", "G-type main-sequence star"},
		},
	},
	{
		Name: "Mercury", Radius: 0.4, Distance: 8, Speed: 0.04, Color: 0x8c7853,
		Info: planetInfo("4,879 km", "57.9 million km from Sun", "59 Earth days", "88 Earth days", "0"),
	},
	{
		Name: "Venus", Radius: 0.9, Distance: 12, Speed: 0.015, Color: 0xffc649,
		Info: planetInfo("12,104 km", "108.2 million km from Sun", "243 Earth days", "225 Earth days", "0"),
	},
	{
		Name: "Earth", Radius: 1, Distance: 16, Speed: 0.01, Color: 0x4169e1, Texture: "Earth.png",
		Info: planetInfo("12,742 km", "149.6 million km from Sun", "24 hours", "365.25 days", "1 (Moon)"),
	},
	{
		Name: "Mars", Radius: 0.5, Distance: 20, Speed: 0.008, Color: 0xcd5c5c, Texture: "Mars03.jpg",
		Info: planetInfo("6,779 km", "227.9 million km from Sun", "24.6 hours", "687 Earth days", "2 (Phobos, Deimos)"),
	},
	{
		Name: "Jupiter", Radius: 2.5, Distance: 28, Speed: 0.002, Color: 0xdaa520, Texture: "jupitur.png",
		Info: planetInfo("139,820 km", "778.5 million km from Sun", "9.9 hours", "12 Earth years", "79+"),
	},
	{
		Name: "Saturn", Radius: 2.2, Distance: 36, Speed: 0.0009, Color: 0xfad5a5, Ringed: true,
		Info: planetInfo("116,460 km", "1.43 billion km from Sun", "10.7 hours", "29 Earth years", "82+"),
	},
	{
		Name: "Uranus", Radius: 1.5, Distance: 44, Speed: 0.0004, Color: 0x4fd0e0,
		Info: planetInfo("50,724 km", "2.87 billion km from Sun", "17.2 hours", "84 Earth years", "27"),
	},
	{
		Name: "Neptune", Radius: 1.4, Distance: 52, Speed: 0.0001, Color: 0x4169e1, Texture: "Neptune.png",
		Info: planetInfo("49,244 km", "4.5 billion km from Sun", "16 hours", "165 Earth years", "14"),
	},
}

func planetInfo(diameter, distance, day, year, moons string) []InfoPair {
	return []InfoPair{
		{"Diameter", diameter},
		{"Distance", distance},
		{"Day", day},
		{"Year", year},
		{"Moons", moons},
	}
}

func init() {
	if err := Validate(catalog); err != nil {
		panic(err)
	}
}

// List returns the built-in catalog in display order: the central body
// first, then the orbiting bodies from the innermost outwards.
// The returned slice is a copy; callers may not alter the catalog.
func List() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, d := range catalog {
		d.Info = append([]InfoPair(nil), d.Info...)
		out[i] = d
	}
	return out
}

// Central returns the central body of a catalog.
func Central(c []Descriptor) (*Descriptor, bool) {
	for i := range c {
		if c[i].Central {
			return &c[i], true
		}
	}
	return nil, false
}

// Orbiting returns pointers to the orbiting descriptors, in catalog order.
func Orbiting(c []Descriptor) []*Descriptor {
	out := make([]*Descriptor, 0, len(c))
	for i := range c {
		if !c[i].Central {
			out = append(out, &c[i])
		}
	}
	return out
}

// Names returns descriptor names in catalog order.
func Names(c []Descriptor) []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}
	return names
}
