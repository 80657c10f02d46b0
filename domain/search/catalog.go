package search

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/images"
)

// Profile is a contrast/brightness pair applied after grayscale conversion.
type Profile struct {
	Name       string  `json:"name" yaml:"name"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Brightness int     `json:"brightness" yaml:"brightness"`
}

func (p Profile) String() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("c%.2f/b%+d", p.Contrast, p.Brightness)
}

// Catalog is the ordered parameter space of the search.
type Catalog struct {
	Angles     []int
	Profiles   []Profile
	Binarizers []barcode.Binarization
}

// DefaultProfiles is the stock enhancement catalog.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "soft", Contrast: 1.5, Brightness: 0},
		{Name: "bright", Contrast: 2.0, Brightness: 10},
		{Name: "dark", Contrast: 1.8, Brightness: -10},
		{Name: "hard", Contrast: 2.5, Brightness: 0},
	}
}

// DefaultCatalog tries 0/90/180/270 degrees, four profiles and both binarizers.
func DefaultCatalog() Catalog {
	return Catalog{
		Angles:     []int{0, 90, 180, 270},
		Profiles:   DefaultProfiles(),
		Binarizers: []barcode.Binarization{barcode.Hybrid, barcode.GlobalHistogram},
	}
}

// Size is the number of attempts Attempts yields.
func (c Catalog) Size() int {
	return len(c.Angles) * len(c.Profiles) * len(c.Binarizers)
}

// Validate rejects empty dimensions, non right angles and non-positive contrast.
func (c Catalog) Validate() error {
	var errs []error
	if len(c.Angles) == 0 {
		errs = append(errs, errors.New("catalog: no angles"))
	}
	if len(c.Profiles) == 0 {
		errs = append(errs, errors.New("catalog: no profiles"))
	}
	if len(c.Binarizers) == 0 {
		errs = append(errs, errors.New("catalog: no binarizers"))
	}
	for _, a := range c.Angles {
		if _, err := images.NormalizeAngle(a); err != nil {
			errs = append(errs, fmt.Errorf("catalog: %w", err))
		}
	}
	for i, p := range c.Profiles {
		if p.Contrast <= 0 {
			errs = append(errs, fmt.Errorf("catalog: profile %d contrast must be > 0", i+1))
		}
	}
	return errors.Join(errs...)
}

// Attempt is one point of the parameter space. Index is 1-based in plan order.
type Attempt struct {
	Index        int
	Angle        int
	ProfileIndex int
	Profile      Profile
	Binarizer    barcode.Binarization
}

// Attempts yields the plan lazily in angle, profile, binarizer order.
// The sequence can be ranged over any number of times.
func (c Catalog) Attempts() iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		n := 0
		for _, angle := range c.Angles {
			for pi, p := range c.Profiles {
				for _, b := range c.Binarizers {
					n++
					if !yield(Attempt{Index: n, Angle: angle, ProfileIndex: pi, Profile: p, Binarizer: b}) {
						return
					}
				}
			}
		}
	}
}
