// Package hierarchy supplies the read-only location trees browsed by the
// picker: region -> country for the worldwide picker, and
// country -> province -> city for the country picker.
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"geopick/internal/domain"
)

// ErrProviderUnavailable marks any failure to load hierarchy data
var ErrProviderUnavailable = errors.New("hierarchy provider unavailable")

// RegionProvider serves the region -> country tree
type RegionProvider interface {
	FetchHierarchy(ctx context.Context) (domain.Hierarchy, error)
}

// CountryProvider serves countries and their province -> city trees
type CountryProvider interface {
	FetchRoots(ctx context.Context) ([]string, error)
	FetchBranches(ctx context.Context, root string) (domain.Hierarchy, error)
}

// Source serves both picker variants
type Source interface {
	RegionProvider
	CountryProvider
}

// UnavailableError wraps a provider failure with the operation that failed
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProviderUnavailable, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrProviderUnavailable, e.Err}
}

// Unavailable wraps err so that errors.Is(err, ErrProviderUnavailable) holds
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}

// Province groups the cities of one province or state
type Province struct {
	Name   string   `toml:"name"`
	Cities []string `toml:"cities"`
}

// Country is a root of the country picker
type Country struct {
	Name      string     `toml:"name"`
	Provinces []Province `toml:"provinces"`
}

// Dataset is the on-disk shape shared by the file, builtin and SQL providers
type Dataset struct {
	Regions   []domain.HierarchyNode `toml:"regions"`
	Countries []Country              `toml:"countries"`
}

// Hierarchy returns the region -> country tree
func (d Dataset) Hierarchy() domain.Hierarchy {
	nodes := make([]domain.HierarchyNode, 0, len(d.Regions))
	for _, r := range d.Regions {
		nodes = append(nodes, domain.HierarchyNode{
			Key:    r.Key,
			Leaves: append([]string(nil), r.Leaves...),
		})
	}
	return domain.NewHierarchy(nodes...)
}

// Roots returns country names in file order
func (d Dataset) Roots() []string {
	roots := make([]string, 0, len(d.Countries))
	for _, c := range d.Countries {
		roots = append(roots, c.Name)
	}
	return roots
}

// Branches returns the province -> city tree of root with leaves keyed as
// "City, Province, Country". Unknown roots yield an empty hierarchy.
func (d Dataset) Branches(root string) domain.Hierarchy {
	for _, c := range d.Countries {
		if c.Name != root {
			continue
		}
		nodes := make([]domain.HierarchyNode, 0, len(c.Provinces))
		for _, p := range c.Provinces {
			leaves := make([]string, 0, len(p.Cities))
			for _, city := range p.Cities {
				leaves = append(leaves, domain.CityKey(city, p.Name, c.Name))
			}
			nodes = append(nodes, domain.HierarchyNode{Key: p.Name, Leaves: leaves})
		}
		return domain.NewHierarchy(nodes...)
	}
	return domain.Hierarchy{}
}

// Validate checks for empty names and duplicate keys
func (d Dataset) Validate() error {
	seen := make(map[string]bool)
	for _, r := range d.Regions {
		if r.Key == "" {
			return fmt.Errorf("region with empty key")
		}
		if seen["region:"+r.Key] {
			return fmt.Errorf("duplicate region %q", r.Key)
		}
		seen["region:"+r.Key] = true
	}
	for _, c := range d.Countries {
		if c.Name == "" {
			return fmt.Errorf("country with empty name")
		}
		if seen["country:"+c.Name] {
			return fmt.Errorf("duplicate country %q", c.Name)
		}
		seen["country:"+c.Name] = true
		for _, p := range c.Provinces {
			if p.Name == "" {
				return fmt.Errorf("country %q has a province with empty name", c.Name)
			}
		}
	}
	return nil
}

// StaticProvider serves a dataset held in memory
type StaticProvider struct {
	data Dataset
}

// NewStaticProvider creates a provider over data
func NewStaticProvider(data Dataset) *StaticProvider {
	return &StaticProvider{data: data}
}

// FetchHierarchy implements RegionProvider
func (p *StaticProvider) FetchHierarchy(ctx context.Context) (domain.Hierarchy, error) {
	if err := ctx.Err(); err != nil {
		return domain.Hierarchy{}, Unavailable("fetch hierarchy", err)
	}
	return p.data.Hierarchy(), nil
}

// FetchRoots implements CountryProvider
func (p *StaticProvider) FetchRoots(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable("fetch roots", err)
	}
	return p.data.Roots(), nil
}

// FetchBranches implements CountryProvider
func (p *StaticProvider) FetchBranches(ctx context.Context, root string) (domain.Hierarchy, error) {
	if err := ctx.Err(); err != nil {
		return domain.Hierarchy{}, Unavailable("fetch branches", err)
	}
	return p.data.Branches(root), nil
}
