package hierarchy

import (
	"context"
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"geopick/internal/domain"
)

//go:embed data/world.toml
var builtinData embed.FS

// DecodeDataset parses a TOML hierarchy document
func DecodeDataset(r io.Reader) (Dataset, error) {
	var data Dataset
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse hierarchy: %w", err)
	}
	if err := data.Validate(); err != nil {
		return Dataset{}, fmt.Errorf("invalid hierarchy: %w", err)
	}
	return data, nil
}

// LoadDatasetFile reads a TOML hierarchy document from disk
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open hierarchy file: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}

// BuiltinDataset returns the hierarchy shipped with the binary
func BuiltinDataset() (Dataset, error) {
	f, err := builtinData.Open("data/world.toml")
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open builtin hierarchy: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}

// NewBuiltinProvider serves the embedded dataset
func NewBuiltinProvider() (*StaticProvider, error) {
	data, err := BuiltinDataset()
	if err != nil {
		return nil, err
	}
	return NewStaticProvider(data), nil
}

// TOMLProvider re-reads a TOML file on every fetch, so a retry after a failed
// load picks up a corrected file.
type TOMLProvider struct {
	path string
}

// NewTOMLProvider creates a provider for the file at path
func NewTOMLProvider(path string) *TOMLProvider {
	return &TOMLProvider{path: path}
}

func (p *TOMLProvider) load(ctx context.Context, op string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, Unavailable(op, err)
	}
	data, err := LoadDatasetFile(p.path)
	if err != nil {
		return Dataset{}, Unavailable(op, err)
	}
	return data, nil
}

// FetchHierarchy implements RegionProvider
func (p *TOMLProvider) FetchHierarchy(ctx context.Context) (domain.Hierarchy, error) {
	data, err := p.load(ctx, "fetch hierarchy")
	if err != nil {
		return domain.Hierarchy{}, err
	}
	return data.Hierarchy(), nil
}

// FetchRoots implements CountryProvider
func (p *TOMLProvider) FetchRoots(ctx context.Context) ([]string, error) {
	data, err := p.load(ctx, "fetch roots")
	if err != nil {
		return nil, err
	}
	return data.Roots(), nil
}

// FetchBranches implements CountryProvider
func (p *TOMLProvider) FetchBranches(ctx context.Context, root string) (domain.Hierarchy, error) {
	data, err := p.load(ctx, "fetch branches")
	if err != nil {
		return domain.Hierarchy{}, err
	}
	return data.Branches(root), nil
}
