package usecase

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cazehq/bizcon/internal/entity"
)

// OwnerResolver answers "who owns this product". Returning (nil, nil) means
// "not found here, ask the next resolver".
type OwnerResolver interface {
	Resolve(ctx context.Context, product string) (*entity.Owner, error)
}

// OwnerResolverChain walks an ordered list of resolvers; the first complete
// answer wins. With a static resolver at the tail it never fails.
type OwnerResolverChain struct {
	resolvers []OwnerResolver
}

func NewOwnerResolverChain(resolvers ...OwnerResolver) *OwnerResolverChain {
	return &OwnerResolverChain{resolvers: resolvers}
}

func (c *OwnerResolverChain) Resolve(ctx context.Context, product string) (*entity.Owner, error) {
	for _, r := range c.resolvers {
		owner, err := r.Resolve(ctx, product)
		if err != nil {
			// A broken source falls through to the next one.
			continue
		}
		if owner != nil && owner.Complete() {
			return owner, nil
		}
	}
	return nil, nil
}

// RepoOwnerResolver reads the responsible-person side table.
type RepoOwnerResolver struct {
	Repo OwnerRepositoryInterface
}

func (r *RepoOwnerResolver) Resolve(ctx context.Context, product string) (*entity.Owner, error) {
	return r.Repo.FindByProduct(ctx, product)
}

// FileOwnerResolver reads a small {name, email} JSON file, the configured
// default owner.
type FileOwnerResolver struct {
	Path string
}

func (r *FileOwnerResolver) Resolve(ctx context.Context, product string) (*entity.Owner, error) {
	if r.Path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(r.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var owner entity.Owner
	if err := json.Unmarshal(raw, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

// StaticOwnerResolver is the hardcoded tail of the chain.
type StaticOwnerResolver struct {
	Owner entity.Owner
}

func (r *StaticOwnerResolver) Resolve(ctx context.Context, product string) (*entity.Owner, error) {
	return &r.Owner, nil
}
