package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cazehq/bizcon/internal/entity"
)

func TestChainPrefersStorageOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOwnerRepository)
	repo.On("FindByProduct", mock.Anything, "DataSense").
		Return(&entity.Owner{Name: "Sam Rivera", Email: "sam@company.com"}, nil)

	chain := NewOwnerResolverChain(
		&RepoOwnerResolver{Repo: repo},
		&StaticOwnerResolver{Owner: entity.Owner{Name: "Default Owner", Email: "default-owner@yourcompany.com"}},
	)

	owner, err := chain.Resolve(ctx, "DataSense")

	assert.NoError(t, err)
	assert.Equal(t, "Sam Rivera", owner.Name)
}

func TestChainFallsThroughMissingAndBrokenSources(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOwnerRepository)
	repo.On("FindByProduct", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	chain := NewOwnerResolverChain(
		&RepoOwnerResolver{Repo: repo},
		&FileOwnerResolver{Path: "/nonexistent/owner.json"},
		&StaticOwnerResolver{Owner: entity.Owner{Name: "Default Owner", Email: "default-owner@yourcompany.com"}},
	)

	owner, err := chain.Resolve(ctx, "DataSense")

	assert.NoError(t, err)
	assert.Equal(t, "Default Owner", owner.Name)
	assert.Equal(t, "default-owner@yourcompany.com", owner.Email)
}

func TestChainSkipsIncompleteOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOwnerRepository)
	// Name without an email cannot receive a calendar invite.
	repo.On("FindByProduct", mock.Anything, mock.Anything).
		Return(&entity.Owner{Name: "Half Configured"}, nil)

	chain := NewOwnerResolverChain(
		&RepoOwnerResolver{Repo: repo},
		&StaticOwnerResolver{Owner: entity.Owner{Name: "Default Owner", Email: "default-owner@yourcompany.com"}},
	)

	owner, err := chain.Resolve(ctx, "DataSense")

	assert.NoError(t, err)
	assert.Equal(t, "Default Owner", owner.Name)
}

func TestFileOwnerResolverReadsConfiguredOwner(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "owner.json")
	err := os.WriteFile(path, []byte(`{"name": "File Owner", "email": "file-owner@company.com"}`), 0o644)
	assert.NoError(t, err)

	resolver := &FileOwnerResolver{Path: path}

	owner, err := resolver.Resolve(ctx, "anything")

	assert.NoError(t, err)
	assert.Equal(t, "File Owner", owner.Name)
	assert.Equal(t, "file-owner@company.com", owner.Email)
}

func TestFileOwnerResolverMissingFileIsNotAnError(t *testing.T) {
	ctx := context.Background()
	resolver := &FileOwnerResolver{Path: filepath.Join(t.TempDir(), "absent.json")}

	owner, err := resolver.Resolve(ctx, "anything")

	assert.NoError(t, err)
	assert.Nil(t, owner)
}
