package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

type stubCompetitor struct{ name string }

func (s stubCompetitor) Name() string { return s.name }
func (s stubCompetitor) FetchNews(ctx context.Context) ([]types.News, error) {
	return nil, nil
}
func (s stubCompetitor) FetchJobs(ctx context.Context) ([]types.Job, error) {
	return nil, nil
}

type stubPatents struct{}

func (stubPatents) FetchPatents(ctx context.Context, competitor string) ([]types.Patent, error) {
	return nil, nil
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(stubPatents{}, stubCompetitor{"Canon"}, nil, stubCompetitor{"Zeiss"})

	c, ok := r.Lookup("Canon")
	assert.True(t, ok)
	assert.Equal(t, "Canon", c.Name())

	_, ok = r.Lookup("canon")
	assert.False(t, ok, "名前の照合は大文字小文字を区別します")

	_, ok = r.Lookup("Unknown")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"Canon", "Zeiss"}, r.Names())
	assert.NotNil(t, r.Patents())
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("Canon")
	assert.False(t, ok)
	assert.Nil(t, r.Patents())
	assert.Nil(t, r.Names())
}
