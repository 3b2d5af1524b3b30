package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipsense/clipsense/internal/llm/mock"
	"github.com/clipsense/clipsense/pkg/models"
)

func TestNewProvider(t *testing.T) {
	p := mock.NewProvider()
	assert.Equal(t, "mock", p.Name())
	assert.True(t, p.Available(context.Background()))

	gen, err := p.Generate(context.Background(), "prompt", models.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Mock generation for testing", gen.Text)
	assert.Equal(t, "mock-v1", gen.Model)
	assert.Equal(t, 15, gen.Usage.TotalTokens)
}

func TestNewFailingProvider(t *testing.T) {
	customErr := errors.New("backend error")
	p := mock.NewFailingProvider(customErr)
	assert.Equal(t, "mock-failing", p.Name())

	_, err := p.Generate(context.Background(), "prompt", models.GenerateOptions{})
	assert.ErrorIs(t, err, customErr)
}

func TestNewScriptedProvider_ReplaysInOrder(t *testing.T) {
	scriptErr := errors.New("second call fails")
	p := mock.NewScriptedProvider(
		mock.Result{Text: "first"},
		mock.Result{Err: scriptErr},
		mock.Result{Text: "third"},
	)
	ctx := context.Background()

	gen, err := p.Generate(ctx, "a", models.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first", gen.Text)

	_, err = p.Generate(ctx, "b", models.GenerateOptions{})
	assert.ErrorIs(t, err, scriptErr)

	gen, err = p.Generate(ctx, "c", models.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "third", gen.Text)

	// Exhausted scripts repeat the final result.
	gen, err = p.Generate(ctx, "d", models.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "third", gen.Text)
}

func TestProvider_NilFuncs(t *testing.T) {
	p := &mock.Provider{Name_: "bare"}

	assert.True(t, p.Available(context.Background()))
	gen, err := p.Generate(context.Background(), "prompt", models.GenerateOptions{})
	assert.NoError(t, err)
	assert.Equal(t, models.Generation{}, gen)
}

func TestProvider_AvailableFunc(t *testing.T) {
	p := &mock.Provider{
		Name_:         "down",
		AvailableFunc: func(_ context.Context) bool { return false },
	}
	assert.False(t, p.Available(context.Background()))
}
