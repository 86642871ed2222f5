// Package storagetest is a conformance suite every storage.Storage
// implementation runs from its own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitrov9812/car-listing-api/internal/storage"
	"github.com/dimitrov9812/car-listing-api/internal/types"
)

// Run exercises the Load/Save contract against s. s must start empty.
func Run(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load missing document", func(t *testing.T) {
		cars, err := s.Load(ctx, "never-saved")
		require.NoError(t, err)
		require.NotNil(t, cars)
		assert.Empty(t, cars)
	})

	t.Run("Save and Load", func(t *testing.T) {
		in := types.Collection{
			{"id": "a", "make": "Honda", "price": float64(20000), "pictures": []any{"front.jpg"}},
			{"id": "b", "make": "Toyota", "features": map[string]any{"sunroof": true}},
		}
		require.NoError(t, s.Save(ctx, "cars", in))

		out, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "cars", types.Collection{{"id": "c"}}))

		out, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "c", out[0].ID())
	})

	t.Run("Save preserves order", func(t *testing.T) {
		in := types.Collection{{"id": "3"}, {"id": "1"}, {"id": "2"}}
		require.NoError(t, s.Save(ctx, "cars", in))

		out, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		ids := make([]string, 0, len(out))
		for _, c := range out {
			ids = append(ids, c.ID())
		}
		assert.Equal(t, []string{"3", "1", "2"}, ids)
	})

	t.Run("Save empty collection", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "cars", types.Collection{}))

		out, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("Save nil collection", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "cars", nil))

		out, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("Loaded collection is a copy", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "cars", types.Collection{{"id": "x", "make": "Ford"}}))

		first, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		first[0]["make"] = "changed"

		second, err := s.Load(ctx, "cars")
		require.NoError(t, err)
		assert.Equal(t, "Ford", second[0]["make"])
	})
}
