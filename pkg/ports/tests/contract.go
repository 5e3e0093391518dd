package tests

import (
	"context"
	"testing"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MetamodelStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.MetamodelStore.
// The store must be empty when passed in.
func MetamodelStoreContractTest(t *testing.T, store ports.MetamodelStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrMetamodelNotFound)
	})

	t.Run("Save_And_Load", func(t *testing.T) {
		doc := []byte(`{"$class":"concerto.metamodel@1.0.0.Model","namespace":"a","declarations":[]}`)
		require.NoError(t, store.Save(ctx, doc))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, string(doc), string(loaded))
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		doc := []byte(`{"$class":"concerto.metamodel@1.0.0.Model","namespace":"b","declarations":[]}`)
		require.NoError(t, store.Save(ctx, doc))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, string(doc), string(loaded))
	})

	t.Run("Load_Is_Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		loaded[0] = 'X'

		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, byte('{'), again[0], "callers must not be able to mutate the stored document")
	})
}
