package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 8, cat.Len())

	sku, ok := cat.Lookup("CAB-11KV-CU-XLPE")
	require.True(t, ok)
	assert.Equal(t, "Copper", sku.Material)
	assert.Equal(t, 1200.0, sku.BasePrice)

	_, ok = cat.Lookup("CAB-NOPE")
	assert.False(t, ok)
}

func TestListPreservesOrderAndCopies(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	list := cat.List()
	assert.Equal(t, "CAB-11KV-CU-XLPE", list[0].SKU)
	assert.Equal(t, "CAB-LV-AL-PVC", list[len(list)-1].SKU)

	// Mutating the returned slice must not affect the catalog.
	list[0].BasePrice = 1
	sku, _ := cat.Lookup("CAB-11KV-CU-XLPE")
	assert.Equal(t, 1200.0, sku.BasePrice)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		skus []SKU
	}{
		{"empty sku", []SKU{{SKU: "", BasePrice: 100}}},
		{"non-positive price", []SKU{{SKU: "A", BasePrice: 0}}},
		{"duplicate sku", []SKU{{SKU: "A", BasePrice: 1}, {SKU: "A", BasePrice: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.skus)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `skus:
  - sku: CAB-66KV-CU-XLPE
    description: 66kV Copper Conductor XLPE Insulated Power Cable
    voltage: 66kV
    material: Copper
    insulation: XLPE
    base_price: 4100
  - sku: CAB-66KV-AL-XLPE
    description: 66kV Aluminium Conductor XLPE Insulated Power Cable
    voltage: 66kV
    material: Aluminium
    insulation: XLPE
    base_price: 3200
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	sku, ok := cat.Lookup("CAB-66KV-AL-XLPE")
	require.True(t, ok)
	assert.Equal(t, 3200.0, sku.BasePrice)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("skus: []\n"), 0o644))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cat.Len())
}
