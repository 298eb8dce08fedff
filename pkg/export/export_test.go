package export_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vss-tools/vss-go/pkg/export"
	"github.com/vss-tools/vss-go/pkg/tree"
)

func TestCBORRoundTrip(t *testing.T) {
	vss, err := tree.Default()
	require.NoError(t, err)

	data, err := export.EncodeTree(vss)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := export.DecodeTree(data)
	require.NoError(t, err)

	// Lookups behave identically on the decoded tree, including instance
	// expansion and enum normalization.
	for _, name := range []string{
		"Vehicle.Speed",
		"Vehicle.Cabin.Door.Row1.Left.IsOpen",
		"Vehicle.Chassis.Axle.Row2.Wheel.Left.Tire.Pressure",
		"Vehicle.Drivetrain.Transmission.DriveType",
	} {
		want, err := vss.Find(name)
		require.NoError(t, err, name)
		got, err := decoded.Find(name)
		require.NoError(t, err, name)

		assert.Equal(t, want.Datatype(), got.Datatype(), name)
		assert.Equal(t, want.UnitName(), got.UnitName(), name)
		assert.Equal(t, want.Description(), got.Description(), name)
		assert.Equal(t, want.Allowed(), got.Allowed(), name)
	}
}

func TestCBORCanonical(t *testing.T) {
	vss, err := tree.Default()
	require.NoError(t, err)

	a, err := export.EncodeTree(vss)
	require.NoError(t, err)
	b, err := export.EncodeTree(vss)
	require.NoError(t, err)
	assert.Equal(t, a, b, "canonical encoding must be deterministic")
}

func TestCBORSmallerThanJSON(t *testing.T) {
	vss, err := tree.Default()
	require.NoError(t, err)

	cborData, err := export.EncodeTree(vss)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, vss))
	assert.Less(t, len(cborData), buf.Len())
}

func TestDecodeErrors(t *testing.T) {
	_, err := export.DecodeTree([]byte("garbage"))
	assert.True(t, tree.IsSpecError(err), "got %v", err)
}

func TestFileRoundTrip(t *testing.T) {
	vss, err := tree.Default()
	require.NoError(t, err)
	dir := t.TempDir()

	t.Run("CBOR", func(t *testing.T) {
		path := filepath.Join(dir, "tree.bvss")
		require.NoError(t, export.WriteCBORFile(path, vss))

		loaded, err := export.ReadCBORFile(path)
		require.NoError(t, err)
		_, err = loaded.Find("Vehicle.Speed")
		assert.NoError(t, err)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "tree.json")
		require.NoError(t, export.WriteJSONFile(path, vss))

		loaded, err := tree.Load(path)
		require.NoError(t, err)
		s, err := loaded.Find("Vehicle.Cabin.Door.Row1.Left.IsOpen")
		require.NoError(t, err)
		assert.Equal(t, "Is door open or closed.", s.Description())
	})
}
