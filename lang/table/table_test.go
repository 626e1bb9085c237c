package table_test

import (
	"fmt"
	"testing"

	"github.com/mna/glox/lang/table"
	"github.com/mna/glox/lang/value"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	var tbl table.Table
	a := value.NewString("a")
	b := value.NewString("b")

	require.True(t, tbl.Set(a, value.Number(1)))
	require.False(t, tbl.Set(a, value.Number(2)), "re-setting an existing key is not a new key")

	v, ok := tbl.Get(a)
	require.True(t, ok)
	require.Equal(t, value.Number(2), v)

	_, ok = tbl.Get(b)
	require.False(t, ok)

	require.True(t, tbl.Delete(a))
	_, ok = tbl.Get(a)
	require.False(t, ok, "deleted key must no longer be found")
}

func TestDeleteLeavesTombstoneThatDoesNotBlockLookup(t *testing.T) {
	var tbl table.Table
	// force everything into the same bucket pattern by using a tiny table and
	// many keys so we exercise probing past a tombstone.
	keys := make([]*value.String, 0, 20)
	for i := 0; i < 20; i++ {
		keys = append(keys, value.NewString(fmt.Sprintf("k%d", i)))
		tbl.Set(keys[i], value.Number(float64(i)))
	}

	// delete a handful scattered through insertion order
	require.True(t, tbl.Delete(keys[3]))
	require.True(t, tbl.Delete(keys[7]))
	require.True(t, tbl.Delete(keys[11]))

	for i, k := range keys {
		v, ok := tbl.Get(k)
		if i == 3 || i == 7 || i == 11 {
			require.False(t, ok)
			continue
		}
		require.True(t, ok, "key %d", i)
		require.Equal(t, value.Number(float64(i)), v)
	}
}

func TestFindStringInterning(t *testing.T) {
	var strings table.Table
	hello := value.NewString("hello")
	strings.Set(hello, value.True)

	found := strings.FindString("hello", value.FNV1a32("hello"))
	require.Same(t, hello, found, "FindString must return the same object for equal content")

	require.Nil(t, strings.FindString("goodbye", value.FNV1a32("goodbye")))
}

func TestGrowsPastLoadFactor(t *testing.T) {
	var tbl table.Table
	const n = 200
	keys := make([]*value.String, n)
	for i := 0; i < n; i++ {
		keys[i] = value.NewString(fmt.Sprintf("key-%d", i))
		tbl.Set(keys[i], value.Number(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		require.Equal(t, value.Number(float64(i)), v)
	}
	require.Equal(t, n, tbl.Count())
}
