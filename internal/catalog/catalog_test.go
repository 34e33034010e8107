package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func seed() []card.Raw {
	return []card.Raw{
		{Set: "SOR", Number: "005", Name: "Luke Skywalker", Cost: 6, Power: 3},
		{Set: "SOR", Number: "010", Name: "Darth Vader", Cost: 7, Power: 5},
		{Set: "SHD", Number: "017", Name: "Boba Fett", Cost: 5, Power: 4},
		{Set: "TWI", Number: "020", Name: "Luminara Unduli", Cost: 4, Power: 3},
	}
}

func TestImportAndCount(t *testing.T) {
	c := openTest(t)

	n, err := c.Import(seed())
	require.NoError(t, err)
	require.Equal(t, 4, n)

	count, err := c.Count()
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestImportUpsertsBySetAndNumber(t *testing.T) {
	c := openTest(t)

	_, err := c.Import(seed())
	require.NoError(t, err)
	_, err = c.Import([]card.Raw{{Set: "SOR", Number: "010", Name: "Darth Vader", Cost: 8}})
	require.NoError(t, err)

	count, err := c.Count()
	require.NoError(t, err)
	require.Equal(t, 4, count)

	res, err := c.Search(context.Background(), "vader")
	require.NoError(t, err)
	raws := res.Records()
	require.Len(t, raws, 1)
	require.Equal(t, 8, raws[0].Cost)
}

func TestImportEmpty(t *testing.T) {
	c := openTest(t)
	n, err := c.Import(nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSearchFuzzyBestFirst(t *testing.T) {
	c := openTest(t)
	_, err := c.Import(seed())
	require.NoError(t, err)

	res, err := c.Search(context.Background(), "LUKE")
	require.NoError(t, err)

	raws := res.Records()
	require.NotEmpty(t, raws)
	require.Equal(t, "Luke Skywalker", raws[0].Name)
	require.Equal(t, len(raws), res.Total)
}

func TestSearchNoMatch(t *testing.T) {
	c := openTest(t)
	_, err := c.Import(seed())
	require.NoError(t, err)

	res, err := c.Search(context.Background(), "qqqq")
	require.NoError(t, err)
	require.Empty(t, res.Records())
	require.Equal(t, "[]", string(res.Data))
}

func TestSearchLimit(t *testing.T) {
	c := openTest(t)
	_, err := c.Import(seed())
	require.NoError(t, err)

	c.SetLimit(1)
	res, err := c.Search(context.Background(), "lu")
	require.NoError(t, err)
	require.Len(t, res.Records(), 1)
}

func TestImportJSONShapes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"bare array", `[{"Set":"SOR","Number":"001","Name":"A"},{"Set":"SOR","Number":"002","Name":"B"}]`, 2, false},
		{"envelope", `{"total_cards":1,"data":[{"Set":"SOR","Number":"001","Name":"A"}]}`, 1, false},
		{"envelope without array", `{"data":"nope"}`, 0, false},
		{"garbage", `hello`, 0, true},
		{"empty", ``, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openTest(t)
			n, err := c.ImportJSON(strings.NewReader(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, n)
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(path)
	require.NoError(t, err)
	_, err = c.Import(seed())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
