package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cian-offices-scraper/models"
)

func sampleOffers() []*models.Offer {
	return []*models.Offer{
		{
			ID:          models.Number(301234567),
			Date:        models.String("2024-03-01 10:00:00"),
			Price:       models.Number(1000),
			PricePerM2:  models.Number(20),
			Address:     models.String(`Irkutsk. "Lenina" 1`),
			Description: models.String("Офис в центре"),
			HasParking:  models.Bool(false),
		},
		{
			ID:   models.Number(301234568),
			Area: models.Number(50.5),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "offers.csv")
	offers := sampleOffers()

	require.NoError(t, NewCSVWriter(path).Write(offers))

	rows := readCSV(t, path)
	require.Len(t, rows, len(offers)+1)
	assert.Equal(t, models.OfferColumns, rows[0])
	for i, o := range offers {
		assert.Equal(t, o.Row(), rows[i+1])
	}

	rec := map[string]string{}
	for i, col := range rows[0] {
		rec[col] = rows[1][i]
	}
	assert.Equal(t, "301234567", rec["id"])
	assert.Equal(t, "20", rec["price_per_m2"])
	assert.Equal(t, "Офис в центре", rec["description"])
	assert.Equal(t, "false", rec["has_parking"])
	assert.Equal(t, "", rec["lat"])
}

func TestCSVWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\nstale\nstale\nstale\n"), 0644))

	require.NoError(t, NewCSVWriter(path).Write(sampleOffers()[:1]))

	assert.Len(t, readCSV(t, path), 2)
}

func TestCSVWriter_EmptySkipsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.csv")

	err := NewCSVWriter(path).Write(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created for an empty result set")
}

func TestCSVWriter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := NewCSVWriter(filepath.Join(blocker, "offers.csv")).Write(sampleOffers())
	assert.Error(t, err)
}
