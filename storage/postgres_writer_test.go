package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cian-offices-scraper/models"
)

func TestSQLColumnsMatchOfferColumns(t *testing.T) {
	require.Len(t, sqlColumns, len(models.OfferColumns))
	for i, col := range models.OfferColumns {
		switch col {
		case "id":
			assert.Equal(t, "offer_id", sqlColumns[i].name)
		case "date":
			assert.Equal(t, "listed_at", sqlColumns[i].name)
		default:
			assert.Equal(t, col, sqlColumns[i].name)
		}
	}
}

func TestBuildInsert(t *testing.T) {
	runID := uuid.MustParse("6f1c2b1e-4d7a-4c1b-9b55-0e2f4a1c9d10")
	offers := sampleOffers()

	query, args := buildInsert(runID, 50, offers)

	perRow := len(sqlColumns) + 2
	require.Len(t, args, perRow*len(offers))
	assert.True(t, strings.HasPrefix(query, "INSERT INTO offices_offers (run_id, seq, offer_id, listed_at,"))
	assert.Contains(t, query, "($1,$2,$3,")
	assert.Contains(t, query, "($25,$26,")
	assert.Equal(t, runID.String(), args[0])
	assert.Equal(t, 50, args[1])
	assert.Equal(t, "301234567", args[2])
	assert.Equal(t, "2024-03-01 10:00:00", args[3])
	assert.Equal(t, 1000.0, args[5])
	assert.Nil(t, args[len(sqlColumns)+1], "missing lng should be NULL")
	assert.Equal(t, 51, args[perRow+1])
}

func TestSQLValue(t *testing.T) {
	assert.Nil(t, sqlValue("TEXT", models.Null()))
	assert.Equal(t, "3", sqlValue("TEXT", models.Number(3)))
	assert.Equal(t, "true", sqlValue("TEXT", models.Bool(true)))
	assert.Equal(t, 2.5, sqlValue("DOUBLE PRECISION", models.Number(2.5)))
	assert.Nil(t, sqlValue("DOUBLE PRECISION", models.String("x")))
}

func TestCreateTableSQL(t *testing.T) {
	ddl := createTableSQL()
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS offices_offers")
	assert.Contains(t, ddl, "price_per_m2    DOUBLE PRECISION")
	assert.Contains(t, ddl, "PRIMARY KEY (run_id, seq)")
}
