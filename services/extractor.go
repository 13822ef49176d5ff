package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"cian-offices-scraper/models"
	"cian-offices-scraper/utils"
)

// dateLayout is the fixed format of the "date" column.
const dateLayout = "2006-01-02 15:04:05"

var textReplacer = strings.NewReplacer("\n", " ", "\r", " ", ",", ".")

// Extractor maps raw API listings onto normalized Offers.
// Extraction never fails: anything missing or malformed becomes a null cell.
type Extractor struct {
	logger *utils.Logger
	loc    *time.Location
}

// NewExtractor creates an Extractor that renders timestamps in loc.
// A nil loc means the machine's local time zone.
func NewExtractor(logger *utils.Logger, loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.Local
	}
	return &Extractor{logger: logger, loc: loc}
}

// ExtractAll normalizes every listing of one page, preserving order.
func (e *Extractor) ExtractAll(items []gjson.Result) []*models.Offer {
	offers := make([]*models.Offer, 0, len(items))
	for _, item := range items {
		offers = append(offers, e.Extract(item))
	}
	e.logger.Debug("[extractor] Normalized %d listings", len(offers))
	return offers
}

// Extract normalizes a single listing.
func (e *Extractor) Extract(item gjson.Result) *models.Offer {
	price := tryFloat(lookup(item, "bargainTerms", "priceRur"))
	area := tryFloat(lookup(item, "totalArea"))

	return &models.Offer{
		ID:            passThrough(lookup(item, "id")),
		Date:          e.formatTimestamp(lookup(item, "addedTimestamp")),
		URL:           cleanText(lookup(item, "fullUrl")),
		Price:         price,
		PricePerM2:    pricePerM2(price, area),
		Address:       cleanText(lookup(item, "geo", "userInput")),
		District:      cleanText(lookup(item, "geo", "districtName")),
		SubRegion:     cleanText(lookup(item, "geo", "subLocalityName")),
		Area:          area,
		AreaUnit:      cleanText(lookup(item, "totalAreaUnit")),
		RoomArea:      tryFloat(lookup(item, "space", "area")),
		Floor:         passThrough(lookup(item, "floorNumber")),
		TotalFloors:   passThrough(lookup(item, "building", "floorsCount")),
		YearBuilt:     passThrough(lookup(item, "building", "buildYear")),
		BuildingType:  cleanText(lookup(item, "building", "materialType", "name")),
		BuildingClass: cleanText(lookup(item, "building", "buildingClass", "name")),
		HasParking:    passThrough(lookup(item, "building", "parking", "hasParking")),
		Description:   cleanText(lookup(item, "description")),
		ClientID:      passThrough(lookup(item, "user", "userId")),
		AgencyName:    cleanText(lookup(item, "user", "companyName")),
		Lat:           tryFloat(lookup(item, "geo", "coordinates", "lat")),
		Lng:           tryFloat(lookup(item, "geo", "coordinates", "lng")),
	}
}

// formatTimestamp renders epoch seconds; zero, missing or non-numeric is null.
func (e *Extractor) formatTimestamp(v gjson.Result) models.Scalar {
	if v.Type != gjson.Number || v.Num == 0 {
		return models.Null()
	}
	sec, frac := math.Modf(v.Num)
	return models.String(time.Unix(int64(sec), int64(frac*1e9)).In(e.loc).Format(dateLayout))
}

// lookup descends through nested objects by exact key. A missing key or a
// non-object on the way yields the zero Result, which is null.
func lookup(v gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if !v.IsObject() {
			return gjson.Result{}
		}
		next, ok := v.Map()[key]
		if !ok {
			return gjson.Result{}
		}
		v = next
	}
	return v
}

// tryFloat coerces numbers and numeric strings. Anything else is null.
func tryFloat(v gjson.Result) models.Scalar {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return models.Null()
		}
		f = parsed
	default:
		return models.Null()
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Null()
	}
	return models.Number(f)
}

// cleanText flattens line breaks, swaps commas for periods and trims.
// Non-string values pass through unchanged.
func cleanText(v gjson.Result) models.Scalar {
	if v.Type != gjson.String {
		return passThrough(v)
	}
	return models.String(strings.TrimSpace(textReplacer.Replace(v.Str)))
}

func passThrough(v gjson.Result) models.Scalar {
	switch v.Type {
	case gjson.Number:
		return models.Number(v.Num)
	case gjson.String:
		return models.String(v.Str)
	case gjson.True:
		return models.Bool(true)
	case gjson.False:
		return models.Bool(false)
	case gjson.JSON:
		return models.Raw(v.Raw)
	default:
		return models.Null()
	}
}

// pricePerM2 is price/area rounded to cents, null unless both are non-zero numbers.
func pricePerM2(price, area models.Scalar) models.Scalar {
	p, ok := price.Float()
	if !ok || p == 0 {
		return models.Null()
	}
	a, ok := area.Float()
	if !ok || a == 0 {
		return models.Null()
	}
	return models.Number(round2(p / a))
}
