package models

import (
	"strconv"
)

// Kind tags the variant held by a Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	// KindRaw holds a nested JSON object or array passed through untouched.
	KindRaw
)

// Scalar is one optional cell of a normalized record.
type Scalar struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

func Null() Scalar { return Scalar{} }

func Number(f float64) Scalar { return Scalar{kind: KindNumber, num: f} }

func String(s string) Scalar { return Scalar{kind: KindString, str: s} }

func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

func Raw(json string) Scalar { return Scalar{kind: KindRaw, str: json} }

func (s Scalar) Kind() Kind { return s.kind }

func (s Scalar) IsNull() bool { return s.kind == KindNull }

// Float returns the numeric value, ok is false for any other kind.
func (s Scalar) Float() (float64, bool) {
	return s.num, s.kind == KindNumber
}

// Text returns the string value, ok is false for any other kind.
func (s Scalar) Text() (string, bool) {
	return s.str, s.kind == KindString
}

// String renders the value for a CSV cell. Null renders as an empty cell.
func (s Scalar) String() string {
	switch s.kind {
	case KindNumber:
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	case KindString, KindRaw:
		return s.str
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return ""
	}
}

// OfferColumns is the output schema, in column order. Every Offer renders
// exactly these columns.
var OfferColumns = []string{
	"id",
	"date",
	"url",
	"price",
	"price_per_m2",
	"address",
	"district",
	"sub_region",
	"area",
	"area_unit",
	"room_area",
	"floor",
	"total_floors",
	"year_built",
	"building_type",
	"building_class",
	"has_parking",
	"description",
	"client_id",
	"agency_name",
	"lat",
	"lng",
}

// Offer is one normalized commercial-sale office listing.
// It is built once by the extractor and not mutated afterwards.
type Offer struct {
	ID            Scalar
	Date          Scalar
	URL           Scalar
	Price         Scalar
	PricePerM2    Scalar
	Address       Scalar
	District      Scalar
	SubRegion     Scalar
	Area          Scalar
	AreaUnit      Scalar
	RoomArea      Scalar
	Floor         Scalar
	TotalFloors   Scalar
	YearBuilt     Scalar
	BuildingType  Scalar
	BuildingClass Scalar
	HasParking    Scalar
	Description   Scalar
	ClientID      Scalar
	AgencyName    Scalar
	Lat           Scalar
	Lng           Scalar
}

// Values returns the offer's cells in OfferColumns order.
func (o *Offer) Values() []Scalar {
	return []Scalar{
		o.ID,
		o.Date,
		o.URL,
		o.Price,
		o.PricePerM2,
		o.Address,
		o.District,
		o.SubRegion,
		o.Area,
		o.AreaUnit,
		o.RoomArea,
		o.Floor,
		o.TotalFloors,
		o.YearBuilt,
		o.BuildingType,
		o.BuildingClass,
		o.HasParking,
		o.Description,
		o.ClientID,
		o.AgencyName,
		o.Lat,
		o.Lng,
	}
}

// Row renders the offer as CSV cells.
func (o *Offer) Row() []string {
	values := o.Values()
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = v.String()
	}
	return row
}

// Record returns the offer as a column name to value map.
func (o *Offer) Record() map[string]Scalar {
	values := o.Values()
	rec := make(map[string]Scalar, len(values))
	for i, v := range values {
		rec[OfferColumns[i]] = v
	}
	return rec
}
