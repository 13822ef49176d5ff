package models

// RegionStat is the per-region line of the crawl summary.
type RegionStat struct {
	RegionID int64
	Pages    int
	Offers   int
	Failed   bool
	Error    string
}

// SummaryReport holds the computed statistics over one crawl.
type SummaryReport struct {
	TotalOffers      int
	PagesFetched     int
	RegionsCompleted int
	RegionsFailed    int
	Regions          []RegionStat

	PricedOffers     int
	AveragePrice     float64
	MinPrice         float64
	MaxPrice         float64
	AveragePriceM2   float64
	MostExpensive    *Offer
	OffersByDistrict map[string]int
}
