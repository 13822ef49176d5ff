package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"cian-offices-scraper/models"
	"cian-offices-scraper/utils"
)

type SummaryService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger, out: os.Stdout}
}

func (s *SummaryService) Generate(offers []*models.Offer, regions []models.RegionStat) *models.SummaryReport {
	report := &models.SummaryReport{
		TotalOffers:      len(offers),
		Regions:          regions,
		OffersByDistrict: make(map[string]int),
	}

	for _, r := range regions {
		report.PagesFetched += r.Pages
		if r.Failed {
			report.RegionsFailed++
		} else {
			report.RegionsCompleted++
		}
	}

	var totalPrice, totalPerM2 float64
	var perM2Count int

	for _, o := range offers {
		if district, ok := o.District.Text(); ok && district != "" {
			report.OffersByDistrict[district]++
		}
		if perM2, ok := o.PricePerM2.Float(); ok {
			totalPerM2 += perM2
			perM2Count++
		}

		price, ok := o.Price.Float()
		if !ok || price <= 0 {
			continue
		}
		if report.PricedOffers == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.PricedOffers == 0 || price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = o
		}
		report.PricedOffers++
		totalPrice += price
	}

	if report.PricedOffers > 0 {
		report.AveragePrice = round2(totalPrice / float64(report.PricedOffers))
	}
	if perM2Count > 0 {
		report.AveragePriceM2 = round2(totalPerM2 / float64(perM2Count))
	}

	s.logger.Debug("[summary] %d offers over %d regions", report.TotalOffers, len(regions))
	return report
}

func (s *SummaryService) Print(r *models.SummaryReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	w := s.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  CIAN OFFICES FOR SALE: CRAWL SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Offers collected   : \033[1m%d\033[0m\n", r.TotalOffers)
	fmt.Fprintf(w, "  Pages fetched      : \033[1m%d\033[0m\n", r.PagesFetched)
	fmt.Fprintf(w, "  Regions completed  : \033[1m%d\033[0m\n", r.RegionsCompleted)
	fmt.Fprintf(w, "  Regions with error : \033[1m%d\033[0m\n", r.RegionsFailed)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (RUB)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedOffers > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	if r.AveragePriceM2 > 0 {
		fmt.Fprintf(w, "  Average per m2: \033[1;32m%.2f\033[0m\n", r.AveragePriceM2)
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Offer\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Address.String(), 50))
		fmt.Fprintf(w, "  URL   : %s\n", r.MostExpensive.URL.String())
		fmt.Fprintf(w, "  Price : \033[1;31m%s\033[0m\n", r.MostExpensive.Price.String())
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Regions\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, rs := range r.Regions {
		status := "\033[32mok\033[0m"
		if rs.Failed {
			status = "\033[31m" + truncate(rs.Error, 30) + "\033[0m"
		}
		fmt.Fprintf(w, "  %-10d pages %-3d offers %-5d %s\n", rs.RegionID, rs.Pages, rs.Offers, status)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Offers by District\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.OffersByDistrict) == 0 {
		fmt.Fprintf(w, "  No district data\n")
	} else {
		type districtCount struct {
			name  string
			count int
		}
		var counts []districtCount
		for name, cnt := range r.OffersByDistrict {
			counts = append(counts, districtCount{name, cnt})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})
		for _, dc := range counts {
			fmt.Fprintf(w, "  %-30s %d\n", truncate(dc.name, 28), dc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
