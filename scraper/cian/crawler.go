package cian

import (
	"context"
	"time"

	"cian-offices-scraper/models"
	"cian-offices-scraper/services"
	"cian-offices-scraper/utils"
)

// DefaultMaxPages bounds pagination per region.
const DefaultMaxPages = 99

// PageFetcher fetches one page of search results.
type PageFetcher interface {
	FetchPage(ctx context.Context, regionID int64, page int) (*Page, error)
}

// CrawlOptions configures the crawl loop.
type CrawlOptions struct {
	Regions  []int64
	MaxPages int
	Delay    time.Duration
}

// CrawlResult is everything collected during one run.
type CrawlResult struct {
	Offers  []*models.Offer
	Regions []models.RegionStat
}

// Crawler walks every region page by page, strictly sequentially.
type Crawler struct {
	fetcher   PageFetcher
	extractor *services.Extractor
	throttle  *utils.Throttle
	logger    *utils.Logger
	regions   []int64
	maxPages  int
}

// NewCrawler creates a ready-to-use Crawler. Empty Regions means
// DefaultRegionIDs and a non-positive MaxPages means DefaultMaxPages.
func NewCrawler(fetcher PageFetcher, extractor *services.Extractor, logger *utils.Logger, opts CrawlOptions) *Crawler {
	regions := opts.Regions
	if len(regions) == 0 {
		regions = DefaultRegionIDs
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{
		fetcher:   fetcher,
		extractor: extractor,
		throttle:  utils.NewThrottle(opts.Delay),
		logger:    logger,
		regions:   regions,
		maxPages:  maxPages,
	}
}

// Crawl runs every region to completion and returns what was collected.
// A failing page ends only its own region; Crawl itself never fails.
func (c *Crawler) Crawl(ctx context.Context) *CrawlResult {
	result := &CrawlResult{
		Offers:  make([]*models.Offer, 0),
		Regions: make([]models.RegionStat, 0, len(c.regions)),
	}

	c.logger.Info("[crawler] Starting crawl: %d regions, up to %d pages each, delay %v",
		len(c.regions), c.maxPages, c.throttle.Delay())

	for _, regionID := range c.regions {
		if ctx.Err() != nil {
			c.logger.Warn("[crawler] Interrupted before region %d: %v", regionID, ctx.Err())
			break
		}
		stat := c.crawlRegion(ctx, regionID, result)
		result.Regions = append(result.Regions, stat)
	}

	c.logger.Info("[crawler] Crawl complete: %d offers collected", len(result.Offers))
	return result
}

func (c *Crawler) crawlRegion(ctx context.Context, regionID int64, result *CrawlResult) models.RegionStat {
	stat := models.RegionStat{RegionID: regionID}
	c.logger.Info("[crawler] Region %d", regionID)

	for page := 1; page <= c.maxPages; page++ {
		c.logger.Info("[crawler] Region %d: page %d", regionID, page)

		p, err := c.fetcher.FetchPage(ctx, regionID, page)
		if err != nil {
			c.logger.Error("[crawler] Error on region %d page %d: %v", regionID, page, err)
			stat.Failed = true
			stat.Error = err.Error()
			return stat
		}

		if len(p.Offers) == 0 {
			c.logger.Info("[crawler] Region %d: no more offers after page %d", regionID, page-1)
			return stat
		}

		offers := c.extractor.ExtractAll(p.Offers)
		result.Offers = append(result.Offers, offers...)
		stat.Pages++
		stat.Offers += len(offers)

		if err := c.throttle.Wait(ctx); err != nil {
			c.logger.Warn("[crawler] Region %d interrupted after page %d: %v", regionID, page, err)
			stat.Failed = true
			stat.Error = err.Error()
			return stat
		}
	}

	c.logger.Warn("[crawler] Region %d: page cap of %d reached", regionID, c.maxPages)
	return stat
}
