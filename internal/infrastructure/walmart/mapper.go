package walmart

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// maxOffers caps this adapter's contribution to the merged result.
const maxOffers = 10

// searchResponse is the shape of the affiliate product search payload.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Name       string        `json:"name"`
	SalePrice  upstreamPrice `json:"salePrice"`
	ProductURL string        `json:"productTrackingUrl"`
	Image      string        `json:"largeImage"`
}

// upstreamPrice accepts both the numeric and string-formatted prices Walmart
// returns. A value that cannot be normalized leaves valid=false so the record
// is excluded instead of failing the whole payload.
type upstreamPrice struct {
	value float64
	valid bool
}

func (p *upstreamPrice) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		if f >= 0 {
			p.value = round2(f)
			p.valid = true
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if v, ok := normalizePriceString(s); ok {
		p.value = v
		p.valid = true
	}
	return nil
}

// installmentRegex matches financing-plan price strings of the form
// "$M/month for D months[, $P down]".
var installmentRegex = regexp.MustCompile(
	`^\$?(\d+(?:\.\d+)?)\s*/\s*month\s+for\s+(\d+)\s+months?(?:.*?\$(\d+(?:\.\d+)?)\s+down)?`,
)

// normalizePriceString converts a string-formatted upstream price to a
// numeric value rounded to 2 decimal places. Installment plans are expanded
// to their effective total (monthly x months + down payment); anything else
// is parsed directly as a number after stripping currency formatting.
func normalizePriceString(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	if m := installmentRegex.FindStringSubmatch(s); m != nil {
		monthly, err1 := strconv.ParseFloat(m[1], 64)
		months, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		down := 0.0
		if m[3] != "" {
			if d, err := strconv.ParseFloat(m[3], 64); err == nil {
				down = d
			}
		}
		return round2(monthly*months + down), true
	}

	cleaned := strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return round2(v), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mapOffers converts upstream records to Offers. A record is included only
// when it has a non-empty name, a determinable price, a product link and an
// image. At most maxOffers entries are returned.
func mapOffers(items []searchItem) []domain.Offer {
	offers := make([]domain.Offer, 0, maxOffers)
	for _, item := range items {
		if len(offers) == maxOffers {
			break
		}
		if item.Name == "" || !item.SalePrice.valid || item.ProductURL == "" || item.Image == "" {
			continue
		}
		offers = append(offers, domain.Offer{
			Store: domain.StoreWalmart,
			Name:  item.Name,
			Price: item.SalePrice.value,
			URL:   item.ProductURL,
			Image: item.Image,
		})
	}
	return offers
}
