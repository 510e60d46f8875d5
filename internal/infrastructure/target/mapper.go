package target

import (
	"math"

	"github.com/pricescout/backend/internal/domain"
)

// maxOffers caps this adapter's contribution to the merged result.
const maxOffers = 10

// searchResponse mirrors the relevant parts of the RedSky product listing
// payload.
type searchResponse struct {
	Data struct {
		Search struct {
			Products []product `json:"products"`
		} `json:"search"`
	} `json:"data"`
}

type product struct {
	Item struct {
		ProductDescription struct {
			Title string `json:"title"`
		} `json:"product_description"`
		Enrichment struct {
			BuyURL string `json:"buy_url"`
			Images struct {
				PrimaryImageURL string `json:"primary_image_url"`
			} `json:"images"`
		} `json:"enrichment"`
	} `json:"item"`
	Price struct {
		CurrentRetail *float64 `json:"current_retail"`
	} `json:"price"`
}

// mapOffers converts upstream records to Offers. A record is included only
// when it has a non-empty title and a determinable price; the image is
// optional. At most maxOffers entries are returned.
func mapOffers(products []product) []domain.Offer {
	offers := make([]domain.Offer, 0, maxOffers)
	for _, p := range products {
		if len(offers) == maxOffers {
			break
		}
		if p.Item.ProductDescription.Title == "" || p.Price.CurrentRetail == nil || *p.Price.CurrentRetail < 0 {
			continue
		}
		offers = append(offers, domain.Offer{
			Store: domain.StoreTarget,
			Name:  p.Item.ProductDescription.Title,
			Price: round2(*p.Price.CurrentRetail),
			URL:   p.Item.Enrichment.BuyURL,
			Image: p.Item.Enrichment.Images.PrimaryImageURL,
		})
	}
	return offers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
