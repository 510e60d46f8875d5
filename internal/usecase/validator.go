package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pricescout/backend/internal/domain"
)

const maxItemLength = 200

// itemForbiddenChars are rejected in the item parameter to keep raw markup
// and query-breaking characters out of upstream requests.
const itemForbiddenChars = `<>'"&`

var zipCodeRegex = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidationError carries the accumulated messages for a rejected request.
// All rules are checked independently; nothing short-circuits.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// ValidateSearchRequest normalizes and validates raw query parameters into a
// SearchRequest. Pure function, no side effects. On failure the returned
// error is a *ValidationError listing every violated rule.
func ValidateSearchRequest(rawItem, rawLat, rawLon, rawZip string) (*domain.SearchRequest, error) {
	var messages []string

	item := strings.TrimSpace(rawItem)
	if item == "" {
		messages = append(messages, "item is required and must be a non-empty string")
	} else {
		if utf8.RuneCountInString(item) > maxItemLength {
			messages = append(messages, "item must be at most 200 characters")
		}
		if strings.ContainsAny(item, itemForbiddenChars) {
			messages = append(messages, "item must not contain any of the characters < > ' \" &")
		}
	}

	// ParseFloat accepts "NaN", which slips past range comparisons, so
	// non-finite values are rejected explicitly.
	var latitude *float64
	if rawLat != "" {
		lat, err := strconv.ParseFloat(rawLat, 64)
		if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
			messages = append(messages, "lat must be a number between -90 and 90")
		} else {
			latitude = &lat
		}
	}

	var longitude *float64
	if rawLon != "" {
		lon, err := strconv.ParseFloat(rawLon, 64)
		if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
			messages = append(messages, "lon must be a number between -180 and 180")
		} else {
			longitude = &lon
		}
	}

	if rawZip != "" && !zipCodeRegex.MatchString(rawZip) {
		messages = append(messages, "zip must be a valid US ZIP code (12345 or 12345-6789)")
	}

	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	return &domain.SearchRequest{
		Item:       item,
		Latitude:   latitude,
		Longitude:  longitude,
		PostalCode: rawZip,
	}, nil
}
