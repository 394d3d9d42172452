package cafeastrology

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
)

// Location is one of the cities offered by the chart form.
type Location struct {
	Name        string
	RegionCode  int
	CountryCode int
	Latitude    float64
	Longitude   float64
}

// String formats the location the way the form's `citylist` field expects it.
func (l Location) String() string {
	return fmt.Sprintf(
		"%s,%d,%d,%.2f,%.2f",
		l.Name,
		l.RegionCode,
		l.CountryCode,
		l.Latitude,
		l.Longitude,
	)
}

var Locations = []Location{
	{Name: "Dallas", RegionCode: 48, CountryCode: 1, Latitude: 32.78, Longitude: -96.80},
	{Name: "Honolulu", RegionCode: 15, CountryCode: 1, Latitude: 21.30, Longitude: -157.85},
	{Name: "Sacramento", RegionCode: 6, CountryCode: 1, Latitude: 38.58, Longitude: -121.48},
	{Name: "Seattle", RegionCode: 53, CountryCode: 1, Latitude: 47.60, Longitude: -122.33},
	{Name: "Denver", RegionCode: 8, CountryCode: 1, Latitude: 39.73, Longitude: -104.98},
	{Name: "Miami", RegionCode: 12, CountryCode: 1, Latitude: 25.77, Longitude: -80.18},
	{Name: "Manhattan", RegionCode: 36, CountryCode: 1, Latitude: 40.79, Longitude: -73.96},
	{Name: "Nashville", RegionCode: 47380, CountryCode: 1, Latitude: 36.17, Longitude: -86.78},
	{Name: "Cincinnati", RegionCode: 39038, CountryCode: 1, Latitude: 39.15, Longitude: -84.45},
	{Name: "Vancouver", RegionCode: 2, CountryCode: 2, Latitude: 49.27, Longitude: -123.12},
	{Name: "Calgary", RegionCode: 1, CountryCode: 2, Latitude: 51.02, Longitude: -114.02},
	{Name: "Mexico", RegionCode: 252, CountryCode: 52, Latitude: 19.42, Longitude: -99.17},
	{Name: "Hyderabad", RegionCode: 0, CountryCode: 91, Latitude: 17.37, Longitude: 78.43},
	{Name: "London", RegionCode: 1, CountryCode: 44, Latitude: 51.50, Longitude: -0.17},
	{Name: "Madrid", RegionCode: 0, CountryCode: 34, Latitude: 40.43, Longitude: -3.70},
	{Name: "Berlin", RegionCode: 0, CountryCode: 49, Latitude: 52.53, Longitude: 13.42},
	{Name: "Istanbul", RegionCode: 0, CountryCode: 90, Latitude: 41.01, Longitude: 28.98},
	{Name: "Jerusalem", RegionCode: 294, CountryCode: 972, Latitude: 31.77, Longitude: 35.21},
	{Name: "Cairo", RegionCode: 0, CountryCode: 20, Latitude: 30.03, Longitude: 31.35},
	{Name: "Paris", RegionCode: 75, CountryCode: 33, Latitude: 48.87, Longitude: 2.33},
	{Name: "Tokyo", RegionCode: 0, CountryCode: 81, Latitude: 35.67, Longitude: 139.75},
	{Name: "Beijing", RegionCode: 0, CountryCode: 86, Latitude: 39.92, Longitude: 116.42},
	{Name: "Moscow", RegionCode: 3, CountryCode: 7, Latitude: 55.75, Longitude: 37.60},
	{Name: "Rome", RegionCode: 0, CountryCode: 39, Latitude: 41.75, Longitude: 12.25},
	{Name: "Pretoria", RegionCode: 0, CountryCode: 27, Latitude: -25.75, Longitude: 28.17},
	{Name: "Budapest", RegionCode: 0, CountryCode: 36, Latitude: 47.48, Longitude: 19.08},
	{Name: "Brisbane", RegionCode: 6, CountryCode: 61, Latitude: -27.47, Longitude: 153.03},
	{Name: "Reykjavik", RegionCode: 0, CountryCode: 354, Latitude: 64.17, Longitude: -21.95},
	{Name: "Manila", RegionCode: 0, CountryCode: 63, Latitude: 14.58, Longitude: 120.98},
	{Name: "Melbourne", RegionCode: 9, CountryCode: 61, Latitude: -37.82, Longitude: 144.97},
	{Name: "Seoul", RegionCode: 0, CountryCode: 82, Latitude: 37.63, Longitude: 127.00},
}

// FindLocation looks up a location by its exact name, ignoring case.
func FindLocation(name string) (Location, bool) {
	for _, l := range Locations {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return l, true
		}
	}
	return Location{}, false
}

// minLocationSimilarity is the lowest Jaro-Winkler similarity accepted as a
// match for a misspelled location.
const minLocationSimilarity = 0.85

// MatchLocation finds the location whose name is most similar to `query`,
// it returns false if nothing is similar enough.
func MatchLocation(query string) (Location, float64, bool) {
	if l, ok := FindLocation(query); ok {
		return l, 1, true
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Location{}, 0, false
	}

	var best Location
	var bestSimilarity float64
	for _, l := range Locations {
		similarity := matchr.JaroWinkler(query, strings.ToLower(l.Name), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = l
		}
	}
	if bestSimilarity < minLocationSimilarity {
		return Location{}, bestSimilarity, false
	}
	return best, bestSimilarity, true
}
