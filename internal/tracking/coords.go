package tracking

import "strings"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var cityCoordinates = map[string]Coordinate{
	"jakarta":    {-6.2088, 106.8456},
	"surabaya":   {-7.2575, 112.7521},
	"bandung":    {-6.9175, 107.6191},
	"medan":      {3.5952, 98.6722},
	"semarang":   {-6.9667, 110.4167},
	"makassar":   {-5.1477, 119.4328},
	"palembang":  {-2.9909, 104.7567},
	"denpasar":   {-8.6705, 115.2126},
	"malang":     {-7.9666, 112.6326},
	"yogyakarta": {-7.7955, 110.3695},
}

var defaultCoordinate = Coordinate{-6.2000, 106.8166}

// CityCoordinates resolves a destination by substring match on the city
// name, falling back to a default coordinate.
func CityCoordinates(cityName string) Coordinate {
	city := strings.ToLower(cityName)
	for key, c := range cityCoordinates {
		if strings.Contains(city, key) {
			return c
		}
	}
	return defaultCoordinate
}
