package venues

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = 111.32
)

// DistanceKm calcula la distancia de gran círculo (haversine).
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := (lat2 - lat1) * math.Pi / 180
	dλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dφ/2)*math.Sin(dφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Box es un rectángulo lat/lon usado como prefiltro antes de calcular distancias.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// boundingBox cubre el círculo de radio km. Cerca de los polos o del
// antimeridiano se abre a todas las longitudes.
func boundingBox(lat, lon, km float64) Box {
	dLat := km / kmPerDegree
	b := Box{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}

	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.01 {
		return b
	}
	dLon := km / (kmPerDegree * cos)
	if lon-dLon < -180 || lon+dLon > 180 {
		return b
	}
	b.MinLon = lon - dLon
	b.MaxLon = lon + dLon
	return b
}
