package realtime

// Named places and roads.
const (
	SriAurobindoAshram = "Sri Aurobindo Ashram"
	PromenadeBeach     = "Promenade Beach"
	ParadiseBeach      = "Paradise Beach"
	FrenchQuarter      = "French Quarter"
	Auroville          = "Auroville"

	MissionStreet = "Mission Street"
	MGRoad        = "MG Road"
	ECR           = "ECR"
)

// CrowdPlaces are the places whose crowd level is simulated.
var CrowdPlaces = []string{SriAurobindoAshram, PromenadeBeach, ParadiseBeach, FrenchQuarter}

// Roads are the roads whose traffic is simulated.
var Roads = []string{MissionStreet, MGRoad, ECR}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

var placeCoordinates = map[string]Coordinates{
	SriAurobindoAshram: {Lat: 11.9416, Lng: 79.8083},
	FrenchQuarter:      {Lat: 11.9344, Lng: 79.8309},
	ParadiseBeach:      {Lat: 12.0167, Lng: 79.8667},
	Auroville:          {Lat: 12.0051, Lng: 79.8095},
	PromenadeBeach:     {Lat: 11.9270, Lng: 79.8368},
}

// Locate returns the coordinates of a known place.
func Locate(place string) (Coordinates, bool) {
	c, ok := placeCoordinates[place]
	return c, ok
}
