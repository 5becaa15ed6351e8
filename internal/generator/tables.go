package generator

import (
	"fmt"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
)

// Coordinate is one plausible store or delivery location.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// GeoCluster maps a city to its registered coordinate set. Every
// sampled (latitude, longitude) pair comes from the cluster of the
// sampled city, never from anywhere else.
type GeoCluster struct {
	City        string
	Coordinates []Coordinate
}

// Tables holds the categorical value sets the synthesizer samples
// from. Instances are treated as immutable after construction; tests
// inject alternate tables for deterministic assertions.
type Tables struct {
	Cities         []GeoCluster
	OnlinePayments []string
	StorePayments  []string
	Sources        []string
	Statuses       *WeightedSet
	Commissions    []float64
	Devices        []string
}

// DefaultTables returns the production distribution tables. Status
// weights reproduce the observed outcome mix of the source dataset,
// with COMPLETED as the dominant result.
func DefaultTables() *Tables {
	statuses, err := NewWeightedSet(map[string]int{
		domain.StatusCompleted:         10,
		domain.StatusFailedAPIResponse: 2,
		domain.StatusInsufficientFunds: 2,
		domain.StatusFailedCheckout:    1,
		domain.StatusUserError:         1,
		domain.StatusFraud:             1,
	})
	if err != nil {
		// Static weights above are all positive; this cannot happen.
		panic(err)
	}

	return &Tables{
		Cities: []GeoCluster{
			{City: "New York", Coordinates: []Coordinate{
				{40.76046814557239, -73.97764793953105},
				{40.76921169592604, -73.98326984936075},
				{40.762515994719834, -73.98095242088134},
			}},
			{City: "Los Angeles", Coordinates: []Coordinate{
				{34.07210945806006, -118.35747350374957},
				{34.071754649810025, -118.37593530089991},
			}},
			{City: "Chicago", Coordinates: []Coordinate{
				{41.89819876058171, -87.62280110486684},
				{41.89182575694393, -87.6249468719774},
				{41.88375296758592, -87.62814652743663},
			}},
			{City: "Houston", Coordinates: []Coordinate{
				{29.742233338438325, -95.44654054545151},
				{29.743148850926094, -95.45312636612748},
				{29.739981565214627, -95.46428435510245},
			}},
			{City: "Philadelphia", Coordinates: []Coordinate{
				{40.089499621312456, -75.39015007888118},
				{40.085310197975055, -75.40444450974655},
				{40.09069475292698, -75.3815277170056},
			}},
		},
		OnlinePayments: []string{
			"Credit_card", "Stripe", "Paypal", "Apple_Pay", "Google_Pay", "Samsung_Pay",
		},
		StorePayments: []string{"Cash", "Credit_card"},
		Sources: []string{
			"Facebook", "Instagram", domain.SourceOrganic, "Twitter",
			"Influencer_1", "Influencer_2", "Influencer_3", "Influencer_4",
		},
		Statuses:    statuses,
		Commissions: []float64{0.2, 0.25, 0.3, 0.27, 0.35, 0.4, 0.37, 0.15, 0.1},
		Devices:     []string{"Mobile", "Desktop", "Tablet"},
	}
}

// Validate checks that every value set the synthesizer samples from is
// usable. A sampled city must always have at least one coordinate pair.
func (t *Tables) Validate() error {
	if len(t.Cities) == 0 {
		return fmt.Errorf("tables require at least one city")
	}
	for _, cluster := range t.Cities {
		if len(cluster.Coordinates) == 0 {
			return fmt.Errorf("city %q has no coordinates", cluster.City)
		}
	}
	if len(t.OnlinePayments) == 0 || len(t.StorePayments) == 0 {
		return fmt.Errorf("tables require non-empty payment sets")
	}
	if len(t.Sources) == 0 {
		return fmt.Errorf("tables require at least one acquisition source")
	}
	if t.Statuses == nil {
		return fmt.Errorf("tables require a status distribution")
	}
	if len(t.Commissions) == 0 {
		return fmt.Errorf("tables require at least one commission multiplier")
	}
	if len(t.Devices) == 0 {
		return fmt.Errorf("tables require at least one device type")
	}
	return nil
}
