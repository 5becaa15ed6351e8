package generator

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/catalog"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
)

func testCatalog() []catalog.Record {
	return []catalog.Record{
		{Name: "TV-1", Price: 1200.00, Brand: "Samsung", ScreenSize: 55, DisplayType: "OLED", Resolution: "4K"},
		{Name: "TV-2", Price: 499.99, Brand: "LG", ScreenSize: 43, DisplayType: "LED", Resolution: "1080p"},
		{Name: "TV-3", Price: 0.0, Brand: catalog.UnknownValue, ScreenSize: 0, DisplayType: catalog.UnknownValue, Resolution: catalog.UnknownValue},
	}
}

func testGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := New(testCatalog(), DefaultTables(), WithRand(rand.New(rand.NewSource(seed))))
	require.NoError(t, err)
	return g
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, DefaultTables())
	assert.Error(t, err)

	_, err = New(testCatalog(), nil)
	assert.Error(t, err)

	broken := DefaultTables()
	broken.Cities[0].Coordinates = nil
	_, err = New(testCatalog(), broken)
	assert.Error(t, err)
}

func TestNext_StoreOrderIffOrganicSource(t *testing.T) {
	g := testGenerator(t, 1)

	for i := 0; i < 1000; i++ {
		tx := g.Next()
		if tx.Source == domain.SourceOrganic {
			assert.Equal(t, domain.OrderTypeStore, tx.OrderType)
			assert.Equal(t, domain.StatusCompleted, tx.Status)
			assert.Contains(t, []string{"Cash", "Credit_card"}, tx.PaymentMethod)
		} else {
			assert.Equal(t, domain.OrderTypeOnline, tx.OrderType)
			assert.NotEqual(t, "Cash", tx.PaymentMethod)
		}
	}
}

func TestNext_CoordinatesBelongToCity(t *testing.T) {
	tables := DefaultTables()
	clusters := map[string]map[Coordinate]bool{}
	for _, c := range tables.Cities {
		clusters[c.City] = map[Coordinate]bool{}
		for _, coord := range c.Coordinates {
			clusters[c.City][coord] = true
		}
	}

	g := testGenerator(t, 2)
	for i := 0; i < 1000; i++ {
		tx := g.Next()
		registered, ok := clusters[tx.City]
		require.True(t, ok, "unknown city %q", tx.City)
		assert.True(t, registered[Coordinate{tx.Latitude, tx.Longitude}],
			"coordinates (%v, %v) not registered for %s", tx.Latitude, tx.Longitude, tx.City)
	}
}

func TestNext_TotalAmountFromCommission(t *testing.T) {
	tables := DefaultTables()
	g := testGenerator(t, 3)

	for i := 0; i < 500; i++ {
		tx := g.Next()
		found := false
		for _, c := range tables.Commissions {
			if tx.TotalAmount == math.Round(tx.Price*c*100)/100 {
				found = true
				break
			}
		}
		assert.True(t, found, "total %v not derivable from price %v", tx.TotalAmount, tx.Price)
	}
}

func TestNext_ConstantFields(t *testing.T) {
	g := testGenerator(t, 4)
	tx := g.Next()

	assert.Equal(t, domain.CategoryElectronics, tx.Category)
	assert.Equal(t, domain.CurrencyUSD, tx.Currency)
	assert.Equal(t, domain.CountryUSA, tx.Country)
	assert.Equal(t, 1, tx.Quantity)
	assert.Regexp(t, `^CUST-\d{5}$`, tx.CustomerID)
	assert.Contains(t, []string{"Mobile", "Desktop", "Tablet"}, tx.Device)
}

func TestNext_TimestampSharedWithIdentity(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	single := []catalog.Record{{Name: "TV-1", Price: 100.00, Brand: "Sony", ScreenSize: 50, DisplayType: "LED", Resolution: "4K"}}

	g, err := New(single, DefaultTables(),
		WithRand(rand.New(rand.NewSource(5))),
		WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)

	tx := g.Next()
	require.Equal(t, uint64(1), g.Sequence())
	assert.Equal(t, fixed.Format(time.RFC3339Nano), tx.Timestamp)

	// Recover the sampled commission from the derived total and verify
	// the id was computed from the exact same timestamp value.
	var commission float64
	for _, c := range DefaultTables().Commissions {
		if tx.TotalAmount == math.Round(100.00*c*100)/100 {
			commission = c
			break
		}
	}
	require.NotZero(t, commission)

	want := TransactionID(1, "TV-1", 100.00, commission, tx.Timestamp, tx.Source, tx.Status, DefaultIDLength)
	assert.Equal(t, want, tx.TransactionID)
}

func TestNext_CompletedDominatesOnlineOutcomes(t *testing.T) {
	g := testGenerator(t, 6)

	counts := map[string]int{}
	online := 0
	for i := 0; i < 1000; i++ {
		tx := g.Next()
		if tx.Source == domain.SourceOrganic {
			continue
		}
		online++
		counts[tx.Status]++
	}

	require.Greater(t, online, 0)
	assert.Greater(t, counts[domain.StatusCompleted], online/2,
		"COMPLETED should be the strict majority of online outcomes")
}

func TestNext_EndToEndOrganicScenario(t *testing.T) {
	records, err := catalog.Parse(strings.NewReader(
		"PRODUCT_NAME,PRICING\nTV-1,\"$1,200.00\"\n"))
	require.NoError(t, err)
	require.Equal(t, 1200.00, records[0].Price)

	tables := DefaultTables()
	tables.Sources = []string{domain.SourceOrganic}

	g, err := New(records, tables, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	tx := g.Next()
	assert.Contains(t, []string{"Cash", "Credit_card"}, tx.PaymentMethod)
	assert.Equal(t, domain.StatusCompleted, tx.Status)
	assert.Equal(t, domain.OrderTypeStore, tx.OrderType)
	assert.Equal(t, 1200.00, tx.Price)
}

func TestNext_SequenceIncreases(t *testing.T) {
	g := testGenerator(t, 8)

	seen := map[string]bool{}
	for i := 1; i <= 100; i++ {
		tx := g.Next()
		assert.Equal(t, uint64(i), g.Sequence())
		assert.False(t, seen[tx.TransactionID], "duplicate id %s", tx.TransactionID)
		seen[tx.TransactionID] = true
	}
}
