package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/catalog"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
)

// Option customizes a Generator.
type Option func(*Generator)

// WithRand injects the random source. Tests use a seeded source for
// reproducible draws.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithClock injects the time source used for event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) { g.clock = clock }
}

// WithIDLength overrides the transaction id truncation length.
func WithIDLength(n int) Option {
	return func(g *Generator) { g.idLen = n }
}

// Generator synthesizes purchase events from a loaded catalog and the
// distribution tables. It is driven by a single goroutine; the
// sequence counter is not safe for concurrent use.
type Generator struct {
	catalog []catalog.Record
	tables  *Tables
	rng     *rand.Rand
	clock   func() time.Time
	idLen   int
	seq     uint64
}

// New validates the collaborators and builds a Generator.
func New(records []catalog.Record, tables *Tables, opts ...Option) (*Generator, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("generator requires a non-empty catalog")
	}
	if tables == nil {
		return nil, fmt.Errorf("generator requires distribution tables")
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid distribution tables: %w", err)
	}

	g := &Generator{
		catalog: records,
		tables:  tables,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:   time.Now,
		idLen:   DefaultIDLength,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Next synthesizes one transaction. The timestamp is captured once and
// shared between the identity digest and the output field.
func (g *Generator) Next() domain.Transaction {
	g.seq++

	record := g.catalog[g.rng.Intn(len(g.catalog))]
	commission := g.tables.Commissions[g.rng.Intn(len(g.tables.Commissions))]
	source := g.tables.Sources[g.rng.Intn(len(g.tables.Sources))]
	payment, status, orderType := g.channelOutcome(source)

	cluster := g.tables.Cities[g.rng.Intn(len(g.tables.Cities))]
	coord := cluster.Coordinates[g.rng.Intn(len(cluster.Coordinates))]
	device := g.tables.Devices[g.rng.Intn(len(g.tables.Devices))]

	timestamp := g.clock().Format(time.RFC3339Nano)

	return domain.Transaction{
		TransactionID: TransactionID(g.seq, record.Name, record.Price, commission, timestamp, source, status, g.idLen),
		CustomerID:    fmt.Sprintf("CUST-%d", 10000+g.rng.Intn(90000)),
		ProductName:   record.Name,
		Category:      domain.CategoryElectronics,
		Price:         record.Price,
		TotalAmount:   math.Round(record.Price*commission*100) / 100,
		Currency:      domain.CurrencyUSD,
		Quantity:      1,
		PaymentMethod: payment,
		Status:        status,
		OrderType:     orderType,
		City:          cluster.City,
		Country:       domain.CountryUSA,
		Device:        device,
		Brand:         record.Brand,
		ScreenSize:    record.ScreenSize,
		DisplayType:   record.DisplayType,
		Resolution:    record.Resolution,
		Latitude:      coord.Latitude,
		Longitude:     coord.Longitude,
		Source:        source,
		Timestamp:     timestamp,
	}
}

// channelOutcome applies the channel policy: Organic purchases happen
// in store and always complete, every other source is an online order
// with a weighted outcome.
func (g *Generator) channelOutcome(source string) (payment, status, orderType string) {
	if source == domain.SourceOrganic {
		payment = g.tables.StorePayments[g.rng.Intn(len(g.tables.StorePayments))]
		return payment, domain.StatusCompleted, domain.OrderTypeStore
	}
	payment = g.tables.OnlinePayments[g.rng.Intn(len(g.tables.OnlinePayments))]
	return payment, g.tables.Statuses.Sample(g.rng), domain.OrderTypeOnline
}

// Sequence returns the number of events synthesized so far.
func (g *Generator) Sequence() uint64 {
	return g.seq
}
