package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// UnknownValue substitutes missing text attributes at load time so that
// downstream consumers never see empty fields.
const UnknownValue = "Unknown"

// Record is one product entry from the source dataset, normalized for
// missing fields. Records are immutable after load.
type Record struct {
	Name        string
	Price       float64
	Brand       string
	ScreenSize  int
	DisplayType string
	Resolution  string
}

// Load reads the product catalog CSV and normalizes every record. The
// column order is taken from the header row. A missing file or an empty
// catalog is an error; malformed attribute values are not.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads catalog records from r. Split out from Load so tests can
// feed in-memory CSV data.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["PRODUCT_NAME"]; !ok {
		return nil, fmt.Errorf("catalog header is missing PRODUCT_NAME column")
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row: %w", err)
		}

		records = append(records, Record{
			Name:        textField(row, columns, "PRODUCT_NAME"),
			Price:       cleanPrice(field(row, columns, "PRICING")),
			Brand:       textField(row, columns, "BRAND"),
			ScreenSize:  intField(row, columns, "SCREEN_SIZE"),
			DisplayType: textField(row, columns, "DISPLAY_TYPE"),
			Resolution:  textField(row, columns, "RESOLUTION"),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("catalog contains no records")
	}

	return records, nil
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func textField(row []string, columns map[string]int, name string) string {
	v := field(row, columns, name)
	if v == "" || strings.EqualFold(v, "n/a") {
		return UnknownValue
	}
	return v
}

func intField(row []string, columns map[string]int, name string) int {
	v := field(row, columns, name)
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// cleanPrice strips currency symbols and thousands separators before
// parsing; anything unparseable normalizes to zero.
func cleanPrice(v string) float64 {
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || price < 0 {
		return 0.0
	}
	return price
}
