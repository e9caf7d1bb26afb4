// Package data reads the input files of the command line tools: JSON
// documents, close-price series and option quotes in CSV.
package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banachtech/zebra-engine/option"
)

var (
	ErrEmpty     = errors.New("no rows")
	ErrNoColumn  = errors.New("missing column")
	ErrBadNumber = errors.New("bad number")
)

// Quote is an observed option price.
type Quote struct {
	Strike   float64     `json:"strike"`
	Maturity float64     `json:"maturity"`
	Price    float64     `json:"price"`
	Type     option.Type `json:"type"`
}

func readCSV(filename string) ([]string, [][]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, ErrEmpty
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return header, rows[1:], nil
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func number(rows [][]string, row, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rows[row][col]), 64)
	if err != nil {
		// header is line 1
		return 0, fmt.Errorf("%w at line %d: %q", ErrBadNumber, row+2, rows[row][col])
	}
	return v, nil
}

// LoadCloses reads a price history with a header row. The "close" column is
// used when present, otherwise the last column. Rows are taken in file order.
func LoadCloses(filename string) ([]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCloses(f)
}

// ReadCloses is LoadCloses over a reader.
func ReadCloses(r io.Reader) ([]float64, error) {
	header, rows, err := parseCSV(r)
	if err != nil {
		return nil, err
	}
	col := column(header, "close")
	if col < 0 {
		col = len(header) - 1
	}
	out := make([]float64, len(rows))
	for i := range rows {
		if out[i], err = number(rows, i, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadQuotes reads option quotes with columns strike, maturity, price and an
// optional type that defaults to call.
func LoadQuotes(filename string) ([]Quote, error) {
	header, rows, err := readCSV(filename)
	if err != nil {
		return nil, err
	}
	cols := map[string]int{}
	for _, name := range []string{"strike", "maturity", "price"} {
		if cols[name] = column(header, name); cols[name] < 0 {
			return nil, fmt.Errorf("%w %q", ErrNoColumn, name)
		}
	}
	typ := column(header, "type")

	out := make([]Quote, len(rows))
	for i := range rows {
		q := Quote{Type: option.Call}
		if q.Strike, err = number(rows, i, cols["strike"]); err != nil {
			return nil, err
		}
		if q.Maturity, err = number(rows, i, cols["maturity"]); err != nil {
			return nil, err
		}
		if q.Price, err = number(rows, i, cols["price"]); err != nil {
			return nil, err
		}
		if typ >= 0 {
			switch t := strings.ToLower(strings.TrimSpace(rows[i][typ])); t {
			case "c", "call", "":
			case "p", "put":
				q.Type = option.Put
			default:
				return nil, fmt.Errorf("line %d: unknown option type %q", i+2, t)
			}
		}
		out[i] = q
	}
	return out, nil
}
