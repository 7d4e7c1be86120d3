package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"
)

// LoadCSV reads daily bars from a CSV file with rows of the form
//
//	date,close[,extra...]
//
// where date is YYYY-MM-DD or RFC3339. A single header row is allowed.
// Files ending in .xz are decompressed transparently; .zip archives are
// extracted and the first CSV member is read.
func LoadCSV(path string) (Series, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return loadZip(path)

	case strings.HasSuffix(path, ".xz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return readBars(r)

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readBars(f)
	}
}

func loadZip(path string) (Series, error) {
	dir, err := os.MkdirTemp("", "calspread-bars-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(path, dir); err != nil {
		return nil, fmt.Errorf("unzip %s: %w", path, err)
	}

	var member string
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if member == "" && !d.IsDir() && strings.HasSuffix(p, ".csv") {
			member = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if member == "" {
		return nil, fmt.Errorf("no CSV member in %s", path)
	}

	f, err := os.Open(member)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBars(f)
}

func readBars(rd io.Reader) (Series, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	var (
		bars     Series
		sawFirst bool
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row.
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	if err := bars.Validate(); err != nil {
		return nil, err
	}
	return bars, nil
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 2 {
		return Bar{}, fmt.Errorf("bad row (need at least date,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse("2006-01-02", ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, ts)
		if err2 != nil {
			return Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
		}
		t = t2
	}

	c, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Bar{}, fmt.Errorf("bad close %q: %w", row[1], err)
	}

	return Bar{Time: t, Close: c}, nil
}

// SaveCSV writes bars as date,close rows with a header, the format LoadCSV
// reads back.
func SaveCSV(path string, bars Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "close"}); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			b.Time.UTC().Format("2006-01-02"),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
