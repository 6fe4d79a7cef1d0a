package main

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Generates sample catalogue seed files, one plain CSV and one gzipped,
// in the format the seeder consumes:
// name,description,stock,retail_price,wholesale_price.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	rows := [][]string{
		{"name", "description", "stock", "retail_price", "wholesale_price"},
		{"Mechanical Keyboard", "87-key hot-swappable", "25", "129.99", "78.00"},
		{"Wireless Mouse", "2.4GHz with USB receiver", "40", "39.99", "21.50"},
		{"USB-C Hub", "7-in-1 with HDMI", "15", "54.99", "30.25"},
		{"Laptop Stand", "Aluminium, adjustable", "30", "34.99", "18.00"},
		{"Webcam Cover", "Slide type, 3 pack", "200", "6.99", "1.20"},
		// No prices yet; the catalogue accepts these but checkout rejects them.
		{"Mystery Gadget", "Pricing pending", "10", "", ""},
	}

	plainPath := filepath.Join(dataDir, "products.csv")
	if err := writeCSV(plainPath, rows, false); err != nil {
		log.Fatalf("Failed to write %s: %v", plainPath, err)
	}
	log.Printf("Wrote %s (%d products)", plainPath, len(rows)-1)

	gzPath := filepath.Join(dataDir, "products.csv.gz")
	if err := writeCSV(gzPath, rows, true); err != nil {
		log.Fatalf("Failed to write %s: %v", gzPath, err)
	}
	log.Printf("Wrote %s (%d products)", gzPath, len(rows)-1)
}

func writeCSV(path string, rows [][]string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		out = gz
	}

	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}
