// Command load_ingredients imports the ingredient catalog from a CSV
// or JSON file. CSV rows are "name,measurement_unit"; JSON is a list
// of {"name": ..., "measurement_unit": ...} objects. Existing rows
// with the same name and unit are skipped.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/model"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "Path to the ingredients file (.csv or .json)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ingredients, err := readIngredients(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}
	if len(ingredients) == 0 {
		log.Fatalf("No ingredients found in %s", *path)
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(ingredients, 500)
	if res.Error != nil {
		log.Fatalf("Failed to insert ingredients: %v", res.Error)
	}
	log.Printf("Loaded %d of %d ingredients (%d already present)",
		res.RowsAffected, len(ingredients), int64(len(ingredients))-res.RowsAffected)
}

func readIngredients(path string) ([]model.Ingredient, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".json":
		return readJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

func readCSV(path string) ([]model.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	ingredients := make([]model.Ingredient, 0, len(records))
	for _, record := range records {
		ingredients = append(ingredients, model.Ingredient{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		})
	}
	return ingredients, nil
}

func readJSON(path string) ([]model.Ingredient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	ingredients := make([]model.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, model.Ingredient{
			Name:            strings.TrimSpace(row.Name),
			MeasurementUnit: strings.TrimSpace(row.MeasurementUnit),
		})
	}
	return ingredients, nil
}
