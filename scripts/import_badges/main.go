package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: import_badges <catalog.xlsx>")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	totalImported := 0

	for _, sheetName := range sheets {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 4 { // Skip header or invalid rows
				continue
			}

			// row[0]: Code
			// row[1]: Name
			// row[2]: Tier (bronze/silver/gold/platinum)
			// row[3]: Point Threshold

			code := strings.TrimSpace(row[0])
			name := strings.TrimSpace(row[1])
			tier := strings.ToLower(strings.TrimSpace(row[2]))
			if code == "" || name == "" {
				fmt.Printf("Missing code or name in row %d\n", i)
				continue
			}

			switch tier {
			case models.BadgeTierBronze, models.BadgeTierSilver, models.BadgeTierGold, models.BadgeTierPlatinum:
			default:
				fmt.Printf("Invalid tier %q in row %d\n", row[2], i)
				continue
			}

			threshold, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
			if err != nil || threshold < 0 {
				fmt.Printf("Invalid point threshold %q in row %d\n", row[3], i)
				continue
			}

			badge := models.Badge{
				Code:           code,
				Name:           name,
				Tier:           tier,
				PointThreshold: threshold,
			}

			// Existing codes are updated in place so the importer can be rerun.
			result := db.Where("code = ?", code).Assign(models.Badge{
				Name:           name,
				Tier:           tier,
				PointThreshold: threshold,
			}).FirstOrCreate(&badge)
			if result.Error != nil {
				fmt.Printf("Error importing badge in row %d: %v\n", i, result.Error)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d badges.\n", totalImported)
}
