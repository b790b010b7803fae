package main

import (
	"fmt"
	"log"
	"os"

	"ie-tracker-report/internal/config"
	"ie-tracker-report/internal/services"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Parse command line arguments
	if len(os.Args) < 2 {
		fmt.Println("Usage: report-batch <input-file> [output-directory]")
		fmt.Println("Example: report-batch raw_data.csv reports")
		os.Exit(1)
	}

	inputPath := os.Args[1]
	outputDir := cfg.Report.OutputDir
	if len(os.Args) >= 3 {
		outputDir = os.Args[2]
	}

	file, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", inputPath, err)
	}
	defer file.Close()

	// Build the pipeline
	dataService := services.NewDataService()
	periodService := services.NewPeriodService()
	aggregateService := services.NewAggregateService(periodService)
	layoutService := services.NewLayoutService()
	excelService := services.NewExcelService()

	table, err := dataService.LoadFile(inputPath, file)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", inputPath, err)
	}

	records, dropped := dataService.Clean(table)
	if dropped > 0 {
		fmt.Printf("Dropped %d rows with unparseable dates\n", dropped)
	}
	if len(records) == 0 {
		fmt.Println("No data found or no valid dates in the dataset.")
		os.Exit(1)
	}

	months := periodService.MonthsIn(records)
	fmt.Printf("Found %d months of data\n", len(months))

	reportService := services.NewReportService(
		dataService,
		periodService,
		aggregateService,
		layoutService,
		excelService,
		nil, // no AI in batch mode
		nil, // no session store in batch mode
	)

	workbooks, err := reportService.GenerateWorkbooks(records)
	if err != nil {
		log.Fatalf("Failed to generate workbooks: %v", err)
	}

	paths, err := reportService.SaveWorkbooks(workbooks, outputDir)
	if err != nil {
		log.Fatalf("Failed to save workbooks: %v", err)
	}

	for i, wb := range workbooks {
		fmt.Printf("Report generated for %s: %s\n", wb.MonthName, paths[i])
		fmt.Printf("  - Created %d weekly sheets and 1 monthly sheet\n", wb.WeekSheets)
	}

	fmt.Printf("\nAll reports have been generated in the '%s' directory.\n", outputDir)
}
