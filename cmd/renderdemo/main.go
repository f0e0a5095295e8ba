// Command renderdemo renders a sample workbook and slide deck without
// calling any model, for eyeballing the output files in a real viewer.
package main

import (
	"flag"
	"log"

	"docgen-backend/internal/render/deck"
	"docgen-backend/internal/render/spreadsheet"
	"docgen-backend/internal/structurer"
)

func main() {
	out := flag.String("out", "./data/documents", "output directory for rendered files")
	flag.Parse()

	sheets := []structurer.Sheet{
		{
			Name: "Revenue",
			Rows: [][]string{
				{"Quarter", "Region", "Amount"},
				{"Q1", "APAC", "120000"},
				{"Q1", "EMEA", "98000"},
				{"Q2", "APAC", "134000"},
			},
		},
		{
			Name: "담당자",
			Rows: [][]string{
				{"이름", "역할"},
				{"김민준", "영업"},
				{"이서연", "기획"},
			},
		},
	}
	sheetBuilder := &spreadsheet.Builder{OutputDir: *out}
	wbName, err := sheetBuilder.Build("분기별 매출 Report", sheets)
	if err != nil {
		log.Fatalf("render workbook: %v", err)
	}
	log.Printf("wrote %s", wbName)

	slides := []structurer.Slide{
		{
			Title:   "Roadmap Overview",
			Content: "Current status\n\nNext milestones\nOpen risks",
			Notes:   "Keep this one under two minutes.",
		},
		{
			Title:   "Q3 목표",
			Content: "신규 고객 10곳 확보\n파트너십 2건 체결",
		},
	}
	deckBuilder := &deck.Builder{OutputDir: *out}
	deckName, err := deckBuilder.Build("2026 Roadmap", slides)
	if err != nil {
		log.Fatalf("render deck: %v", err)
	}
	log.Printf("wrote %s", deckName)
}
