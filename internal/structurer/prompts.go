package structurer

import (
	"fmt"
	"strings"
)

const (
	tableShape  = `{ "Sheet1": [["Column1", "Column2"], ["Data1", "Data2"]], "Sheet2": [[...], [...]] }`
	slidesShape = `{ "slides": [{"title": "Slide 1 title", "content": "Slide 1 content", "notes": "Slide 1 notes"}, ...] }`
)

func buildTablePrompt(title, content string, sections []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\nContent: %s\n\n", title, content)
	b.WriteString("Based on the information above, design the structure of a spreadsheet.\n")
	b.WriteString("It may contain multiple sheets, and each sheet holds rows and columns of data.\n")
	b.WriteString("The first row of every sheet must be the column headers.\n")
	b.WriteString("Return JSON where each sheet name is a key and its value is a 2D array of row data.\n")
	writeSections(&b, sections)
	writeShape(&b, tableShape)
	return b.String()
}

func buildSlidesPrompt(title, content string, sections []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\nContent: %s\n\n", title, content)
	b.WriteString("Based on the information above, design the slide structure of a presentation.\n")
	b.WriteString("Each slide has a title, content, and optionally speaker notes.\n")
	b.WriteString("Return the slide list as JSON; every slide is an object with title, content and notes.\n")
	writeSections(&b, sections)
	writeShape(&b, slidesShape)
	return b.String()
}

func buildSectionsPrompt(title string, sections []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\n", title)
	b.WriteString("Write the content of a document made up of the following sections:\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "- %s\n", section)
	}
	b.WriteString("\nReturn the content of each section as JSON. Each section name is a key and its value is that section's content.\n")
	writeShape(&b, `{ "section1": "content1", "section2": "content2", ... }`)
	return b.String()
}

func writeSections(b *strings.Builder, sections []string) {
	if len(sections) == 0 {
		return
	}
	b.WriteString("Make sure the result covers these sections:\n")
	for _, section := range sections {
		fmt.Fprintf(b, "- %s\n", section)
	}
}

func writeShape(b *strings.Builder, shape string) {
	fmt.Fprintf(b, "\nThe response must follow this shape: %s\n", shape)
	b.WriteString("Return valid JSON only.\n")
}
