// Package deck renders slide lists into .pptx presentations. The package
// writes the OOXML package parts directly (archive/zip plus XML part
// templates) rather than going through a presentation library.
package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"docgen-backend/internal/render"
	"docgen-backend/internal/structurer"
)

const (
	// Extension is the file extension of rendered presentations.
	Extension = ".pptx"
	// ContentType is the MIME type of rendered presentations.
	ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// Builder renders slide lists into presentation files under OutputDir.
type Builder struct {
	OutputDir string
	Now       func() time.Time
}

// Build renders a title slide followed by one content slide per record and
// persists the package. The title slide is emitted even for an empty list.
// The returned file name is only published after the write fully succeeds.
func (b *Builder) Build(title string, slides []structurer.Slide) (string, error) {
	data, err := zipParts(assembleParts(title, slides))
	if err != nil {
		return "", fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	fileName := render.FileName(title, now(), Extension)
	if err := render.WriteFile(b.OutputDir, fileName, data); err != nil {
		return "", err
	}
	return fileName, nil
}

// part is one file of the OOXML package, in write order.
type part struct {
	name string
	data string
}

// assembleParts lays out the full package: fixed scaffolding (content types,
// master, layouts, theme), the title slide, the content slides, and note
// parts for slides carrying non-blank notes.
func assembleParts(title string, slides []structurer.Slide) []part {
	deckSlides := make([]slidePart, 0, len(slides)+1)
	deckSlides = append(deckSlides, titleSlide(title))
	for _, s := range slides {
		deckSlides = append(deckSlides, contentSlide(s))
	}

	withNotes := false
	for _, s := range deckSlides {
		if s.notes != "" {
			withNotes = true
			break
		}
	}

	parts := []part{
		{"[Content_Types].xml", contentTypesXML(len(deckSlides), countNotes(deckSlides), withNotes)},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(len(deckSlides), withNotes)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(deckSlides), withNotes)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML("title", "Title Slide")},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRelsXML},
		{"ppt/slideLayouts/slideLayout2.xml", slideLayoutXML("obj", "Title and Content")},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", layoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML("Office Theme")},
	}

	if withNotes {
		parts = append(parts,
			part{"ppt/notesMasters/notesMaster1.xml", notesMasterXML},
			part{"ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRelsXML},
			part{"ppt/theme/theme2.xml", themeXML("Notes Theme")},
		)
	}

	noteIdx := 0
	for i, s := range deckSlides {
		num := i + 1
		layout := 2
		if i == 0 {
			layout = 1
		}
		hasNotes := s.notes != ""
		var notesRef int
		if hasNotes {
			noteIdx++
			notesRef = noteIdx
		}
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", num), s.xml},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num), slideRelsXML(layout, notesRef)},
		)
		if hasNotes {
			parts = append(parts,
				part{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", notesRef), notesSlideXML(s.notes)},
				part{fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", notesRef), notesSlideRelsXML(num)},
			)
		}
	}
	return parts
}

func countNotes(deckSlides []slidePart) int {
	count := 0
	for _, s := range deckSlides {
		if s.notes != "" {
			count++
		}
	}
	return count
}

func zipParts(parts []part) ([]byte, error) {
	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	for _, p := range parts {
		w, err := writer.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}
