// package formatter exports property lists to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/shopspring/decimal"
)

// PropertyExport is a titled list of properties, such as a wishlist or search result.
type PropertyExport struct {
	Title      string                 `json:"title"`
	ExportedAt time.Time              `json:"exported_at"`
	Properties []models.Accommodation `json:"properties"`
}

// FormatPrice renders an amount with thousands separators and two decimals.
func FormatPrice(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatNightly renders a nightly rate.
func FormatNightly(price float64) string {
	return FormatPrice(decimal.NewFromFloat(price)) + " / night"
}

// ExportToCSV converts a PropertyExport to CSV with columns: ID, Name, Type, Location, Price, Rating, Amenities, Latitude, Longitude
func ExportToCSV(export *PropertyExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Type", "Location", "Price", "Rating", "Amenities", "Latitude", "Longitude"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range export.Properties {
		record := []string{
			strconv.FormatInt(p.AccommodationID, 10),
			p.Name,
			p.Type,
			p.Location,
			decimal.NewFromFloat(p.PricePerNight).StringFixed(2),
			strconv.FormatFloat(p.AverageRating, 'f', 1, 64),
			strings.Join(p.AmenityList(), "; "),
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PropertyExport to Markdown with an optional cover image
func ExportToMarkdown(export *PropertyExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Properties**: %d\n", len(export.Properties))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format("2006-01-02 15:04"))
	}
	buf.WriteString("\n## Properties\n\n")

	for i, p := range export.Properties {
		locationPart := ""
		if p.Location != "" {
			locationPart = fmt.Sprintf(" (%s)", p.Location)
		}
		fmt.Fprintf(&buf, "%d. **%s**%s - %s\n", i+1, p.Name, locationPart, FormatNightly(p.PricePerNight))
		if amenities := p.AmenityList(); len(amenities) > 0 {
			fmt.Fprintf(&buf, "   - Amenities: %s\n", strings.Join(amenities, ", "))
		}
		if p.HasCoordinates() {
			fmt.Fprintf(&buf, "   - [Map](%s)\n", shared.MapURL(p.Latitude, p.Longitude, 15))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PropertyExport to plain text
func ExportToText(export *PropertyExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", export.Title)
	fmt.Fprintf(&buf, "Properties: %d\n\n", len(export.Properties))

	for i, p := range export.Properties {
		fmt.Fprintf(&buf, "%d. [%d] %s - %s\n", i+1, p.AccommodationID, p.Name, FormatNightly(p.PricePerNight))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToJSON renders the export as indented JSON.
func ToJSON(export *PropertyExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteCSVExport writes {base}.csv.
func WriteCSVExport(export *PropertyExport, base string) (string, error) {
	data, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	path := base + ".csv"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports to a dedicated directory: {dir}/README.md and, when imageURL
// downloads, {dir}/cover.jpg. A failed download only drops the cover.
func WriteMarkdownExport(export *PropertyExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err == nil {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport writes {base}.txt.
func WriteTextExport(export *PropertyExport, base string) (string, error) {
	data, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	path := base + ".txt"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes {base}.json.
func WriteJSONExport(export *PropertyExport, base string) (string, error) {
	data, err := ToJSON(export)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	path := base + ".json"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

// Write exports in the named format (csv, markdown, txt, json) and returns the files written.
// Markdown exports go to a directory named base and use the first property photo as cover.
func Write(export *PropertyExport, format, base string) ([]string, error) {
	switch format {
	case "csv":
		path, err := WriteCSVExport(export, base)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "markdown", "md":
		var cover string
		if len(export.Properties) > 0 {
			cover = export.Properties[0].PhotoURL
		}
		res, err := WriteMarkdownExport(export, base, cover)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case "txt", "text":
		path, err := WriteTextExport(export, base)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "json", "":
		path, err := WriteJSONExport(export, base)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
}
