// package formatter provides functions to export game list data to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a format name, accepting "md" and "text" as aliases. Empty input means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, name)
	}
}

// ExportToCSV converts a ListExport to CSV format with columns: Position, ID, Title, Year, Image URL, Description
func ExportToCSV(export *models.ListExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Year", "Image URL", "Description"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, game := range export.Games {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatInt(game.ID, 10),
			game.Title,
			strconv.Itoa(game.Year),
			game.ImgURL,
			game.ShortDescription,
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

// ExportToMarkdown converts a ListExport to Markdown, one numbered entry per game in display order
func ExportToMarkdown(export *models.ListExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.List.Name)
	fmt.Fprintf(&buf, "**Games**: %d\n\n", len(export.Games))

	buf.WriteString("## Games\n\n")
	for i, game := range export.Games {
		fmt.Fprintf(&buf, "%d. **%s** (%d)", i+1, game.Title, game.Year)
		if game.ShortDescription != "" {
			fmt.Fprintf(&buf, " - %s", game.ShortDescription)
		}
		buf.WriteString("\n")
		if game.ImgURL != "" {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", game.Title, game.ImgURL)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ListExport to plain text format
func ExportToText(export *models.ListExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "List: %s\n", export.List.Name)
	fmt.Fprintf(&buf, "Games: %d\n\n", len(export.Games))

	for i, game := range export.Games {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, game.Title, game.Year)
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of list metadata (without games)
func ToMetadataJSON(list models.GameList, gameCount int) ([]byte, error) {
	meta := struct {
		models.GameList
		GameCount int `json:"gameCount"`
	}{list, gameCount}
	return shared.MarshalJSON(meta, true)
}

// baseName is the file stem used for a list's export files.
func baseName(list models.GameList) string {
	return fmt.Sprintf("list_%d", list.ID)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	GamesFile    string
	MetadataFile string
}

// WriteCSVExport exports a list to CSV format with accompanying metadata JSON file.
//
// Creates {base}_games.csv and {base}_metadata.json, where base defaults to list_{id}.
func WriteCSVExport(export *models.ListExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = baseName(export.List)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	gamesFile := baseFilepath + "_games.csv"
	if err := os.WriteFile(gamesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.List, len(export.Games))
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		GamesFile:    gamesFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a list to {outputDir}/README.md, creating the directory.
//
// Directory name defaults to list_{id}.
func WriteMarkdownExport(export *models.ListExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = baseName(export.List)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a list to plain text format.
//
// Defaults to list_{id}_games.txt as the filename.
func WriteTextExport(export *models.ListExport, path string) (string, error) {
	if path == "" {
		path = baseName(export.List) + "_games.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the full export as indented JSON, defaulting to list_{id}.json.
func WriteJSONExport(export *models.ListExport, path string) (string, error) {
	if path == "" {
		path = baseName(export.List) + ".json"
	}

	data, err := shared.MarshalJSON(export, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}

	return path, nil
}

// WriteExport writes export in format under dir and returns the files created.
func WriteExport(export *models.ListExport, format Format, dir string) ([]string, error) {
	base := filepath.Join(dir, baseName(export.List))

	switch format {
	case FormatCSV:
		res, err := WriteCSVExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.GamesFile, res.MetadataFile}, nil
	case FormatMarkdown:
		file, err := WriteMarkdownExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return []string{file}, nil
	case FormatText:
		file, err := WriteTextExport(export, base+"_games.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{file}, nil
	case FormatJSON:
		file, err := WriteJSONExport(export, base+".json")
		if err != nil {
			return nil, err
		}
		return []string{file}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}
