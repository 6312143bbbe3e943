// Package export serializes prompt data for operator download and parses the
// prompt CSV import format. CSV follows RFC-4180 quoting via encoding/csv;
// JSON exports are pretty-printed.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"promptadmin-backend-go/internal/models"
)

// promptCSVHeader is the import/export column order. Auto-generated fields
// (id, audit fields, counters) are deliberately absent: they are never
// accepted from a file.
var promptCSVHeader = []string{"title", "category", "subcategory", "prompt", "imageRequirement", "isTrending", "tags"}

// Filename builds a download filename with the conventional
// YYYY_MM_DD_HH_MM_SS timestamp, e.g. prompts_export_2026_08_31_14_05_09.csv.
func Filename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("2006_01_02_15_04_05"), ext)
}

// PromptsCSV renders prompts to CSV. Category and subcategory are exported by
// name so the file round-trips through import.
func PromptsCSV(prompts []*models.Prompt, categoryName func(id string) string, subcategoryName func(categoryID, subID string) string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(promptCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range prompts {
		trending := "no"
		if p.IsTrending {
			trending = "yes"
		}
		record := []string{
			p.Title,
			categoryName(p.CategoryID),
			subcategoryName(p.CategoryID, p.SubCategoryID),
			p.Prompt,
			strconv.Itoa(p.ImageRequirement),
			trending,
			strings.Join(p.Tags, ","),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for prompt '%s': %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// PromptsJSON renders prompts as pretty-printed JSON.
func PromptsJSON(prompts []*models.Prompt) ([]byte, error) {
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompts to JSON: %w", err)
	}
	return data, nil
}

// PromptRow is one successfully parsed import row. Category and subcategory
// are carried by name; the caller resolves them to ids.
type PromptRow struct {
	Line             int // 1-based line number in the file
	Title            string
	CategoryName     string
	SubcategoryName  string
	Prompt           string
	ImageRequirement int
	IsTrending       bool
	Tags             []string
}

// RowError reports a rejected import row without aborting the batch.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParsePromptsCSV parses the import format. A header row matching the export
// header is skipped. Rows with malformed values are collected as RowErrors;
// the rest parse normally.
func ParsePromptsCSV(data []byte) ([]PromptRow, []RowError, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // validated per row below

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	var rows []PromptRow
	var rowErrs []RowError

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	for i := start; i < len(records); i++ {
		line := i + 1
		record := records[i]
		if len(record) != len(promptCSVHeader) {
			rowErrs = append(rowErrs, RowError{Line: line, Message: fmt.Sprintf("expected %d columns, got %d", len(promptCSVHeader), len(record))})
			continue
		}

		title := strings.TrimSpace(record[0])
		if title == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Message: "title is required"})
			continue
		}
		promptText := strings.TrimSpace(record[3])
		if promptText == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Message: "prompt text is required"})
			continue
		}

		imageReq, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: fmt.Sprintf("imageRequirement '%s' is not an integer", record[4])})
			continue
		}
		if !models.ValidImageRequirement(imageReq) {
			rowErrs = append(rowErrs, RowError{Line: line, Message: fmt.Sprintf("imageRequirement %d is out of range [-1,4]", imageReq)})
			continue
		}

		trending, err := parseYesNo(record[5])
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}

		rows = append(rows, PromptRow{
			Line:             line,
			Title:            title,
			CategoryName:     strings.TrimSpace(record[1]),
			SubcategoryName:  strings.TrimSpace(record[2]),
			Prompt:           promptText,
			ImageRequirement: imageReq,
			IsTrending:       trending,
			Tags:             splitTags(record[6]),
		})
	}

	return rows, rowErrs, nil
}

func isHeaderRow(record []string) bool {
	if len(record) != len(promptCSVHeader) {
		return false
	}
	for i, col := range promptCSVHeader {
		if !strings.EqualFold(strings.TrimSpace(record[i]), col) {
			return false
		}
	}
	return true
}

// parseYesNo accepts the yes/no spelling of the import format along with
// common boolean spellings. Empty means no.
func parseYesNo(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("isTrending '%s' is not yes/no", raw)
}

// splitTags splits the comma-separated tag column, dropping empties.
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
