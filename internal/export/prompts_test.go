package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/models"
)

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "prompts_export_2026_08_31_14_05_09.csv", Filename("prompts_export", "csv", at))
	assert.Equal(t, "prompts_export_2026_08_31_14_05_09.json", Filename("prompts_export", "json", at))
}

func TestParsePromptsCSVSkipsHeader(t *testing.T) {
	data := []byte("Title,Category,Subcategory,Prompt,ImageRequirement,IsTrending,Tags\n" +
		"Golden hour,Portraits,,text,0,no,\n")

	rows, rowErrs, err := ParsePromptsCSV(data)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Golden hour", rows[0].Title)
}

func TestParsePromptsCSVWithoutHeader(t *testing.T) {
	rows, rowErrs, err := ParsePromptsCSV([]byte("Golden hour,Portraits,,text,0,no,\n"))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Line)
}

func TestParsePromptsCSVFieldConversions(t *testing.T) {
	data := []byte("title,category,subcategory,prompt,imageRequirement,isTrending,tags\n" +
		`Golden hour,Portraits,Weddings,"a portrait, at golden hour",2,Yes," sunset ,warm,,"` + "\n" +
		"No trend,Portraits,,text,-1,,\n")

	rows, rowErrs, err := ParsePromptsCSV(data)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].ImageRequirement)
	assert.True(t, rows[0].IsTrending)
	assert.Equal(t, []string{"sunset", "warm"}, rows[0].Tags)
	assert.Equal(t, "a portrait, at golden hour", rows[0].Prompt)

	assert.Equal(t, -1, rows[1].ImageRequirement)
	assert.False(t, rows[1].IsTrending, "empty isTrending means no")
	assert.Empty(t, rows[1].Tags)
}

func TestParsePromptsCSVCollectsRowErrors(t *testing.T) {
	data := []byte(strings.Join([]string{
		"title,category,subcategory,prompt,imageRequirement,isTrending,tags",
		"Short row,Portraits,text",
		",Portraits,,text,0,no,",
		"No text,Portraits,,,0,no,",
		"Bad req,Portraits,,text,five,no,",
		"Out of range,Portraits,,text,7,no,",
		"Bad flag,Portraits,,text,0,maybe,",
		"Good row,Portraits,,text,0,no,",
	}, "\n"))

	rows, rowErrs, err := ParsePromptsCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Good row", rows[0].Title)

	require.Len(t, rowErrs, 6)
	assert.Equal(t, 2, rowErrs[0].Line)
	assert.Contains(t, rowErrs[0].Message, "columns")
	assert.Contains(t, rowErrs[1].Message, "title is required")
	assert.Contains(t, rowErrs[2].Message, "prompt text is required")
	assert.Contains(t, rowErrs[3].Message, "not an integer")
	assert.Contains(t, rowErrs[4].Message, "out of range")
	assert.Contains(t, rowErrs[5].Message, "not yes/no")
}

func TestParsePromptsCSVEmptyInput(t *testing.T) {
	rows, rowErrs, err := ParsePromptsCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rowErrs)
}

func TestPromptsCSVQuotesEmbeddedCommas(t *testing.T) {
	prompts := []*models.Prompt{
		{
			ID:               "p-1",
			Title:            "Golden hour",
			Prompt:           "a portrait, at golden hour",
			CategoryID:       "cat-1",
			SubCategoryID:    "sub-1",
			ImageRequirement: 1,
			IsTrending:       true,
			Tags:             []string{"sunset", "warm"},
		},
	}
	data, err := PromptsCSV(prompts,
		func(string) string { return "Portraits" },
		func(string, string) string { return "Weddings" })
	require.NoError(t, err)

	content := string(data)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "title,category,subcategory,prompt,imageRequirement,isTrending,tags", lines[0])
	assert.Contains(t, lines[1], `"a portrait, at golden hour"`)
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[1], `"sunset,warm"`)

	// And it parses back without loss.
	rows, rowErrs, err := ParsePromptsCSV(data)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "a portrait, at golden hour", rows[0].Prompt)
	assert.Equal(t, []string{"sunset", "warm"}, rows[0].Tags)
}
