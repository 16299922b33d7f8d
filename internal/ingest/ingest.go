package ingest

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatCSV, FormatTXT:
		return f, nil
	default:
		return "", &domain.FormatError{Format: s, Reason: "unsupported format"}
	}
}

// Result is one parsed payload. Skipped counts rows that had no usable text;
// those never become records but do not fail the upload.
type Result struct {
	Records []domain.Record
	Skipped int
}

// Parse turns an uploaded payload into records. A payload that cannot be
// parsed at all yields *domain.FormatError and no records; per-row problems
// are tallied in Result.Skipped instead.
func Parse(name string, data []byte, format Format) (Result, error) {
	text := decodeText(data)
	if strings.TrimSpace(text) == "" {
		return Result{}, &domain.FormatError{Format: string(format), Reason: "empty input"}
	}
	if format == FormatAuto || format == "" {
		format = detect(name, text)
	}
	switch format {
	case FormatJSON:
		return parseJSON(text)
	case FormatCSV:
		return parseCSV(text)
	case FormatTXT:
		return parseTXT(text), nil
	default:
		return Result{}, &domain.FormatError{Format: string(format), Reason: "unsupported format"}
	}
}

// detect infers the format from the file extension, falling back to content
// sniffing for extensionless uploads and pasted payloads.
func detect(name, text string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".txt", ".text", ".log":
		return FormatTXT
	}
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return FormatJSON
	}
	head, _, _ := strings.Cut(t, "\n")
	if strings.Count(head, ",") > 0 || strings.Count(head, ";") > 0 {
		return FormatCSV
	}
	return FormatTXT
}

func parseJSON(text string) (Result, error) {
	var root any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return Result{}, &domain.FormatError{Format: "json", Reason: "invalid JSON", Err: err}
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		if arr, ok := v["reviews"].([]any); ok {
			items = arr
		} else {
			items = []any{v} // single review object
		}
	default:
		return Result{}, &domain.FormatError{Format: "json", Reason: "expected an object or array of reviews"}
	}
	if len(items) == 0 {
		return Result{}, &domain.FormatError{Format: "json", Reason: "no reviews found"}
	}

	var res Result
	for i, it := range items {
		switch v := it.(type) {
		case map[string]any:
			if rec, ok := mapRecord(v, i+1); ok {
				res.Records = append(res.Records, rec)
			} else {
				res.Skipped++
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				res.Records = append(res.Records, textRecord(s, i+1))
			} else {
				res.Skipped++
			}
		default:
			res.Skipped++
		}
	}
	return res, nil
}

func parseCSV(text string) (Result, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return Result{}, &domain.FormatError{Format: "csv", Reason: "unreadable CSV", Err: err}
	}
	if len(rows) < 2 {
		return Result{}, &domain.FormatError{Format: "csv", Reason: "no data rows"}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalizeHeader(h)
	}

	var res Result
	for i, row := range rows[1:] {
		m := make(map[string]any, len(headers))
		for j, h := range headers {
			if h == "" || j >= len(row) {
				continue
			}
			m[h] = row[j]
		}
		if rec, ok := mapRecord(m, i+1); ok {
			res.Records = append(res.Records, rec)
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

func parseTXT(text string) Result {
	var res Result
	n := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		n++
		res.Records = append(res.Records, textRecord(line, n))
	}
	return res
}

// sniffDelimiter picks between comma and semicolon based on the header line.
func sniffDelimiter(text string) rune {
	head, _, _ := strings.Cut(text, "\n")
	if strings.Count(head, ";") > strings.Count(head, ",") {
		return ';'
	}
	return ','
}

// normalizeHeader folds a CSV header to the alias vocabulary: trimmed, lower
// case, spaces and dashes as underscores. "Review Text" matches "review_text".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}
