package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV column names
const (
	colPostID          = "Post_ID"
	colPostDate        = "Post_Date"
	colPlatform        = "Platform"
	colHashtag         = "Hashtag"
	colContentType     = "Content_Type"
	colRegion          = "Region"
	colViews           = "Views"
	colLikes           = "Likes"
	colShares          = "Shares"
	colComments        = "Comments"
	colEngagementLevel = "Engagement_Level"
)

var requiredColumns = []string{colPostDate, colPlatform, colHashtag}

// ReadCSV parses dataset rows from r. Columns are located by header name,
// so their order does not matter. Missing metric cells read as zero.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dataset")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %s", name)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := Row{
			PostID:          field(colPostID),
			PostDate:        field(colPostDate),
			Platform:        field(colPlatform),
			Hashtag:         field(colHashtag),
			ContentType:     field(colContentType),
			Region:          field(colRegion),
			EngagementLevel: field(colEngagementLevel),
		}
		if row.Views, err = parseCount(field(colViews)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colViews, err)
		}
		if row.Likes, err = parseCount(field(colLikes)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colLikes, err)
		}
		if row.Shares, err = parseCount(field(colShares)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colShares, err)
		}
		if row.Comments, err = parseCount(field(colComments)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colComments, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCSV writes rows with the standard dataset header
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	header := []string{
		colPostID, colPostDate, colPlatform, colHashtag, colContentType, colRegion,
		colViews, colLikes, colShares, colComments, colEngagementLevel,
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.PostID, r.PostDate, r.Platform, r.Hashtag, r.ContentType, r.Region,
			strconv.FormatInt(r.Views, 10),
			strconv.FormatInt(r.Likes, 10),
			strconv.FormatInt(r.Shares, 10),
			strconv.FormatInt(r.Comments, 10),
			r.EngagementLevel,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// parseCount accepts integers and integral floats such as "1200.0"
func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int64(f), nil
}
