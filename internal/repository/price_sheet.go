package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MARUGO-s/app-sub001/internal/types"
	"github.com/MARUGO-s/app-sub001/internal/units"
)

// ErrPriceSheetNotFound is returned by ReadPriceSheet when the owner never
// uploaded a sheet.
var ErrPriceSheetNotFound = errors.New("price sheet not found")

const priceSheetPrefix = "price-sheets/"

// ObjectGetter is the part of the S3 client the price repository needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// PriceSheetRepository reads vendor price sheets imported as CSV into S3,
// one object per owner.
type PriceSheetRepository struct {
	client ObjectGetter
	bucket string
}

func NewPriceSheetRepository(client ObjectGetter, bucket string) *PriceSheetRepository {
	return &PriceSheetRepository{client: client, bucket: bucket}
}

// PriceSheetKey returns the object key of an owner's sheet.
func PriceSheetKey(ownerID string) string {
	return priceSheetPrefix + ownerID + ".csv"
}

// FetchPriceList returns the owner's prices keyed by normalized ingredient
// key. An owner without a sheet has an empty price list.
func (r *PriceSheetRepository) FetchPriceList(ctx context.Context, ownerID string) (map[string]types.PriceEntry, error) {
	prices, err := r.ReadPriceSheet(ctx, ownerID)
	if errors.Is(err, ErrPriceSheetNotFound) {
		return map[string]types.PriceEntry{}, nil
	}
	return prices, err
}

// ReadPriceSheet downloads and parses the owner's sheet.
func (r *PriceSheetRepository) ReadPriceSheet(ctx context.Context, ownerID string) (map[string]types.PriceEntry, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(PriceSheetKey(ownerID)),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrPriceSheetNotFound
		}
		return nil, fmt.Errorf("failed to download price sheet: %w", err)
	}
	defer out.Body.Close()

	return ParsePriceSheet(out.Body)
}

var priceColumns = map[string]string{
	"name":       "name",
	"ingredient": "name",
	"品名":         "name",
	"price":      "price",
	"単価":         "price",
	"unit":       "unit",
	"単位":         "unit",
	"vendor":     "vendor",
	"supplier":   "vendor",
	"取引先":        "vendor",
}

// ParsePriceSheet reads a CSV price sheet. The header row names the columns;
// name and price are required. Later rows for the same ingredient replace
// earlier ones.
func ParsePriceSheet(r io.Reader) (map[string]types.PriceEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]types.PriceEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price sheet header: %w", err)
	}

	index := map[string]int{}
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if field, ok := priceColumns[col]; ok {
			if _, seen := index[field]; !seen {
				index[field] = i
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("price sheet has no name column")
	}
	if _, ok := index["price"]; !ok {
		return nil, fmt.Errorf("price sheet has no price column")
	}

	prices := map[string]types.PriceEntry{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read price sheet line %d: %w", line, err)
		}

		key := units.NormalizeKey(cell(record, index, "name"))
		if key == "" {
			continue
		}
		price, ok := parsePrice(cell(record, index, "price"))
		if !ok {
			continue
		}
		prices[key] = types.PriceEntry{
			Price:  price,
			Unit:   strings.TrimSpace(cell(record, index, "unit")),
			Vendor: strings.TrimSpace(cell(record, index, "vendor")),
		}
	}
	return prices, nil
}

func cell(record []string, index map[string]int, field string) string {
	i, ok := index[field]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

var priceNoise = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "")

func parsePrice(raw string) (float64, bool) {
	s := priceNoise.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
