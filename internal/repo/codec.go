// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file holds the pure conversion between the client
// facing beanlog.Record (ISO-8601 strings) and the stored domain.BeanLog
// (UTC timestamps). Both directions live here so the create and update paths
// can never drift apart in how dates are written.
package repo

import (
	"fmt"
	"time"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/domain"
)

// DateError reports a date field that could not be encoded.
type DateError struct {
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: invalid date %q", e.Field, e.Value)
}

// EncodeDates converts r into its stored form. Calendar dates become UTC
// midnight of the written date; created_at/updated_at are parsed as instants
// when present and left zero otherwise.
func EncodeDates(r beanlog.Record) (domain.BeanLog, error) {
	b := domain.BeanLog{
		ID:           r.ID,
		Owner:        r.Owner,
		ShopName:     r.ShopName,
		CountryName:  r.CountryName,
		RegionName:   r.RegionName,
		DistrictName: r.DistrictName,
		Farm:         r.Farm,
		ProductName:  r.ProductName,
		Flavor:       r.Flavor,
		Generation:   r.Generation,
		RoastLevel:   r.RoastLevel,
		IsBlend:      r.IsBlend,
		Price:        r.Price,
		Volume:       r.Volume,
		Comment:      r.Comment,
	}

	dates := []struct {
		field string
		in    string
		out   *time.Time
	}{
		{beanlog.FieldPurchaseDate, r.PurchaseDate, &b.PurchaseDate},
		{beanlog.FieldRoastDate, r.RoastDate, &b.RoastDate},
		{beanlog.FieldExpDate, r.ExpDate, &b.ExpDate},
	}
	for _, d := range dates {
		t, err := beanlog.ParseCalendarDate(d.in)
		if err != nil {
			return domain.BeanLog{}, &DateError{Field: d.field, Value: d.in}
		}
		*d.out = t
	}

	stamps := []struct {
		field string
		in    string
		out   *time.Time
	}{
		{"created_at", r.CreatedAt, &b.CreatedAt},
		{"updated_at", r.UpdatedAt, &b.UpdatedAt},
	}
	for _, s := range stamps {
		if s.in == "" {
			continue
		}
		t, err := beanlog.ParseTimestamp(s.in)
		if err != nil {
			return domain.BeanLog{}, &DateError{Field: s.field, Value: s.in}
		}
		*s.out = t
	}
	return b, nil
}

// DecodeDates converts a stored bean log into the client facing record, with
// every temporal field rendered as an ISO-8601 date-time string.
func DecodeDates(b domain.BeanLog) beanlog.Record {
	return beanlog.Record{
		ID:           b.ID,
		Owner:        b.Owner,
		ShopName:     b.ShopName,
		CountryName:  b.CountryName,
		RegionName:   b.RegionName,
		DistrictName: b.DistrictName,
		Farm:         b.Farm,
		ProductName:  b.ProductName,
		Flavor:       b.Flavor,
		Generation:   b.Generation,
		RoastLevel:   b.RoastLevel,
		IsBlend:      b.IsBlend,
		Price:        b.Price,
		Volume:       b.Volume,
		Comment:      b.Comment,
		PurchaseDate: beanlog.FormatTimestamp(b.PurchaseDate),
		RoastDate:    beanlog.FormatTimestamp(b.RoastDate),
		ExpDate:      beanlog.FormatTimestamp(b.ExpDate),
		CreatedAt:    beanlog.FormatTimestamp(b.CreatedAt),
		UpdatedAt:    beanlog.FormatTimestamp(b.UpdatedAt),
	}
}
