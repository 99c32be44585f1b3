package service

import (
	"strings"

	"github.com/LouYuanbo1/listingcrawler/internal/config"
	"github.com/LouYuanbo1/listingcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/listingcrawler/internal/domain/model"
)

type NormalizeOptions struct {
	// ListingURLPrefix 详情页URL前缀,后面直接拼接 slug
	ListingURLPrefix string
	// CleanMissingArea 为 true 时缺失的面积输出 "No disponible",
	// 否则保持站点前端的输出 ("undefined m²" / "null m²")
	CleanMissingArea bool
}

func NormalizeOptionsFrom(cfg *config.Config) NormalizeOptions {
	return NormalizeOptions{
		ListingURLPrefix: cfg.Site.BaseURL + cfg.Site.ListingPath,
		CleanMissingArea: cfg.Normalize.CleanMissingArea,
	}
}

// NormalizeListing 把一条原始房源转换为输出记录,对任何输入都不会失败
func NormalizeListing(raw entity.RawListing, opts NormalizeOptions) model.Property {
	return model.Property{
		Title:          textOr(raw, "title"),
		Price:          formatPrice(raw),
		Address:        textOr(raw, "displayAddress"),
		Locality:       textOr(raw, "geoLabel"),
		Latitude:       coordinate(raw, 1),
		Longitude:      coordinate(raw, 0),
		Brokers:        formatBrokers(raw),
		ContactPerson:  textOr(raw, "associate", "name"),
		Office:         textOr(raw, "associate", "officeName"),
		DimensionsLand: formatArea(raw, "dimensionLand", opts.CleanMissingArea),
		M2Total:        formatArea(raw, "dimensionTotalBuilt", opts.CleanMissingArea),
		M2Cover:        formatArea(raw, "dimensionCovered", opts.CleanMissingArea),
		Ambientes:      formatCount(raw, "totalRooms", "ambientes"),
		Banos:          formatCount(raw, "bathrooms", "baños"),
		URL:            listingURL(raw, opts.ListingURLPrefix),
	}
}

func NormalizeListings(raws []entity.RawListing, opts NormalizeOptions) []model.Property {
	properties := make([]model.Property, 0, len(raws))
	for _, raw := range raws {
		properties = append(properties, NormalizeListing(raw, opts))
	}
	return properties
}

func textOr(raw entity.RawListing, path ...any) string {
	if s, ok := raw.String(path...); ok {
		return s
	}
	return model.NotAvailable
}

func formatPrice(raw entity.RawListing) string {
	price, ok := raw.Number("price")
	if !ok || price <= 0 {
		return model.PriceOnRequest
	}
	currency, ok := raw.String("currency", "value")
	if !ok {
		return model.PriceOnRequest
	}
	return entity.FormatNumber(price) + " " + currency
}

// coordinate location.coordinates 为 [经度, 纬度]
func coordinate(raw entity.RawListing, index int) model.Coordinate {
	v, ok := raw.Lookup("location", "coordinates", index)
	if !ok {
		return model.Coordinate{}
	}
	f, ok := v.(float64)
	if !ok {
		return model.Coordinate{}
	}
	return model.NewCoordinate(f)
}

func formatBrokers(raw entity.RawListing) string {
	brokers, ok := raw.Slice("listBroker")
	if !ok {
		return model.NotAvailable
	}
	parts := make([]string, 0, len(brokers))
	for _, b := range brokers {
		broker, ok := b.(map[string]any)
		if !ok {
			continue
		}
		entry := entity.RawListing(broker)
		name := strings.TrimSpace(scalar(entry, "name") + " " + scalar(entry, "license"))
		if name != "" {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return model.NotAvailable
	}
	return strings.Join(parts, ", ")
}

// scalar 读取字符串或数字字段,其它情况返回空字符串
func scalar(raw entity.RawListing, key string) string {
	v, ok := raw.Lookup(key)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return entity.FormatNumber(x)
	default:
		return ""
	}
}

func formatArea(raw entity.RawListing, key string, clean bool) string {
	v, present := raw.Lookup(key)
	if clean && (!present || v == nil || v == "") {
		return model.NotAvailable
	}
	return entity.FormatValue(v, present) + " m²"
}

func formatCount(raw entity.RawListing, key, unit string) string {
	n, ok := raw.Number(key)
	if !ok || n <= 0 {
		return model.NotAvailable
	}
	return entity.FormatNumber(n) + " " + unit
}

func listingURL(raw entity.RawListing, prefix string) string {
	slug, ok := raw.String("slug")
	if !ok {
		return model.NotAvailable
	}
	return prefix + slug
}
