package model

import (
	"encoding/json"
	"strconv"
)

const (
	// NotAvailable 文本字段缺失时的占位值
	NotAvailable = "No disponible"
	// PriceOnRequest 没有有效价格或币种时的占位值
	PriceOnRequest = "Consultar"
)

// Coordinate 经纬度,缺失时序列化为 "No disponible"
type Coordinate struct {
	Value float64
	Valid bool
}

func NewCoordinate(v float64) Coordinate {
	return Coordinate{Value: v, Valid: true}
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(strconv.FormatFloat(c.Value, 'f', -1, 64)), nil
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f, ok := v.(float64)
	*c = Coordinate{Value: f, Valid: ok}
	return nil
}

// Property 归一化后的房源记录,字段名是对外约定,所有字段总是存在
type Property struct {
	Title          string     `json:"title"`
	Price          string     `json:"price"`
	Address        string     `json:"address"`
	Locality       string     `json:"locality"`
	Latitude       Coordinate `json:"latitude"`
	Longitude      Coordinate `json:"longitude"`
	Brokers        string     `json:"brokers"`
	ContactPerson  string     `json:"contactPerson"`
	Office         string     `json:"office"`
	DimensionsLand string     `json:"dimensionsLand"`
	M2Total        string     `json:"m2Total"`
	M2Cover        string     `json:"m2Cover"`
	Ambientes      string     `json:"ambientes"`
	Banos          string     `json:"baños"`
	URL            string     `json:"url"`
}
