package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
)

// FlexString accepts JSON strings and numbers; Steam is not consistent about which it sends.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = FlexString(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return eris.Wrapf(err, "expected string or number, got %s", data)
	}
	*s = FlexString(number.String())
	return nil
}

// FlexBool accepts true/false, 0/1 and "0"/"1".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	value := string(bytes.Trim(data, `"`))
	switch value {
	case "true":
		*b = true
	case "false", "", "null":
		*b = false
	default:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return eris.Wrapf(err, "expected boolean, got %s", data)
		}
		*b = number != 0
	}
	return nil
}

// List decodes a JSON array, treating "" and null as empty. Legacy inventory descriptions use "" for
// lists they have nothing in.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

type Asset struct {
	Id         FlexString `json:"id"`
	ClassId    FlexString `json:"classid"`
	InstanceId FlexString `json:"instanceid"`
	Amount     FlexString `json:"amount"`
	Pos        int        `json:"pos"`
	IsCurrency bool       `json:"is_currency,omitempty"`
}

// AssetList holds rgInventory/rgCurrency. Steam sends an object keyed by asset id, or [] when empty;
// object order is kept.
type AssetList []Asset

func (l *AssetList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	if trimmed[0] == '[' {
		var assets []Asset
		if err := json.Unmarshal(trimmed, &assets); err != nil {
			return err
		}
		*l = assets
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := decoder.Token(); err != nil {
		return err
	}

	assets := AssetList{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}

		var asset Asset
		if err := decoder.Decode(&asset); err != nil {
			return eris.Wrapf(err, "couldn't decode asset %v", keyToken)
		}
		if asset.Id == "" {
			if key, ok := keyToken.(string); ok {
				asset.Id = FlexString(key)
			}
		}
		assets = append(assets, asset)
	}

	*l = assets
	return nil
}

type Tag struct {
	Category              string `json:"category"`
	CategoryName          string `json:"category_name,omitempty"`
	InternalName          string `json:"internal_name"`
	Name                  string `json:"name,omitempty"`
	LocalizedCategoryName string `json:"localized_category_name,omitempty"`
	LocalizedTagName      string `json:"localized_tag_name,omitempty"`
	Color                 string `json:"color,omitempty"`
}

type Line struct {
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
	Type  string `json:"type,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Action struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

type Description struct {
	AppId                     FlexString   `json:"appid"`
	ClassId                   FlexString   `json:"classid"`
	InstanceId                FlexString   `json:"instanceid"`
	IconUrl                   string       `json:"icon_url"`
	IconUrlLarge              string       `json:"icon_url_large,omitempty"`
	IconDragUrl               string       `json:"icon_drag_url,omitempty"`
	Name                      string       `json:"name"`
	MarketName                string       `json:"market_name"`
	MarketHashName            string       `json:"market_hash_name"`
	NameColor                 string       `json:"name_color,omitempty"`
	BackgroundColor           string       `json:"background_color,omitempty"`
	Type                      string       `json:"type"`
	Tradable                  FlexBool     `json:"tradable"`
	Marketable                FlexBool     `json:"marketable"`
	Commodity                 FlexBool     `json:"commodity"`
	MarketTradableRestriction FlexString   `json:"market_tradable_restriction,omitempty"`
	FraudWarnings             List[string] `json:"fraudwarnings,omitempty"`
	Lines                     List[Line]   `json:"descriptions,omitempty"`
	Actions                   List[Action] `json:"actions,omitempty"`
	MarketActions             List[Action] `json:"market_actions,omitempty"`
	Tags                      List[Tag]    `json:"tags,omitempty"`
}

// DescriptionMap is rgDescriptions, keyed by "classid_instanceid". Steam sends [] when empty.
type DescriptionMap map[string]Description

func (m *DescriptionMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var descriptions []Description
		if err := json.Unmarshal(trimmed, &descriptions); err != nil {
			return err
		}
		*m = make(DescriptionMap, len(descriptions))
		for _, description := range descriptions {
			(*m)[DescriptionKey(string(description.ClassId), string(description.InstanceId))] = description
		}
		return nil
	}

	descriptions := map[string]Description{}
	if err := json.Unmarshal(trimmed, &descriptions); err != nil {
		return err
	}
	*m = descriptions
	return nil
}

// Item is an asset joined with its description, tagged with the context it was loaded from.
type Item struct {
	Description
	Id         string `json:"id"`
	ClassId    string `json:"classid"`
	InstanceId string `json:"instanceid"`
	Amount     string `json:"amount"`
	Pos        int    `json:"pos"`
	IsCurrency bool   `json:"is_currency,omitempty"`
	ContextId  string `json:"contextid"`
}

// Cursor is more_start: a number, a string, or false once the listing is exhausted.
type Cursor string

func (c *Cursor) UnmarshalJSON(data []byte) error {
	value := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	switch value {
	case "false", "null", "0", "":
		*c = ""
	default:
		*c = Cursor(value)
	}
	return nil
}

// Page is one response of the legacy inventory JSON endpoints.
type Page struct {
	Success      *FlexBool       `json:"success"`
	Error        string          `json:"Error,omitempty"`
	Inventory    *AssetList      `json:"rgInventory"`
	Currency     AssetList       `json:"rgCurrency"`
	Descriptions *DescriptionMap `json:"rgDescriptions"`
	More         FlexBool        `json:"more"`
	MoreStart    Cursor          `json:"more_start"`
}

func (p *Page) validate() error {
	if p.Success != nil && !*p.Success {
		return eris.Wrapf(api.ErrInvalidResponse, "inventory request unsuccessful: %s", p.Error)
	}
	if p.Inventory == nil {
		return eris.Wrap(api.ErrInvalidResponse, "rgInventory missing")
	}
	if p.Descriptions == nil {
		return eris.Wrap(api.ErrInvalidResponse, "rgDescriptions missing")
	}
	return nil
}
