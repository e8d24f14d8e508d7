package entity

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category is a category page merged with its categoryinfo lookup.
type Category struct {
	Page

	// Info is the raw categoryinfo object, nil when the document had none.
	// Its keys are only populated when the fetch asked for prop=categoryinfo.
	Info map[string]json.RawMessage
}

type categoryWire struct {
	pageWire
	CategoryInfo *map[string]json.RawMessage `json:"categoryinfo,omitempty"`
}

var categoryKeys = func() map[string]bool {
	keys := make(map[string]bool, len(pageKeys)+1)
	for k := range pageKeys {
		keys[k] = true
	}
	keys["categoryinfo"] = true
	return keys
}()

// ParseCategory decodes one category document.
func ParseCategory(data []byte) (*Category, error) {
	var w categoryWire
	if err := decodeStrict("category", data, categoryKeys, &w); err != nil {
		return nil, err
	}
	c := &Category{Page: *w.pageWire.page()}
	if w.CategoryInfo != nil {
		c.Info = *w.CategoryInfo
		if c.Info == nil {
			c.Info = map[string]json.RawMessage{}
		}
	}
	return c, nil
}

// CategoryFromMap builds a category from an already decoded JSON object.
func CategoryFromMap(m map[string]any) (*Category, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, &DecodeError{Entity: "category", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	return ParseCategory(data)
}

// CategoryFromFile reads and decodes a category document.
func CategoryFromFile(path string) (*Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category file: %w", err)
	}
	c, err := ParseCategory(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Category) MarshalJSON() ([]byte, error) {
	w := categoryWire{pageWire: c.Page.wire()}
	if c.Info != nil {
		w.CategoryInfo = &c.Info
	}
	return json.Marshal(w)
}

// ToMap returns the category as a generic JSON object.
func (c *Category) ToMap() (map[string]any, error) {
	return toMap(c)
}

// ToFile writes the category document to path.
func (c *Category) ToFile(path string) error {
	return writeJSON(path, c)
}

// Size is categoryinfo.size: the number of members of any kind.
func (c *Category) Size() (int64, error) { return c.count("size") }

// Pages is categoryinfo.pages.
func (c *Category) Pages() (int64, error) { return c.count("pages") }

// Files is categoryinfo.files.
func (c *Category) Files() (int64, error) { return c.count("files") }

// Subcats is categoryinfo.subcats.
func (c *Category) Subcats() (int64, error) { return c.count("subcats") }

// SetCount stores a categoryinfo count, creating the object if needed.
func (c *Category) SetCount(key string, n int64) {
	if c.Info == nil {
		c.Info = make(map[string]json.RawMessage)
	}
	c.Info[key] = json.RawMessage(fmt.Sprintf("%d", n))
}

func (c *Category) count(key string) (int64, error) {
	if c.Info == nil {
		return 0, fmt.Errorf("category %q: categoryinfo: %w", c.Title, ErrMissingField)
	}
	raw, ok := c.Info[key]
	if !ok {
		return 0, fmt.Errorf("category %q: categoryinfo.%s: %w", c.Title, key, ErrMissingField)
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("category %q: categoryinfo.%s: %w: %v", c.Title, key, ErrDecode, err)
	}
	return n, nil
}

func (c *Category) String() string {
	return fmt.Sprintf("Category{title: %q, pageid: %d, ns: %d}", c.Title, c.PageID, c.NS)
}
