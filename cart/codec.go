package cart

import (
	json "github.com/goccy/go-json"
)

type wireCart struct {
	Policy  Policy   `json:"policy"`
	Buckets []Bucket `json:"buckets"`
	Version int64    `json:"version"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	buckets := c.buckets
	if buckets == nil {
		buckets = []Bucket{}
	}
	return json.Marshal(wireCart{Policy: c.policy, Buckets: buckets, Version: c.version})
}

// UnmarshalJSON restores a stored cart, dropping lines with a non positive
// quantity and buckets left empty.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var w wireCart
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Policy == "" {
		w.Policy = PolicyMultiRestaurant
	}
	c.policy = w.Policy
	c.version = w.Version
	c.buckets = nil
	for _, b := range w.Buckets {
		kept := b.Lines[:0]
		for _, l := range b.Lines {
			if l.Quantity >= MinQuantity {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			b.Lines = kept
			c.buckets = append(c.buckets, b)
		}
	}
	return nil
}
