// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the summary-engine pipeline:
// cluster records read from datasets, predictions written by the summarizer,
// and the settings that drive each stage.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ArticleRecord is one source article inside a cluster record. Both fields
// are pointers so that a missing field can be told apart from an empty one.
type ArticleRecord struct {
	Title *string `json:"title" yaml:"title"`
	Text  *string `json:"text" yaml:"text"`
}

// Cluster groups articles describing one news event. Summary is the
// reference summary and is only required by oracle strategies.
type Cluster struct {
	ID       string          `json:"id" yaml:"id"`
	Summary  *string         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Articles []ArticleRecord `json:"articles" yaml:"articles"`

	// Metadata carries any other fields of the record through untouched.
	Metadata map[string]any `json:"-" yaml:"-"`

	// Malformed is the first field of the record that did not decode.
	// Validate reports it against the cluster id.
	Malformed *InputError `json:"-" yaml:"-"`
}

// UnmarshalJSON decodes a cluster record, accepting numeric or string ids
// and keeping unknown fields in Metadata. Only input that is not a JSON
// object is an error; a field of the wrong type is recorded in Malformed
// so the cluster can still be reported by id.
func (c *Cluster) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = Cluster{}
	c.decodeID(fields["id"])
	if raw, ok := fields["summary"]; ok {
		if err := json.Unmarshal(raw, &c.Summary); err != nil {
			c.malformed("summary", err)
		}
	}
	if raw, ok := fields["articles"]; ok {
		c.decodeArticles(raw)
	}

	for key, raw := range fields {
		switch key {
		case "id", "summary", "articles":
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		if c.Metadata == nil {
			c.Metadata = make(map[string]any)
		}
		c.Metadata[key] = v
	}
	return nil
}

func (c *Cluster) decodeID(raw json.RawMessage) {
	id := bytes.TrimSpace(raw)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
	case id[0] == '"':
		if err := json.Unmarshal(id, &c.ID); err != nil {
			c.malformed("id", err)
		}
	case id[0] == '-' || (id[0] >= '0' && id[0] <= '9'):
		c.ID = string(id)
	default:
		c.malformed("id", fmt.Errorf("want a string or a number, got %s", id))
	}
}

func (c *Cluster) decodeArticles(raw json.RawMessage) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.malformed("articles", err)
		return
	}
	if items == nil {
		return
	}
	c.Articles = make([]ArticleRecord, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &c.Articles[i]); err != nil {
			c.malformed(fmt.Sprintf("articles[%d]", i), err)
		}
	}
}

func (c *Cluster) malformed(field string, err error) {
	if c.Malformed == nil {
		c.Malformed = &InputError{Field: field, Reason: err.Error()}
	}
}

// Reference returns the reference summary, or "" when the cluster has none.
func (c Cluster) Reference() string {
	if c.Summary == nil {
		return ""
	}
	return *c.Summary
}

// Validate checks that the record decoded and that every required field
// is present. When requireReference is set the cluster must also carry a
// reference summary.
func (c Cluster) Validate(requireReference bool) error {
	if c.Malformed != nil {
		err := *c.Malformed
		err.ClusterID = c.ID
		return &err
	}
	if c.ID == "" {
		return &InputError{Field: "id", Reason: "missing cluster id"}
	}
	if c.Articles == nil {
		return &InputError{ClusterID: c.ID, Field: "articles", Reason: "missing"}
	}
	for i, a := range c.Articles {
		if a.Title == nil {
			return &InputError{ClusterID: c.ID, Field: fmt.Sprintf("articles[%d].title", i), Reason: "missing"}
		}
		if a.Text == nil {
			return &InputError{ClusterID: c.ID, Field: fmt.Sprintf("articles[%d].text", i), Reason: "missing"}
		}
	}
	if requireReference && c.Summary == nil {
		return &InputError{ClusterID: c.ID, Field: "summary", Reason: "reference summary required by oracle strategies"}
	}
	return nil
}

// Prediction is the summary produced for one cluster.
type Prediction struct {
	ClusterID string `json:"cluster_id" yaml:"cluster_id"`
	Summary   string `json:"summary" yaml:"summary"`
}

// Failure records a cluster whose summarization returned an error.
type Failure struct {
	ClusterID string `json:"cluster_id" yaml:"cluster_id"`
	Error     string `json:"error" yaml:"error"`
}

// InputError reports a malformed cluster or article record.
type InputError struct {
	ClusterID string
	Field     string
	Reason    string
}

func (e *InputError) Error() string {
	if e.ClusterID == "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input in cluster %s: %s: %s", e.ClusterID, e.Field, e.Reason)
}
