package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"activityboard/internal/domain/activity"
)

type ActivityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type CatalogEntry struct {
	Name    string
	Details ActivityDetails
}

// Catalog is the GET /activities body. It decodes the JSON object key by key
// so that activities keep the order the backend sent them in.
type Catalog []CatalogEntry

func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	out := Catalog{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected key, got %v", tok)
		}

		var details ActivityDetails
		if err := dec.Decode(&details); err != nil {
			return fmt.Errorf("catalog: activity %q: %w", name, err)
		}

		// duplicate keys keep their first position and last value
		if i, seen := index[name]; seen {
			out[i].Details = details
			continue
		}
		index[name] = len(out)
		out = append(out, CatalogEntry{Name: name, Details: details})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

func (c Catalog) ToDomain() activity.Catalog {
	res := activity.Catalog{Activities: make([]activity.Activity, 0, len(c))}
	for _, e := range c {
		participants := e.Details.Participants
		if participants == nil {
			participants = []string{}
		}
		res.Activities = append(res.Activities, activity.Activity{
			Name:            e.Name,
			Description:     e.Details.Description,
			Schedule:        e.Details.Schedule,
			MaxParticipants: e.Details.MaxParticipants,
			Participants:    participants,
		})
	}
	return res
}

// MessageResponse is the 2xx body of signup and removal calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the error body of signup and removal calls.
type DetailResponse struct {
	Detail string `json:"detail"`
}
