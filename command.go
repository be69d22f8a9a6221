package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command is a parsed instruction from the natural-language collaborator.
// The set of implementations is closed; Ledger.Apply switches over all of
// them.
type Command interface {
	commandType() string
}

// itemInput is one food or exercise item to insert.
type itemInput struct {
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	ProteinG    *float64 `json:"protein,omitempty"`
}

type foodCommand struct{ Items []itemInput }

type exerciseCommand struct{ Items []itemInput }

type weightCommand struct{ WeightKG float64 }

// editCommand updates every entry whose description contains Search.
type editCommand struct {
	Search string
	Update entryUpdate
}

type multiEditCommand struct{ Edits []editCommand }

// deleteCommand removes every entry whose description contains Search.
type deleteCommand struct{ Search string }

// infoCommand covers the variants that never mutate state.
type infoCommand struct {
	Kind    string
	Message string
}

// suppressedCommand wraps any variant flagged is_error by the parser.
type suppressedCommand struct {
	Kind    string
	Message string
}

func (foodCommand) commandType() string { return "food" }
func (exerciseCommand) commandType() string { return "exercise" }
func (weightCommand) commandType() string { return "weight" }
func (editCommand) commandType() string { return "edit" }
func (multiEditCommand) commandType() string { return "multi_edit" }
func (deleteCommand) commandType() string { return "delete" }
func (c infoCommand) commandType() string { return c.Kind }
func (c suppressedCommand) commandType() string { return c.Kind }

// informational variants accepted from the parser.
var infoKinds = map[string]bool{
	"meal_recommendation": true,
	"activity_suggestion": true,
	"cheat_calculation":   true,
	"chat":                true,
}

// wireEdit is the JSON shape of a single edit.
type wireEdit struct {
	Search string      `json:"search"`
	Update entryUpdate `json:"update"`
}

// wireCommand is the tagged-union JSON shape sent by the parser.
type wireCommand struct {
	Type     string      `json:"type"`
	IsError  bool        `json:"is_error"`
	Message  string      `json:"message"`
	Items    []itemInput `json:"items"`
	WeightKG *float64    `json:"weight"`
	Search   string      `json:"search"`
	Update   entryUpdate `json:"update"`
	Edits    []wireEdit  `json:"edits"`
}

// decodeCommand decodes and validates one tagged-union JSON command.
func decodeCommand(b []byte) (Command, error) {
	var w wireCommand
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, invalidField("command", fmt.Sprintf("malformed command: %v", err))
	}
	return w.toCommand()
}

func (w wireCommand) toCommand() (Command, error) {
	kind := strings.TrimSpace(w.Type)
	if kind == "" {
		return nil, invalidField("type", "command type is required")
	}
	if w.IsError {
		return suppressedCommand{Kind: kind, Message: w.Message}, nil
	}

	switch kind {
	case "food", "exercise":
		if len(w.Items) == 0 {
			return nil, invalidField("items", kind+" command needs at least one item")
		}
		for i, it := range w.Items {
			if strings.TrimSpace(it.Description) == "" {
				return nil, invalidField("items", fmt.Sprintf("item %d: description is required", i))
			}
			if it.Calories < 0 {
				return nil, invalidField("items", fmt.Sprintf("item %d: calories must not be negative", i))
			}
		}
		if kind == "food" {
			return foodCommand{Items: w.Items}, nil
		}
		return exerciseCommand{Items: w.Items}, nil
	case "weight":
		if w.WeightKG == nil {
			return nil, invalidField("weight", "weight command needs a weight")
		}
		if err := validateWeight(*w.WeightKG); err != nil {
			return nil, err
		}
		return weightCommand{WeightKG: *w.WeightKG}, nil
	case "edit":
		e, err := toEdit(wireEdit{Search: w.Search, Update: w.Update})
		if err != nil {
			return nil, err
		}
		return e, nil
	case "multi_edit":
		if len(w.Edits) == 0 {
			return nil, invalidField("edits", "multi_edit command needs at least one edit")
		}
		edits := make([]editCommand, 0, len(w.Edits))
		for _, we := range w.Edits {
			e, err := toEdit(we)
			if err != nil {
				return nil, err
			}
			edits = append(edits, e)
		}
		return multiEditCommand{Edits: edits}, nil
	case "delete":
		if strings.TrimSpace(w.Search) == "" {
			return nil, invalidField("search", "delete command needs a search term")
		}
		return deleteCommand{Search: w.Search}, nil
	}

	if infoKinds[kind] {
		return infoCommand{Kind: kind, Message: w.Message}, nil
	}
	return nil, invalidField("type", fmt.Sprintf("unknown command type %q", kind))
}

func toEdit(w wireEdit) (editCommand, error) {
	if strings.TrimSpace(w.Search) == "" {
		return editCommand{}, invalidField("search", "edit needs a search term")
	}
	if w.Update.empty() {
		return editCommand{}, invalidField("update", "edit needs at least one field to change")
	}
	if w.Update.Calories != nil && *w.Update.Calories < 0 {
		return editCommand{}, invalidField("update", "calories must not be negative")
	}
	return editCommand{Search: w.Search, Update: w.Update}, nil
}

// validateWeight bounds a body-weight reading in kilograms.
func validateWeight(kg float64) error {
	if kg <= 0 || kg > 999.9 {
		return invalidField("weight", "weight must be between 0 and 999.9 kg")
	}
	return nil
}

// matchesSearch is a case-insensitive substring test on the description.
func matchesSearch(e LogEntry, search string) bool {
	return strings.Contains(strings.ToLower(e.Description), strings.ToLower(strings.TrimSpace(search)))
}
