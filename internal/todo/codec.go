package todo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const listsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name"],
    "properties": {
      "id":   {"type": "string", "minLength": 1},
      "name": {"type": "string"}
    }
  }
}`

const tasksSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text"],
    "properties": {
      "text":    {"type": "string"},
      "checked": {"type": "boolean"}
    }
  }
}`

var (
	listsSchema = jsonschema.MustCompileString("todo-lists.json", listsSchemaJSON)
	tasksSchema = jsonschema.MustCompileString("todo-tasks.json", tasksSchemaJSON)
)

// legacyCloseGlyph is the delete marker the browser version appended to every task.
const legacyCloseGlyph = "×"

// EncodeLists serializes list records for the ListsKey entry.
func EncodeLists(lists []ListRecord) (string, error) {
	if lists == nil {
		lists = []ListRecord{}
	}
	data, err := json.Marshal(lists)
	if err != nil {
		return "", fmt.Errorf("failed to serialize lists: %w", err)
	}
	return string(data), nil
}

// DecodeLists parses a ListsKey entry. Records with a repeated id are dropped,
// keeping the first. Any parse or schema failure wraps ErrStorageReadMalformed.
func DecodeLists(raw string) ([]ListRecord, error) {
	if err := validateJSON(listsSchema, raw); err != nil {
		return nil, err
	}

	var lists []ListRecord
	if err := json.Unmarshal([]byte(raw), &lists); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageReadMalformed, err)
	}

	seen := make(map[string]bool, len(lists))
	out := lists[:0]
	for _, l := range lists {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out, nil
}

// EncodeTasks serializes a list's tasks for its TasksKey entry.
func EncodeTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to serialize tasks: %w", err)
	}
	return string(data), nil
}

// DecodeTasks parses a TasksKey entry. Besides the JSON form it accepts the
// <li> markup written by the browser version. Failures wrap ErrStorageReadMalformed.
func DecodeTasks(raw string) ([]Task, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return nil, nil
	case strings.HasPrefix(trimmed, "<"):
		return decodeLegacyTasks(trimmed)
	}

	if err := validateJSON(tasksSchema, trimmed); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(trimmed), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageReadMalformed, err)
	}
	return tasks, nil
}

func decodeLegacyTasks(markup string) ([]Task, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageReadMalformed, err)
	}

	items := doc.Find("li")
	if items.Length() == 0 {
		return nil, fmt.Errorf("%w: no list items in markup", ErrStorageReadMalformed)
	}

	var tasks []Task
	items.Each(func(_ int, li *goquery.Selection) {
		closer := li.ChildrenFiltered("span").Last()
		if strings.TrimSpace(closer.Text()) == legacyCloseGlyph {
			closer.Remove()
		}
		text := strings.TrimSpace(li.Text())
		if text == "" {
			return
		}
		tasks = append(tasks, Task{Text: text, Checked: li.HasClass("checked")})
	})
	return tasks, nil
}

func validateJSON(schema *jsonschema.Schema, raw string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageReadMalformed, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageReadMalformed, err)
	}
	return nil
}
