package pipeline

import "os"

// ContentData resolves the action's content index against the data
// section. The result is nil when no content is defined, the raw data
// value when it is not a typed entry, and otherwise the value the
// entry's type selects.
func ContentData(action Action, data map[string]any) any {
	return resolveIndex(action.Content, "content", data)
}

// ReturnsData resolves the action's returns index the same way.
func ReturnsData(action Action, data map[string]any) any {
	return resolveIndex(action.Returns, "returns", data)
}

func resolveIndex(key, source string, data map[string]any) any {
	if key == "" {
		return nil
	}
	content, ok := data[key]
	if !ok || content == nil {
		return nil
	}
	m, ok := content.(map[string]any)
	if !ok {
		return content
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		typ = "string"
	}
	return resolveTyped(m, typ, source, data)
}

func resolveTyped(m map[string]any, typ, source string, data map[string]any) any {
	switch typ {
	case "string", "opfields":
		return m[source]
	case "xpath":
		if _, done := m["namespace"].(map[string]any); done {
			// already resolved from its data reference
			return m
		}
		nsKey, _ := m["namespace"].(string)
		if ref, ok := data[nsKey].(map[string]any); ok {
			m["namespace"] = ref["content"]
		}
		return m
	case "reference":
		refKey, _ := m[source].(string)
		return resolveReference(refKey, source, data)
	case "file":
		name, _ := m["filename"].(string)
		return fileData(name)
	}
	return nil
}

// resolveReference chases reference entries until a concrete type is
// reached. A dangling reference resolves to nil.
func resolveReference(key, source string, data map[string]any) any {
	ref, ok := data[key].(map[string]any)
	if !ok {
		return nil
	}
	typ, _ := ref["type"].(string)
	if typ == "reference" {
		next, _ := ref[source].(string)
		return resolveReference(next, source, data)
	}
	return resolveTyped(ref, typ, source, data)
}

func fileData(name string) any {
	if name == "" {
		return nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil
	}
	return string(b)
}
