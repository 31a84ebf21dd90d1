package config

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

const (
	additionalHeadersKey    = "additionalHeaders"
	formDataKeyAndValuesKey = "formDataKeyAndValues"
)

// readSections extracts the ordered sections straight from the raw settings
// bytes. Viper's AllSettings returns plain maps with lowercased keys, which
// loses both the declared order and the header name case.
func readSections(data []byte, format string, names ...string) (map[string]Section, error) {
	if format == formatYAML {
		return yamlSections(data, names)
	}
	return jsonSections(data, names)
}

func jsonSections(data []byte, names []string) (map[string]Section, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	result := make(map[string]Section, len(names))
	var sectionErr error
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		name, ok := matchName(key.String(), names)
		if !ok {
			return true
		}
		if value.Type == gjson.Null {
			return true
		}
		if !value.IsObject() {
			sectionErr = fmt.Errorf("%s: expected object, got %s", name, value.Type)
			return false
		}
		section := Section{}
		value.ForEach(func(k, v gjson.Result) bool {
			section = append(section, KeyValue{Key: k.String(), Value: v.String()})
			return true
		})
		result[name] = section
		return true
	})
	if sectionErr != nil {
		return nil, sectionErr
	}
	return result, nil
}

func yamlSections(data []byte, names []string) (map[string]Section, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	result := make(map[string]Section, len(names))
	if len(doc.Content) == 0 {
		return result, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at the document root")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, ok := matchName(root.Content[i].Value, names)
		if !ok {
			continue
		}
		value := root.Content[i+1]
		if value.Tag == "!!null" {
			continue
		}
		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: expected mapping", name)
		}
		section := Section{}
		for j := 0; j+1 < len(value.Content); j += 2 {
			k, v := value.Content[j], value.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s.%s: expected a scalar value", name, k.Value)
			}
			section = append(section, KeyValue{Key: k.Value, Value: v.Value})
		}
		result[name] = section
	}
	return result, nil
}

// matchName reports which of names equals key, ignoring case. Section names
// are matched the same way as flat keys.
func matchName(key string, names []string) (string, bool) {
	for _, name := range names {
		if strings.EqualFold(key, name) {
			return name, true
		}
	}
	return "", false
}
