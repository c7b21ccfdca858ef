package application

import "path/filepath"

// Partition buckets file names by the character at index in the name's stem
// (extension stripped). Buckets for every expected key exist even when
// empty. Names that are too short for the index, or whose key is not in the
// expected set, are not assigned to any bucket and come back in skipped for
// the caller to log.
func Partition(names []string, index int, keys []string) (map[string][]string, []string) {
	groups := make(map[string][]string, len(keys))
	for _, key := range keys {
		groups[key] = nil
	}

	var skipped []string
	for _, name := range names {
		runes := []rune(stem(name))
		if index < 0 || index >= len(runes) {
			skipped = append(skipped, name)
			continue
		}

		key := string(runes[index])
		if _, ok := groups[key]; !ok {
			skipped = append(skipped, name)
			continue
		}

		groups[key] = append(groups[key], name)
	}

	return groups, skipped
}

func stem(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
