package mlhauth

import "strings"

func joinPath(base, path string) string {
	if path == "" {
		return base
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
