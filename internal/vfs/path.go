package vfs

import "strings"

// Separator delimits path segments.
const Separator = "/"

// Segments splits a path on "/" keeping the slash at the end of each segment
// that had one, so "/a/b" yields ["/", "a/", "b"].
func Segments(path string) []string {
	segments := []string{}
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			segments = append(segments, path[start:i+1])
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}

// Normalize turns input into an absolute path relative to current, which must
// be an absolute directory path ending in "/". ".." segments are applied left
// to right; climbing above the root fails with InvalidPath. The trailing slash
// of the last segment is preserved.
func Normalize(input, current string) (string, error) {
	if input == "" || input == "." {
		return current, nil
	}

	absolute := input
	if !strings.HasPrefix(input, Separator) {
		absolute = current + input
	}

	stack := make([]string, 0, strings.Count(absolute, Separator)+1)
	for _, segment := range Segments(absolute) {
		switch segment {
		case "..", "../":
			if len(stack) <= 1 {
				return "", pathError(InvalidPath, input)
			}
			stack = stack[:len(stack)-1]
		case ".", "./":
			continue
		default:
			stack = append(stack, segment)
		}
	}

	normalized := strings.Join(stack, "")
	if !strings.HasPrefix(normalized, Separator) {
		return "", pathError(InvalidPath, input)
	}
	return normalized, nil
}

// IsDirPath reports whether a path is spelled as a directory.
func IsDirPath(path string) bool {
	return strings.HasSuffix(path, Separator)
}

// Join appends name to a directory path.
func Join(dir, name string) string {
	if !IsDirPath(dir) {
		dir += Separator
	}
	return dir + name
}
