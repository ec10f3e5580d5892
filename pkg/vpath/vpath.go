// Package vpath provides virtual path normalization helpers shared by the
// filesystem backends, the snapshot engine, and the tool surface.
//
// Virtual paths are absolute, "/"-rooted, forward-slash paths. Helpers
// here are pure string manipulation; nothing touches a filesystem.
package vpath

import (
	"path"
	"strings"
)

// Normalize canonicalizes a user-supplied path into an absolute virtual
// path: "", "." and "./" mean the root, a missing leading slash is added,
// and the result is cleaned ("/a/../b" -> "/b"). Trailing slashes collapse
// except on the root itself.
func Normalize(p string) string {
	if p == "" || p == "." || p == "./" {
		return "/"
	}
	p = strings.TrimPrefix(p, "./")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Parents returns the ancestor directories of p from the root down,
// excluding the root and p itself: Parents("/a/b/c") -> ["/a", "/a/b"].
func Parents(p string) []string {
	p = Normalize(p)
	if p == "/" {
		return nil
	}
	dir := path.Dir(p)
	if dir == "/" {
		return nil
	}
	var parents []string
	cur := ""
	for _, seg := range strings.Split(strings.TrimPrefix(dir, "/"), "/") {
		if seg == "" {
			continue
		}
		cur += "/" + seg
		parents = append(parents, cur)
	}
	return parents
}

// Under reports whether p is dir itself or lives beneath it. Used to
// exclude the reserved snapshot namespace from enumeration and deletion.
func Under(p, dir string) bool {
	p = Normalize(p)
	dir = Normalize(dir)
	if dir == "/" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// Match reports whether the glob pattern matches p. The pattern is tried
// against the full path first, then against the base name: path.Match's
// "*" does not cross "/", so the second try covers the usual "*.txt"
// idiom at any depth. A malformed pattern returns path.ErrBadPattern.
func Match(pattern, p string) (bool, error) {
	ok, err := path.Match(pattern, p)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	ok, _ = path.Match(pattern, path.Base(p))
	return ok, nil
}
