// Package dialect rewrites the gallery's WebGL2 fragment shaders into the form
// expected by the host preamble. The rewrite is lexical and must be applied
// exactly once per source: after one pass the original names are gone.
package dialect

import "regexp"

const (
	// UVInput is the varying the host vertex shader writes.
	UVInput = "frag_uv"
	// FragColor is the color output declared by the host preamble.
	FragColor = "gallery_FragColor"
)

var (
	versionPragma = regexp.MustCompile(`\A\s*#version[^\n]*(\n|\z)`)
	uvDecl        = regexp.MustCompile(`\bin\s+vec2\s+v_uv\s*;`)
	uvOutDecl     = regexp.MustCompile(`\bout\s+vec2\s+v_uv\s*;`)
	uvUse         = regexp.MustCompile(`\bv_uv\b`)
	colorDecl     = regexp.MustCompile(`\bout\s+vec4\s+fragColor\s*;`)
	colorWrite    = regexp.MustCompile(`\bfragColor\s*=`)
)

// Adapt rewrites a fragment shader source.
func Adapt(source string) string {
	s := versionPragma.ReplaceAllString(source, "")
	s = uvDecl.ReplaceAllString(s, "in vec2 "+UVInput+";")
	s = uvUse.ReplaceAllString(s, UVInput)
	s = colorDecl.ReplaceAllString(s, "")
	s = colorWrite.ReplaceAllString(s, FragColor+" =")
	return s
}

// AdaptVertex rewrites an author-supplied vertex shader so its UV output
// matches the fragment side.
func AdaptVertex(source string) string {
	s := versionPragma.ReplaceAllString(source, "")
	s = uvOutDecl.ReplaceAllString(s, "out vec2 "+UVInput+";")
	return uvUse.ReplaceAllString(s, UVInput)
}
