// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms vertices and forwards world-space normals.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades with one point light plus the object color and
// an optional diffuse texture.
//
//go:embed lit.frag
var LitFragmentShader string

// FlatVertexShader transforms vertices only.
//
//go:embed flat.vert
var FlatVertexShader string

// FlatFragmentShader outputs the object color unlit.
//
//go:embed flat.frag
var FlatFragmentShader string
