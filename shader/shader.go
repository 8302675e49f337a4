package shader

import (
	"github.com/richinsley/goshadergallery/dialect"
)

// ────────────────────────────── Gallery programs (WebGL2) ──────────────────────────────

// Gallery shaders are authored as WebGL2 and translated to the context dialect,
// so the default vertex shader is written in the same dialect.
const galleryVertexShaderSource = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const galleryFragmentPreamble = `#version 300 es
precision highp float;
precision highp int;

out vec4 ` + dialect.FragColor + `;
`

const galleryVertexPreamble = `#version 300 es
precision highp float;
`

// ─────────────────────────────── Host programs ───────────────────────────────

const headerGL = "#version 410 core\n"

const headerGLES = `#version 300 es
precision highp float;
`

const vertexShaderBody = `layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentBody = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// Luminosity high pass; the 0.01 smooth width matches the usual unreal bloom pass.
const brightFragmentBody = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform float u_threshold;
void main() {
    vec4 c = texture(u_texture, frag_uv);
    float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
    float a = smoothstep(u_threshold, u_threshold + 0.01, l);
    fragColor = vec4(c.rgb * a, 1.0);
}
`

// Separable 9-tap gaussian. u_radius widens the tap spacing.
const blurFragmentBody = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform vec2 u_direction;
uniform float u_radius;
const float weights[5] = float[](0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216);
void main() {
    vec2 texel = 1.0 / vec2(textureSize(u_texture, 0));
    vec2 stride = u_direction * texel * (1.0 + u_radius * 4.0);
    vec3 sum = texture(u_texture, frag_uv).rgb * weights[0];
    for (int i = 1; i < 5; i++) {
        sum += texture(u_texture, frag_uv + stride * float(i)).rgb * weights[i];
        sum += texture(u_texture, frag_uv - stride * float(i)).rgb * weights[i];
    }
    fragColor = vec4(sum, 1.0);
}
`

const compositeFragmentBody = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_scene;
uniform sampler2D u_bloom;
uniform float u_strength;
void main() {
    vec3 scene = texture(u_scene, frag_uv).rgb;
    vec3 bloom = texture(u_bloom, frag_uv).rgb;
    fragColor = vec4(scene + bloom * u_strength, 1.0);
}
`

// u_rect is the overlay rectangle in NDC (x0, y0, x1, y1).
const overlayVertexBody = `layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
uniform vec4 u_rect;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(mix(u_rect.xy, u_rect.zw, frag_uv), 0.0, 1.0);
}
`

// Overlay images are stored top row first.
const overlayFragmentBody = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

func header(isGLES bool) string {
	if isGLES {
		return headerGLES
	}
	return headerGL
}

// ────────────────────────────────── Public API ─────────────────────────────────

// GalleryVertexShader returns the WebGL2 vertex source for a gallery program.
// An empty custom source selects the built-in fullscreen-quad shader.
func GalleryVertexShader(custom string) string {
	if custom == "" {
		return galleryVertexShaderSource
	}
	return galleryVertexPreamble + custom
}

// GalleryFragmentShader combines the host preamble with an adapted fragment body.
func GalleryFragmentShader(adapted string) string {
	return galleryFragmentPreamble + adapted
}

func GenerateVertexShader(isGLES bool) string {
	return header(isGLES) + vertexShaderBody
}

func GetBlitFragmentShader(isGLES bool) string {
	return header(isGLES) + blitFragmentBody
}

func GetBrightFragmentShader(isGLES bool) string {
	return header(isGLES) + brightFragmentBody
}

func GetBlurFragmentShader(isGLES bool) string {
	return header(isGLES) + blurFragmentBody
}

func GetCompositeFragmentShader(isGLES bool) string {
	return header(isGLES) + compositeFragmentBody
}

func GetOverlayVertexShader(isGLES bool) string {
	return header(isGLES) + overlayVertexBody
}

func GetOverlayFragmentShader(isGLES bool) string {
	return header(isGLES) + overlayFragmentBody
}
