package renderer

import (
	"GopherRT/internal/gpu/opengl"
	"GopherRT/internal/reflections"
)

// PresentShader names the material that copies a texture to the window.
const PresentShader = "GopherRT/Present"

var copyFragmentShader = `#version 410 core
in vec2 uv;
uniform sampler2D ` + reflections.PropCopySource + `;
out vec4 color;
void main() {
    color = vec4(texture(` + reflections.PropCopySource + `, uv).rgb, 0.0);
}
` + "\x00"

var presentFragmentShader = `#version 410 core
in vec2 uv;
uniform sampler2D ` + reflections.PropCopySource + `;
out vec4 color;
void main() {
    vec3 c = texture(` + reflections.PropCopySource + `, vec2(uv.x, 1.0 - uv.y)).rgb;
    color = vec4(pow(c / (c + 1.0), vec3(1.0 / 2.2)), 1.0);
}
` + "\x00"

// The temporal shader reprojects history assuming far-plane depth, which is
// exact for rotation and close for distant reflections.
var temporalFragmentShader = `#version 410 core
in vec2 uv;
uniform sampler2D ` + reflections.PropMainTex + `;
uniform sampler2D ` + reflections.PropTemporalTexture + `;
uniform mat4 ` + reflections.PropInverseProjection + `[2];
uniform mat4 ` + reflections.PropFrameMatrix + `[2];
uniform float ` + reflections.PropTemporalFade + `;
uniform float ` + reflections.PropResolutionX + `;
uniform float ` + reflections.PropResolutionY + `;
out vec4 color;
void main() {
    vec4 current = texture(` + reflections.PropMainTex + `, uv);
    vec4 view = ` + reflections.PropInverseProjection + `[0] * vec4(uv * 2.0 - 1.0, 1.0, 1.0);
    vec4 prev = ` + reflections.PropFrameMatrix + `[0] * vec4(view.xyz / view.w, 1.0);
    vec2 prevUV = prev.xy / prev.w * 0.5 + 0.5;
    vec2 texel = vec2(1.0 / ` + reflections.PropResolutionX + `, 1.0 / ` + reflections.PropResolutionY + `);
    if (any(lessThan(prevUV, texel)) || any(greaterThan(prevUV, 1.0 - texel))) {
        color = current;
        return;
    }
    vec4 history = texture(` + reflections.PropTemporalTexture + `, prevUV);
    color = mix(history, current, 1.0 - ` + reflections.PropTemporalFade + `);
}
` + "\x00"

// RegisterOpenGLShaders installs the GLSL materials of the reflection stage
// and the window present material.
func RegisterOpenGLShaders(p *opengl.Provider, names reflections.ShaderNames) {
	p.RegisterShader(names.Copy, copyFragmentShader, true)
	p.RegisterShader(names.Temporal, temporalFragmentShader, false)
	p.RegisterShader(PresentShader, presentFragmentShader, false)
}
