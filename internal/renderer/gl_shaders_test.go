package renderer

import (
	"strings"
	"testing"

	"GopherRT/internal/reflections"
)

func TestShaderSourcesAreTerminated(t *testing.T) {
	for name, src := range map[string]string{
		"copy":     copyFragmentShader,
		"present":  presentFragmentShader,
		"temporal": temporalFragmentShader,
	} {
		if !strings.HasSuffix(src, "\x00") {
			t.Errorf("%s shader must be NUL-terminated", name)
		}
		if !strings.HasPrefix(src, "#version 410 core") {
			t.Errorf("%s shader should target GLSL 4.10", name)
		}
	}
}

func TestTemporalShaderDeclaresBindings(t *testing.T) {
	for _, name := range []string{
		reflections.PropMainTex,
		reflections.PropTemporalTexture,
		reflections.PropInverseProjection,
		reflections.PropFrameMatrix,
		reflections.PropTemporalFade,
		reflections.PropResolutionX,
		reflections.PropResolutionY,
	} {
		if !strings.Contains(temporalFragmentShader, "uniform") || !strings.Contains(temporalFragmentShader, name) {
			t.Errorf("Temporal shader should declare %s", name)
		}
	}
	if !strings.Contains(copyFragmentShader, "uniform sampler2D "+reflections.PropCopySource+";") {
		t.Error("Copy shader should sample the copy source")
	}
}
