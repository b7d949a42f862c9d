package opengl

import (
	"fmt"
	"strings"

	"GopherRT/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// FullscreenVertexShader emits one oversized triangle from gl_VertexID and
// passes uv to the fragment stage.
const FullscreenVertexShader = `#version 410 core
out vec2 uv;
void main() {
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    uv = pos;
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shaderType", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

// buildFullscreenProgram links the fullscreen vertex shader with fragment.
func buildFullscreenProgram(fragment string) (uint32, error) {
	vs, err := GenShader(FullscreenVertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := GenShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	return GenShaderProgram(vs, fs)
}

// samplerUniforms lists the sampler2D uniform names declared in a GLSL source.
func samplerUniforms(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if len(fields) == 3 && fields[0] == "uniform" &&
			(fields[1] == "sampler2D" || fields[1] == "sampler2DArray") {
			names = append(names, fields[2])
		}
	}
	return names
}
