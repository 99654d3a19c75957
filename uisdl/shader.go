package uisdl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("uisdl: compile shader: %s", log)
	}
	return shader, nil
}

func linkProgram(vs, fs string) (uint32, error) {
	v, err := compileShader(vs, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	f, err := compileShader(fs, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, v)
	gl.AttachShader(program, f)
	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("uisdl: link program: %s", log)
	}
	return program, nil
}

const quadVertexShader = `
#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 texCoord;
out vec2 fragTexCoord;
void main() {
    fragTexCoord = texCoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
` + "\x00"

const quadFragmentShader = `
#version 330 core
in vec2 fragTexCoord;
out vec4 fragColor;
uniform sampler2D tex;
void main() { fragColor = texture(tex, fragTexCoord); }
` + "\x00"

var quadVertices = []float32{
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

// newQuadProgram sets up the NES-picture quad, the same full-viewport blit
// the primary ui package uses (ui/shader.go), duplicated here rather than
// imported so uisdl has no compile-time dependency on ui's glfw context.
func newQuadProgram() (program, texture uint32, err error) {
	program, err = linkProgram(quadVertexShader, quadFragmentShader)
	if err != nil {
		return 0, 0, err
	}
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return program, texture, nil
}

func updateQuadTexture(texture uint32, framebuffer *[256 * 240]uint32) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 256, 240, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(framebuffer))
}

// overlayVertexShader/overlayFragmentShader match imgui-go's DrawVert
// layout: position(vec2), uv(vec2), color(packed RGBA8 as a float attrib).
const overlayVertexShader = `
#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 uv;
layout (location = 2) in vec4 color;
uniform vec2 displaySize;
out vec2 fragUV;
out vec4 fragColor;
void main() {
    fragUV = uv;
    fragColor = color;
    vec2 ndc = vec2(position.x / displaySize.x * 2.0 - 1.0, 1.0 - position.y / displaySize.y * 2.0);
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

const overlayFragmentShader = `
#version 330 core
in vec2 fragUV;
in vec4 fragColor;
out vec4 outColor;
uniform sampler2D fontTex;
void main() { outColor = fragColor * texture(fontTex, fragUV).r; }
` + "\x00"

func compileOverlayProgram() (uint32, error) {
	return linkProgram(overlayVertexShader, overlayFragmentShader)
}
