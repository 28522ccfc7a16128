// Package shaders holds the GLSL programs used to render the display. Each
// fragment shader is paired with the same vertex shader drawing a textured
// quad over the whole window.
package shaders

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

//go:embed *.vert *.frag
var dir embed.FS

const (
	DefaultName = "Passthrough"
	vertexName  = "quad"
)

// Names returns the names (without extension) of all embedded fragment
// shaders.
func Names() []string {
	dirents, err := dir.ReadDir(".")
	if err != nil {
		panic(err)
	}

	var names []string
	for _, dirent := range dirents {
		name := dirent.Name()
		if dirent.IsDir() || filepath.Ext(name) != Fragment.ext() {
			continue
		}
		names = append(names, strings.TrimSuffix(name, Fragment.ext()))
	}

	slices.Sort(names)
	return names
}

// Exists reports whether a fragment shader with that name is embedded.
func Exists(name string) bool {
	return slices.Contains(Names(), name)
}

// Source returns the GLSL source of a shader.
func Source(name string, typ Type) (string, error) {
	f, err := dir.Open(name + typ.ext())
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

type Type uint32

const (
	Vertex   Type = 0
	Fragment Type = 1
)

func (t Type) glType() uint32 {
	switch t {
	case Vertex:
		return gl.VERTEX_SHADER
	case Fragment:
		return gl.FRAGMENT_SHADER
	}
	panic("glType: invalid shader type " + strconv.Itoa(int(t)))
}

func (t Type) ext() string {
	switch t {
	case Vertex:
		return ".vert"
	case Fragment:
		return ".frag"
	}
	panic("ext: invalid shader type " + strconv.Itoa(int(t)))
}

// Program compiles and links the shader program made of the quad vertex
// shader and the named fragment shader. Must be called with a current GL
// context.
func Program(name string) (uint32, error) {
	vert, err := compile(vertexName, Vertex)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %s", err)
	}
	frag, err := compile(name, Fragment)
	if err != nil {
		return 0, fmt.Errorf("fragment shader %q: %s", name, err)
	}
	return link(vert, frag)
}

func compile(name string, typ Type) (uint32, error) {
	src, err := Source(name, typ)
	if err != nil {
		return 0, err
	}
	csrc, free := gl.Strs(src + "\x00")
	sh := gl.CreateShader(typ.glType())
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])

		return 0, fmt.Errorf("compile error: %v", string(log))
	}

	return sh, nil
}

func link(vert, frag uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vert)
	gl.AttachShader(prg, frag)
	gl.LinkProgram(prg)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	return prg, nil
}
