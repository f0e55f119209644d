package gl

import "sort"

// Enum is a GL constant value (GLenum / GLbitfield).
type Enum uint32

// WebGL2 constants used by the traced API surface.
const (
	DEPTH_BUFFER_BIT   Enum = 0x0100
	STENCIL_BUFFER_BIT Enum = 0x0400
	COLOR_BUFFER_BIT   Enum = 0x4000

	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_LOOP      Enum = 0x0002
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006

	ZERO                Enum = 0x0000
	ONE                 Enum = 0x0001
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303

	NO_ERROR          Enum = 0x0000
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502

	CULL_FACE  Enum = 0x0B44
	DEPTH_TEST Enum = 0x0B71
	BLEND      Enum = 0x0BE2

	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406

	RGB   Enum = 0x1907
	RGBA  Enum = 0x1908
	RGBA8 Enum = 0x8058

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8

	FRAGMENT_SHADER   Enum = 0x8B30
	VERTEX_SHADER     Enum = 0x8B31
	SHADER_TYPE       Enum = 0x8B4F
	DELETE_STATUS     Enum = 0x8B80
	COMPILE_STATUS    Enum = 0x8B81
	LINK_STATUS       Enum = 0x8B82
	ACTIVE_UNIFORMS   Enum = 0x8B86
	ACTIVE_ATTRIBUTES Enum = 0x8B89

	FLOAT_VEC2 Enum = 0x8B50
	FLOAT_VEC3 Enum = 0x8B51
	FLOAT_VEC4 Enum = 0x8B52
	INT_VEC2   Enum = 0x8B53
	BOOL       Enum = 0x8B56
	FLOAT_MAT3 Enum = 0x8B5B
	FLOAT_MAT4 Enum = 0x8B5C
	SAMPLER_2D Enum = 0x8B5E

	TEXTURE_2D             Enum = 0x0DE1
	TEXTURE0               Enum = 0x84C0
	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	TEXTURE_MAG_FILTER     Enum = 0x2800
	TEXTURE_MIN_FILTER     Enum = 0x2801
	TEXTURE_WRAP_S         Enum = 0x2802
	TEXTURE_WRAP_T         Enum = 0x2803
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F
	MIRRORED_REPEAT        Enum = 0x8370
)

// constants maps property names to their values, the way a context exposes
// them as properties.
var constants = map[string]Enum{
	"DEPTH_BUFFER_BIT":       DEPTH_BUFFER_BIT,
	"STENCIL_BUFFER_BIT":     STENCIL_BUFFER_BIT,
	"COLOR_BUFFER_BIT":       COLOR_BUFFER_BIT,
	"POINTS":                 POINTS,
	"LINES":                  LINES,
	"LINE_LOOP":              LINE_LOOP,
	"LINE_STRIP":             LINE_STRIP,
	"TRIANGLES":              TRIANGLES,
	"TRIANGLE_STRIP":         TRIANGLE_STRIP,
	"TRIANGLE_FAN":           TRIANGLE_FAN,
	"ZERO":                   ZERO,
	"ONE":                    ONE,
	"SRC_ALPHA":              SRC_ALPHA,
	"ONE_MINUS_SRC_ALPHA":    ONE_MINUS_SRC_ALPHA,
	"NO_ERROR":               NO_ERROR,
	"INVALID_ENUM":           INVALID_ENUM,
	"INVALID_VALUE":          INVALID_VALUE,
	"INVALID_OPERATION":      INVALID_OPERATION,
	"CULL_FACE":              CULL_FACE,
	"DEPTH_TEST":             DEPTH_TEST,
	"BLEND":                  BLEND,
	"BYTE":                   BYTE,
	"UNSIGNED_BYTE":          UNSIGNED_BYTE,
	"SHORT":                  SHORT,
	"UNSIGNED_SHORT":         UNSIGNED_SHORT,
	"INT":                    INT,
	"UNSIGNED_INT":           UNSIGNED_INT,
	"FLOAT":                  FLOAT,
	"RGB":                    RGB,
	"RGBA":                   RGBA,
	"RGBA8":                  RGBA8,
	"ARRAY_BUFFER":           ARRAY_BUFFER,
	"ELEMENT_ARRAY_BUFFER":   ELEMENT_ARRAY_BUFFER,
	"STREAM_DRAW":            STREAM_DRAW,
	"STATIC_DRAW":            STATIC_DRAW,
	"DYNAMIC_DRAW":           DYNAMIC_DRAW,
	"FRAGMENT_SHADER":        FRAGMENT_SHADER,
	"VERTEX_SHADER":          VERTEX_SHADER,
	"SHADER_TYPE":            SHADER_TYPE,
	"DELETE_STATUS":          DELETE_STATUS,
	"COMPILE_STATUS":         COMPILE_STATUS,
	"LINK_STATUS":            LINK_STATUS,
	"ACTIVE_UNIFORMS":        ACTIVE_UNIFORMS,
	"ACTIVE_ATTRIBUTES":      ACTIVE_ATTRIBUTES,
	"FLOAT_VEC2":             FLOAT_VEC2,
	"FLOAT_VEC3":             FLOAT_VEC3,
	"FLOAT_VEC4":             FLOAT_VEC4,
	"INT_VEC2":               INT_VEC2,
	"BOOL":                   BOOL,
	"FLOAT_MAT3":             FLOAT_MAT3,
	"FLOAT_MAT4":             FLOAT_MAT4,
	"SAMPLER_2D":             SAMPLER_2D,
	"TEXTURE_2D":             TEXTURE_2D,
	"TEXTURE0":               TEXTURE0,
	"NEAREST":                NEAREST,
	"LINEAR":                 LINEAR,
	"NEAREST_MIPMAP_NEAREST": NEAREST_MIPMAP_NEAREST,
	"LINEAR_MIPMAP_LINEAR":   LINEAR_MIPMAP_LINEAR,
	"TEXTURE_MAG_FILTER":     TEXTURE_MAG_FILTER,
	"TEXTURE_MIN_FILTER":     TEXTURE_MIN_FILTER,
	"TEXTURE_WRAP_S":         TEXTURE_WRAP_S,
	"TEXTURE_WRAP_T":         TEXTURE_WRAP_T,
	"REPEAT":                 REPEAT,
	"CLAMP_TO_EDGE":          CLAMP_TO_EDGE,
	"MIRRORED_REPEAT":        MIRRORED_REPEAT,
}

// LookupConstant returns the value of the named constant property.
func LookupConstant(name string) (Enum, bool) {
	v, ok := constants[name]
	return v, ok
}

// ConstantNames returns the names of all known constant properties,
// sorted alphabetically.
func ConstantNames() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
