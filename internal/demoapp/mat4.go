package demoapp

import "math"

// mat4 is a column-major 4x4 matrix, the layout UniformMatrix4fv expects.
type mat4 [16]float32

func identity() mat4 {
	return mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func scale(x, y, z float32) mat4 {
	m := identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

func translate(x, y, z float32) mat4 {
	m := identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func rotateZ(rad float64) mat4 {
	s, c := float32(math.Sin(rad)), float32(math.Cos(rad))
	m := identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// mul returns a*b.
func (a mat4) mul(b mat4) mat4 {
	var out mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// apply transforms the point (x, y, z, 1).
func (a mat4) apply(x, y, z float32) [3]float32 {
	return [3]float32{
		a[0]*x + a[4]*y + a[8]*z + a[12],
		a[1]*x + a[5]*y + a[9]*z + a[13],
		a[2]*x + a[6]*y + a[10]*z + a[14],
	}
}
