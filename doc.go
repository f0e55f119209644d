// Package gltrace records and checks the calls a program makes on a WebGL2
// rendering context.
//
// # Overview
//
// Wrap returns a Context that implements gl.Context by forwarding every call
// to the real context. On the way it formats the call into a readable
// signature, groups signatures into frame traces, and reports calls that
// break the session Policy.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gltrace"
//		"github.com/gogpu/gltrace/gl/headless"
//	)
//
//	glctx := gltrace.Wrap(headless.New(800, 600),
//		gltrace.WithConstants("ARRAY_BUFFER", "TRIANGLES"))
//
//	buf := glctx.CreateBuffer()            // "Buffer#1 = gl.CreateBuffer()"
//	glctx.BindBuffer(gl.ARRAY_BUFFER, buf) // "gl.BindBuffer(gl.ARRAY_BUFFER, Buffer#1)"
//	glctx.Clear(gl.COLOR_BUFFER_BIT)       // closes the frame
//
//	for _, frame := range glctx.Session().Traces() {
//		fmt.Println(frame)
//	}
//
// # Frames
//
// A call to the policy's frame boundary (Clear by default) ends the current
// frame. The boundary call belongs to the frame it closes. A frame whose
// signatures equal an earlier one is not stored again, so a steady render
// loop leaves a handful of distinct traces no matter how long it runs.
//
// # Warnings
//
// Each distinct signature is checked once:
//   - banned calls (GetAttribLocation by default)
//   - null results and null arguments
//   - ShaderSource text, through package glsl
//
// Warnings are logged at WARN on the session logger and kept in
// Session.Warnings.
//
// # Logging
//
// The package logs through log/slog. Logger returns slog.Default until
// SetLogger installs another one; SetLogger(nil) silences the package.
//
// # Scheduling
//
// Package schedule keeps a render loop from queueing a second animation
// frame while one is already pending.
package gltrace
