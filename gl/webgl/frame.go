//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/gogpu/gltrace/schedule"
)

// RequestAnimationFrame schedules cb with window.requestAnimationFrame and
// returns the browser's request id. It satisfies schedule.RequestFunc.
//
// The js.Func is released after cb runs.
func RequestAnimationFrame(cb schedule.FrameCallback) int {
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer fn.Release()
		ts := 0.0
		if len(args) > 0 {
			ts = args[0].Float()
		}
		cb(ts)
		return nil
	})
	return js.Global().Call("requestAnimationFrame", fn).Int()
}

var _ schedule.RequestFunc = RequestAnimationFrame
