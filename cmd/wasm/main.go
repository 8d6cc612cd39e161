//go:build js && wasm

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	vecEngine := js.Global().Get("Object").New()

	// --- Inputs (frontend → engine) ---
	vecEngine.Set("pointerDown", js.FuncOf(pointer(engine.PointerDown)))
	vecEngine.Set("pointerMove", js.FuncOf(pointer(engine.PointerMove)))
	vecEngine.Set("pointerUp", js.FuncOf(pointer(engine.PointerUp)))
	vecEngine.Set("pointerLeave", js.FuncOf(pointer(engine.PointerLeave)))
	vecEngine.Set("setTool", js.FuncOf(setTool))
	vecEngine.Set("setToolSettings", js.FuncOf(setToolSettings))
	vecEngine.Set("syncLayers", js.FuncOf(syncLayers))
	vecEngine.Set("setActiveLayer", js.FuncOf(setActiveLayer))
	vecEngine.Set("loadSampleScene", js.FuncOf(loadSampleScene))

	// --- Commands ---
	vecEngine.Set("finishPath", js.FuncOf(boolCommand(eng.FinishPath)))
	vecEngine.Set("deleteSelectedAnchor", js.FuncOf(boolCommand(eng.DeleteSelectedAnchor)))
	vecEngine.Set("setAnchorSharp", js.FuncOf(boolCommand(eng.SetAnchorSharp)))
	vecEngine.Set("flattenSelectedShape", js.FuncOf(boolCommand(eng.FlattenSelectedShape)))
	vecEngine.Set("setPathClosed", js.FuncOf(setPathClosed))
	vecEngine.Set("duplicateLayerContent", js.FuncOf(duplicateLayerContent))
	vecEngine.Set("exportImage", js.FuncOf(exportImage))

	// --- Callbacks (engine → frontend) ---
	vecEngine.Set("onToolChange", js.FuncOf(onToolChange))
	vecEngine.Set("onAnchorSelectionChange", js.FuncOf(onAnchorSelectionChange))
	vecEngine.Set("onSelectionPropertiesChange", js.FuncOf(onSelectionPropertiesChange))

	// --- Queries ---
	vecEngine.Set("render", js.FuncOf(render))
	vecEngine.Set("getTool", js.FuncOf(getTool))
	vecEngine.Set("getSelection", js.FuncOf(getSelection))

	// Register on global scope
	js.Global().Set("vecEngine", vecEngine)

	// Signal that WASM is ready
	js.Global().Set("vecWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err string) any {
	return js.ValueOf(map[string]any{"error": err})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Input Handlers ---

// pointer builds a handler taking (x, y, timeStampMs).
func pointer(kind engine.PointerKind) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		ev := engine.PointerEvent{Kind: kind, Time: time.Now()}
		if len(args) >= 2 {
			ev.X = args[0].Float()
			ev.Y = args[1].Float()
		}
		if len(args) >= 3 && args[2].Type() == js.TypeNumber {
			ev.Time = time.UnixMilli(int64(args[2].Float()))
		}
		eng.HandlePointer(ev)
		return nil
	}
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetTool(document.Tool(args[0].String()))
	return nil
}

func setToolSettings(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing settings JSON")
	}
	var s document.ToolSettings
	if err := json.Unmarshal([]byte(args[0].String()), &s); err != nil {
		return errorResult(err.Error())
	}
	eng.SetToolSettings(s)
	return okResult()
}

func syncLayers(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing layers JSON")
	}
	var layers []document.LayerDescriptor
	if err := json.Unmarshal([]byte(args[0].String()), &layers); err != nil {
		return errorResult(err.Error())
	}
	eng.SyncLayers(layers)
	return okResult()
}

func setActiveLayer(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetActiveLayer(args[0].String())
	return nil
}

func loadSampleScene(this js.Value, args []js.Value) any {
	eng.LoadScene(document.NewSampleScene())
	return okResult()
}

// --- Command Handlers ---

func boolCommand(fn func() bool) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		return js.ValueOf(fn())
	}
}

func setPathClosed(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SetPathClosed(args[0].Bool()))
}

func duplicateLayerContent(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.DuplicateLayerContent(args[0].String(), args[1].String()))
}

// exportImage(name, format) returns {fileName, data} with base64 PNG data.
func exportImage(this js.Value, args []js.Value) any {
	var name, format string
	if len(args) > 0 {
		name = args[0].String()
	}
	format = string(engine.FormatPNG)
	if len(args) > 1 {
		format = args[1].String()
	}
	f, err := engine.ParseImageFormat(format)
	if err != nil {
		return errorResult(err.Error())
	}
	var buf bytes.Buffer
	fileName, err := eng.ExportImage(&buf, name, f)
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]any{
		"fileName": fileName,
		"data":     base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

// --- Callback Registration ---

func onToolChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnToolChange = nil
		return nil
	}
	cb := args[0]
	eng.OnToolChange = func(t document.Tool) {
		cb.Invoke(string(t))
	}
	return nil
}

func onAnchorSelectionChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnAnchorSelectionChange = nil
		return nil
	}
	cb := args[0]
	eng.OnAnchorSelectionChange = func(selected bool) {
		cb.Invoke(selected)
	}
	return nil
}

func onSelectionPropertiesChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnSelectionPropertiesChange = nil
		return nil
	}
	cb := args[0]
	eng.OnSelectionPropertiesChange = func(p engine.SelectionProperties) {
		data, err := json.Marshal(p)
		if err != nil {
			return
		}
		cb.Invoke(string(data))
	}
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	out, err := eng.RenderJSON()
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func getTool(this js.Value, args []js.Value) any {
	return js.ValueOf(string(eng.Tool()))
}

func getSelection(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.SelectionProperties())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}
