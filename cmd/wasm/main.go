//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/skillradar/internal/app"
	"github.com/kittclouds/skillradar/internal/store"
	"github.com/kittclouds/skillradar/pkg/export"
	"github.com/kittclouds/skillradar/pkg/snapshot"
)

// Version info
const Version = "0.3.0"

// Global state
var (
	session  *app.Session
	saver    *backgroundSaver
	logger   = slog.New(slog.NewTextHandler(os.Stderr, nil))
	canvasID string
	lastW    float64
	lastH    float64
	onChange js.Value
)

func main() {
	println("[SkillRadar] WASM Ready v" + Version)

	js.Global().Set("SkillRadar", js.ValueOf(map[string]interface{}{
		"version":          js.FuncOf(getVersion),
		"init":             js.FuncOf(initialize),
		"onChange":         js.FuncOf(setOnChange),
		"addTask":          js.FuncOf(addTask),
		"removeTask":       js.FuncOf(removeTask),
		"addCompetency":    js.FuncOf(addCompetency),
		"removeCompetency": js.FuncOf(removeCompetency),
		"setScore":         js.FuncOf(setScore),
		"removeScore":      js.FuncOf(removeScore),
		"setSubject":       js.FuncOf(setSubject),
		"state":            js.FuncOf(state),
		"levels":           js.FuncOf(levels),
		"render":           js.FuncOf(render),
		"click":            js.FuncOf(click),
		"detail":           js.FuncOf(detail),
		"closeDetail":      js.FuncOf(closeDetail),
		"similar":          js.FuncOf(similarTasks),
		"shareLink":        js.FuncOf(shareLink),
		"exportDocument":   js.FuncOf(exportDocument),
	}))

	js.Global().Call("addEventListener", "resize", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		redraw()
		return nil
	}))

	select {}
}

// getVersion returns the module version
func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// initialize picks the mode from the location hash.
// Args: [hash string]
// Returns: Promise<{"mode": "interactive"|"read-only"}>
//
// A "#d=" hash opens a read-only session over the decoded snapshot. Anything
// else loads the saved document from IndexedDB, falling back to demo data.
func initialize(this js.Value, args []js.Value) interface{} {
	hash := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		hash = args[0].String()
	}

	if ds, ok := snapshot.FromFragment(hash); ok {
		startSession(app.NewShared(ds, logger))
		return promise(func() (interface{}, error) {
			return jsonResult(map[string]string{"mode": "read-only"}), nil
		})
	}

	return promise(func() (interface{}, error) {
		ctx := context.Background()
		fs, err := indexeddb.NewFS(ctx, "skillradar", indexeddb.Options{})
		if err != nil {
			// Private browsing and friends: run in memory only.
			logger.Warn("indexeddb unavailable, state will not be saved", "error", err)
			startSession(app.New(store.Demo(), nil, logger))
			return jsonResult(map[string]string{"mode": "interactive"}), nil
		}

		if saver != nil {
			saver.Close()
		}
		saver = newBackgroundSaver(store.NewFileStore(fs, ""), logger)
		st := store.Open(ctx, saver, store.Demo, logger)
		startSession(app.New(st, saver, logger))
		return jsonResult(map[string]string{"mode": "interactive"}), nil
	})
}

func startSession(s *app.Session) {
	session = s
	session.Subscribe(func(u app.Update) {
		redraw()
		if onChange.Type() == js.TypeFunction {
			onChange.Invoke(jsonResult(u))
		}
	})
	session.Refresh()
}

// setOnChange registers a JS callback receiving every update as JSON.
// Args: [fn function]
func setOnChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return errorResult("onChange requires a function")
	}
	onChange = args[0]
	return successResult("subscribed")
}

// =============================================================================
// Editing
// =============================================================================

// addTask: [name string, description string]
func addTask(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 1 {
		return errorResult("addTask requires a name")
	}
	desc := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		desc = args[1].String()
	}
	t, err := session.AddTask(args[0].String(), desc)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(t)
}

// removeTask: [id int]
func removeTask(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 1 {
		return errorResult("removeTask requires an id")
	}
	if err := session.RemoveTask(args[0].Int()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("removed")
}

// addCompetency: [name string]
func addCompetency(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 1 {
		return errorResult("addCompetency requires a name")
	}
	c, err := session.AddCompetency(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(c)
}

// removeCompetency: [id int]
func removeCompetency(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 1 {
		return errorResult("removeCompetency requires an id")
	}
	if err := session.RemoveCompetency(args[0].Int()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("removed")
}

// setScore: [taskId int, competencyId int, value string|number]
// Returns: {"value": n} with the score actually stored (0 = removed).
func setScore(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 3 {
		return errorResult("setScore requires 3 args: taskId, competencyId, value")
	}
	raw := args[2].String()
	if args[2].Type() == js.TypeNumber {
		raw = js.Global().Get("String").Invoke(args[2]).String()
	}
	v, err := session.SetScoreInput(args[0].Int(), args[1].Int(), raw)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(map[string]int{"value": v})
}

// removeScore: [taskId int, competencyId int]
func removeScore(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 2 {
		return errorResult("removeScore requires 2 args: taskId, competencyId")
	}
	if err := session.RemoveScore(args[0].Int(), args[1].Int()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("removed")
}

// setSubject: [name string]
func setSubject(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) > 0 {
		session.SetSubject(args[0].String())
	}
	return successResult("ok")
}

// =============================================================================
// Reading
// =============================================================================

// state returns the whole dataset plus the session mode.
func state(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	return jsonResult(struct {
		ReadOnly bool `json:"readOnly"`
		Data     any  `json:"data"`
	}{session.ReadOnly(), session.Dataset()})
}

func levels(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	return jsonResult(session.Levels())
}

// render: [canvasId string]
// Remembers the canvas so later updates and resizes redraw it.
func render(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) > 0 && args[0].Type() == js.TypeString {
		canvasID = args[0].String()
	}
	frame, err := draw()
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(map[string]interface{}{
		"legend":  frame.legend,
		"empty":   frame.empty,
		"skipped": frame.skipped,
	})
}

type drawn struct {
	legend         string
	empty, skipped bool
}

func draw() (drawn, error) {
	if canvasID == "" {
		return drawn{}, errors.New("no canvas")
	}
	el := js.Global().Get("document").Call("getElementById", canvasID)
	if !el.Truthy() {
		return drawn{}, errors.New("canvas not found: " + canvasID)
	}
	surface := newCanvasSurface(el)
	frame := session.Render(surface)
	if !frame.Skipped {
		lastW, lastH = surface.Size()
	}
	return drawn{legend: frame.Legend, empty: frame.Empty, skipped: frame.Skipped}, nil
}

func redraw() {
	if session == nil || canvasID == "" {
		return
	}
	if _, err := draw(); err != nil {
		logger.Debug("redraw skipped", "error", err)
	}
}

// click: [x float, y float] in CSS pixels relative to the canvas.
// Returns: {"hit": bool, "id": n}
func click(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 2 {
		return errorResult("click requires 2 args: x, y")
	}
	id, hit := session.Click(lastW, lastH, args[0].Float(), args[1].Float())
	return jsonResult(map[string]interface{}{"hit": hit, "id": id})
}

// detail returns the open detail panel or null.
func detail(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	b, ok := session.Detail()
	if !ok {
		return "null"
	}
	return jsonResult(b)
}

func closeDetail(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	session.CloseDetail()
	return successResult("closed")
}

// similar: [taskId int, k int]
func similarTasks(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	if len(args) < 2 {
		return errorResult("similar requires 2 args: taskId, k")
	}
	tasks, err := session.Similar(args[0].Int(), args[1].Int())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(tasks)
}

// =============================================================================
// Sharing
// =============================================================================

// shareLink: [base string (optional, defaults to location.href)]
func shareLink(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	base := js.Global().Get("location").Get("href").String()
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		base = args[0].String()
	}
	link, err := session.ShareURL(base)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(map[string]string{"url": link})
}

// exportDocument: [autoPrint bool]
// Returns the standalone HTML; the page opens it in a new window.
func exportDocument(this js.Value, args []js.Value) interface{} {
	if session == nil {
		return errorResult("not initialized")
	}
	opts := export.Options{}
	if len(args) > 0 {
		opts.AutoPrint = args[0].Truthy()
	}
	if base := js.Global().Get("location"); base.Truthy() {
		opts.ShareBase = base.Get("href").String()
	}
	html, err := session.ExportHTML(opts)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(html)
}

// =============================================================================
// Helpers
// =============================================================================

// promise runs fn off the JS event loop and settles a Promise with its result.
func promise(fn func() (interface{}, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}

func jsonResult(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
