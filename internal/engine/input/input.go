// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies translated events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input tracks the events of the current frame plus the held keys and the
// cursor position across frames.
type Input struct {
	events []Event
	keys   map[sdl.Scancode]bool
	mouseX int
	mouseY int
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		keys:   make(map[sdl.Scancode]bool),
	}
}

// Update drains the SDL event queue. It returns true once the window was
// closed or Escape pressed.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := Translate(event); ok {
			i.Handle(e)
		}
	}
	return i.quit
}

// Handle applies one translated event to the input state.
func (i *Input) Handle(e Event) {
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		i.keys[e.Key] = true
		if e.Key == sdl.SCANCODE_ESCAPE {
			i.quit = true
		}
	case EventKeyUp:
		delete(i.keys, e.Key)
	case EventMouseMove, EventMouseDown, EventMouseUp:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	}
}

// Translate converts an SDL event. Events the renderer does not use report false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		typ := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			typ = EventKeyDown
		}
		return Event{
			Type:   typ,
			Key:    e.Keysym.Scancode,
			Repeat: e.Repeat != 0,
		}, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		typ := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = EventMouseDown
		}
		return Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether scancode went down this frame, ignoring key repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether scancode is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// MousePosition returns the last known cursor position in window coordinates.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}

// Resized returns the latest resize of the last Update, if any.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// Quit reports whether a quit was requested.
func (i *Input) Quit() bool {
	return i.quit
}
