package session

import (
	"encoding/json"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Inbound
	TypePointer     = "pointer"
	TypeTool        = "tool"
	TypeSettings    = "settings"
	TypeLayers      = "layers"
	TypeActiveLayer = "activeLayer"
	TypeLoad        = "load"
	TypeCommand     = "command"

	// Outbound
	TypeRender          = "render"
	TypeToolChanged     = "tool.changed"
	TypeAnchorSelection = "anchor.selection"
	TypeSelectionProps  = "selection.props"
	TypeCommandResult   = "command.result"
	TypeSnapshot        = "snapshot"
)

// Command names accepted in command messages.
const (
	CmdFinishPath            = "finishPath"
	CmdDeleteSelectedAnchor  = "deleteSelectedAnchor"
	CmdSetAnchorSharp        = "setAnchorSharp"
	CmdFlattenSelectedShape  = "flattenSelectedShape"
	CmdSetPathClosed         = "setPathClosed"
	CmdDuplicateLayerContent = "duplicateLayerContent"
	CmdExportImage           = "exportImage"
)

type WelcomePayload struct {
	SessionID string                `json:"sessionId"`
	ClientID  string                `json:"clientId"`
	Tool      document.Tool         `json:"tool"`
	Settings  document.ToolSettings `json:"settings"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PointerPayload carries one pointer event. Time is in milliseconds; a
// missing or zero time disables double-click detection for that event.
type PointerPayload struct {
	Kind string  `json:"kind"` // "down", "move", "up", "leave"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time int64   `json:"time"`
}

type ToolPayload struct {
	Tool document.Tool `json:"tool"`
}

type LayersPayload struct {
	Layers []document.LayerDescriptor `json:"layers"`
}

type ActiveLayerPayload struct {
	LayerID string `json:"layerId"`
}

// LoadPayload replaces the scene. With Sample set, the built-in sample
// scene is loaded and Layers is ignored.
type LoadPayload struct {
	Sample bool                    `json:"sample,omitempty"`
	Layers []document.LayerContent `json:"layers,omitempty"`
}

type CommandPayload struct {
	Name string `json:"name"`

	// setPathClosed
	Closed bool `json:"closed,omitempty"`

	// duplicateLayerContent
	SourceLayerID string `json:"sourceLayerId,omitempty"`
	NewLayerID    string `json:"newLayerId,omitempty"`

	// exportImage
	FileName string `json:"fileName,omitempty"`
	Format   string `json:"format,omitempty"`
}

type CommandResultPayload struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// SnapshotPayload is an exported image. Data is base64 by encoding/json.
type SnapshotPayload struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type RenderPayload struct {
	Commands []engine.DrawCommand `json:"commands"`
}

type ToolChangedPayload struct {
	Tool document.Tool `json:"tool"`
}

type AnchorSelectionPayload struct {
	Selected bool `json:"selected"`
}
