package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/engine"
	"github.com/inamate/vecedit/backend-go/internal/typeid"
)

// bindCallbacks forwards engine notifications to the client.
func (c *Client) bindCallbacks() {
	c.engine.OnToolChange = func(t document.Tool) {
		c.sendPayload(TypeToolChanged, ToolChangedPayload{Tool: t})
	}
	c.engine.OnAnchorSelectionChange = func(selected bool) {
		c.sendPayload(TypeAnchorSelection, AnchorSelectionPayload{Selected: selected})
	}
	c.engine.OnSelectionPropertiesChange = func(p engine.SelectionProperties) {
		c.sendPayload(TypeSelectionProps, p)
	}
}

func (c *Client) welcome() {
	c.sendPayload(TypeWelcome, WelcomePayload{
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		Tool:      c.engine.Tool(),
		Settings:  c.engine.ToolSettings(),
	})
	c.render()
}

// handleMessage applies one inbound message to the engine and answers with
// a fresh render.
func (c *Client) handleMessage(msg *Message) {
	var err error
	switch msg.Type {
	case TypePointer:
		err = c.handlePointer(msg.Payload)
	case TypeTool:
		var p ToolPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			c.engine.SetTool(p.Tool)
		}
	case TypeSettings:
		var p document.ToolSettings
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			c.engine.SetToolSettings(p)
		}
	case TypeLayers:
		var p LayersPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			c.engine.SyncLayers(p.Layers)
		}
	case TypeActiveLayer:
		var p ActiveLayerPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			c.engine.SetActiveLayer(p.LayerID)
		}
	case TypeLoad:
		var p LoadPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			if p.Sample {
				c.engine.LoadScene(document.NewSampleScene())
			} else {
				c.engine.LoadScene(p.Layers)
			}
		}
	case TypeCommand:
		err = c.handleCommand(msg.Payload)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", c.SessionID)
		c.sendError("unknown message type: " + msg.Type)
		return
	}

	if err != nil {
		slog.Warn("invalid payload", "type", msg.Type, "error", err, "session", c.SessionID)
		c.sendError(err.Error())
		return
	}
	c.render()
}

func (c *Client) handlePointer(raw json.RawMessage) error {
	var p PointerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	ev := engine.PointerEvent{X: p.X, Y: p.Y}
	if p.Time > 0 {
		ev.Time = time.UnixMilli(p.Time)
	}
	switch p.Kind {
	case "down":
		ev.Kind = engine.PointerDown
	case "move":
		ev.Kind = engine.PointerMove
	case "up":
		ev.Kind = engine.PointerUp
	case "leave":
		ev.Kind = engine.PointerLeave
	default:
		return errors.New("unknown pointer kind: " + p.Kind)
	}
	c.engine.HandlePointer(ev)
	return nil
}

func (c *Client) handleCommand(raw json.RawMessage) error {
	var p CommandPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	var ok bool
	switch p.Name {
	case CmdFinishPath:
		ok = c.engine.FinishPath()
	case CmdDeleteSelectedAnchor:
		ok = c.engine.DeleteSelectedAnchor()
	case CmdSetAnchorSharp:
		ok = c.engine.SetAnchorSharp()
	case CmdFlattenSelectedShape:
		ok = c.engine.FlattenSelectedShape()
	case CmdSetPathClosed:
		ok = c.engine.SetPathClosed(p.Closed)
	case CmdDuplicateLayerContent:
		ok = c.engine.DuplicateLayerContent(p.SourceLayerID, p.NewLayerID)
	case CmdExportImage:
		return c.exportImage(p)
	default:
		return errors.New("unknown command: " + p.Name)
	}
	c.sendPayload(TypeCommandResult, CommandResultPayload{Name: p.Name, OK: ok})
	return nil
}

func (c *Client) exportImage(p CommandPayload) error {
	format, err := engine.ParseImageFormat(p.Format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	name, err := c.engine.ExportImage(&buf, p.FileName, format)
	if err != nil {
		if errors.Is(err, engine.ErrSVGNotImplemented) {
			slog.Info("svg export requested", "session", c.SessionID)
		}
		return err
	}
	c.sendPayload(TypeSnapshot, SnapshotPayload{
		ID:       typeid.NewExportID(),
		FileName: name,
		MimeType: "image/png",
		Data:     buf.Bytes(),
	})
	return nil
}

func (c *Client) render() {
	c.sendPayload(TypeRender, RenderPayload{Commands: c.engine.Render()})
}
