package http

import (
	"github.com/beaconchat/beacon-server/internal/core"
	"github.com/beaconchat/beacon-server/internal/proto"
)

func commandFromInbound(inbound proto.Inbound) *core.Command {
	// Incomplete frames still become commands; the hub drops them silently.
	return &core.Command{
		Receiver: inbound.Receiver,
		Text:     inbound.Text,
	}
}

func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Sender:   event.Message.Sender,
			Receiver: event.Message.Receiver,
			Text:     event.Message.Text,
			Time:     event.Message.Time,
			IsRead:   event.Message.IsRead,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.ErrorFrame{Status: "error", Code: "unknown", Message: "unknown error"}
		}
		return proto.ErrorFrame{Status: "error", Code: event.Error.Code, Message: event.Error.Message}
	default:
		return proto.ErrorFrame{Status: "error", Code: "unknown", Message: "unknown event"}
	}
}
