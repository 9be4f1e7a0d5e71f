package http

import (
	"encoding/json"

	"github.com/pairwire/pairwire-server/internal/auth"
	"github.com/pairwire/pairwire-server/internal/core"
	"github.com/pairwire/pairwire-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound, claims *auth.Claims) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return nil, nil, err
			}
		}
		cmd := &core.Command{
			Kind:   core.CommandJoin,
			UserID: join.UserID,
			Name:   join.Name,
		}
		// Authenticated sockets join as their token identity.
		if claims != nil {
			cmd.UserID = claims.UserID
			cmd.Name = claims.DisplayName
			if cmd.Name == "" {
				cmd.Name = claims.Username
			}
		}
		if cmd.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "name is required"}, nil
		}
		return cmd, nil, nil

	case proto.InboundTypeMatch:
		return &core.Command{Kind: core.CommandMatchRequest}, nil, nil

	case proto.InboundTypeCancel:
		return &core.Command{Kind: core.CommandMatchCancel}, nil, nil

	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		if msg.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		kind := core.MessageKind(msg.Kind)
		switch kind {
		case "", core.MessageKindText, core.MessageKindSystem:
		default:
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message kind"}, nil
		}
		return &core.Command{
			Kind:        core.CommandSendMessage,
			Room:        msg.Room,
			Text:        msg.Text,
			MessageKind: kind,
		}, nil, nil

	case proto.InboundTypeSignalOffer, proto.InboundTypeSignalAnswer, proto.InboundTypeSignalCandidate:
		var signal proto.SignalData
		if err := json.Unmarshal(inbound.Data, &signal); err != nil {
			return nil, nil, err
		}
		if signal.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSignal,
			Room:    signal.Room,
			Signal:  signalKind(inbound.Type),
			Payload: signal.Payload,
		}, nil, nil

	case proto.InboundTypeLeave:
		var leave proto.LeaveData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: leave.Room,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func signalKind(inboundType string) core.SignalKind {
	switch inboundType {
	case proto.InboundTypeSignalOffer:
		return core.SignalOffer
	case proto.InboundTypeSignalAnswer:
		return core.SignalAnswer
	default:
		return core.SignalCandidate
	}
}

func signalEventName(kind core.SignalKind) string {
	switch kind {
	case core.SignalOffer:
		return proto.EventSignalOffer
	case core.SignalAnswer:
		return proto.EventSignalAnswer
	default:
		return proto.EventSignalCandidate
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinAck:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventJoinAck,
			Data:  proto.EventJoinAckData{Success: event.Success},
		}
	case core.EventPresenceCount:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPresenceCount,
			Data:  proto.EventPresenceCountData{Count: event.Count},
		}
	case core.EventMatchSearching:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMatchSearching,
		}
	case core.EventMatched:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMatched,
			Data: proto.EventMatchedData{
				Room:        event.Room,
				PartnerID:   event.PartnerID,
				PartnerName: event.PartnerName,
			},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data: proto.EventMessageData{
				ID:   event.Message.ID,
				Room: event.Message.Room,
				User: event.Message.UserID,
				Name: event.Message.From,
				Text: event.Message.Text,
				Kind: string(event.Message.Kind),
				TS:   event.Message.CreatedAt.Unix(),
			},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: signalEventName(event.Signal),
			Data: proto.EventSignalData{
				Room:    event.Room,
				Payload: event.Payload,
				From:    event.From,
			},
		}
	case core.EventPartnerLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPartnerDisconnected,
			Data:  proto.EventPartnerDisconnectedData{Room: event.Room},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
