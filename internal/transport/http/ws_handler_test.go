package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/pairwire/pairwire-server/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ctx context.Context, ts string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	var raw json.RawMessage
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", msgType, err)
		}
		raw = payload
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readEvent reads outbound envelopes until one with the wanted event
// name arrives, decoding its data into out when non-nil.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, out any) {
	t.Helper()

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if outbound.Event != event {
			continue
		}
		if out != nil {
			if err := json.Unmarshal(outbound.Data, out); err != nil {
				t.Fatalf("unmarshal %s data: %v", event, err)
			}
		}
		return
	}
}

func TestWebSocketPairAndChat(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{UserID: 1, Name: "alice"})
	readEvent(t, ctx, connA, proto.EventJoinAck, nil)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{UserID: 2, Name: "bob"})
	readEvent(t, ctx, connB, proto.EventJoinAck, nil)

	var count proto.EventPresenceCountData
	readEvent(t, ctx, connB, proto.EventPresenceCount, &count)
	if count.Count != 2 {
		t.Fatalf("expected presence count 2, got %d", count.Count)
	}

	sendInbound(t, ctx, connA, proto.InboundTypeMatch, nil)
	readEvent(t, ctx, connA, proto.EventMatchSearching, nil)
	sendInbound(t, ctx, connB, proto.InboundTypeMatch, nil)

	var matchedA, matchedB proto.EventMatchedData
	readEvent(t, ctx, connA, proto.EventMatched, &matchedA)
	readEvent(t, ctx, connB, proto.EventMatched, &matchedB)

	if matchedA.Room == "" || matchedA.Room != matchedB.Room {
		t.Fatalf("room mismatch: %q vs %q", matchedA.Room, matchedB.Room)
	}
	if matchedA.PartnerName != "bob" || matchedB.PartnerName != "alice" {
		t.Fatalf("unexpected partner names: %+v %+v", matchedA, matchedB)
	}

	sendInbound(t, ctx, connA, proto.InboundTypeMsg, proto.MsgData{Room: matchedA.Room, Text: "hi there"})

	var msgA, msgB proto.EventMessageData
	readEvent(t, ctx, connA, proto.EventMessage, &msgA)
	readEvent(t, ctx, connB, proto.EventMessage, &msgB)

	if msgA.ID == "" || msgA.ID != msgB.ID {
		t.Fatalf("expected identical message ids, got %q vs %q", msgA.ID, msgB.ID)
	}
	if msgB.Text != "hi there" || msgB.Name != "alice" {
		t.Fatalf("unexpected message: %+v", msgB)
	}
}

func TestWebSocketSignalRelay(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{UserID: 1, Name: "alice"})
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{UserID: 2, Name: "bob"})
	sendInbound(t, ctx, connA, proto.InboundTypeMatch, nil)
	sendInbound(t, ctx, connB, proto.InboundTypeMatch, nil)

	var matched proto.EventMatchedData
	readEvent(t, ctx, connA, proto.EventMatched, &matched)
	readEvent(t, ctx, connB, proto.EventMatched, nil)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	sendInbound(t, ctx, connA, proto.InboundTypeSignalOffer, proto.SignalData{Room: matched.Room, Payload: offer})

	var signal proto.EventSignalData
	readEvent(t, ctx, connB, proto.EventSignalOffer, &signal)
	if signal.Room != matched.Room || string(signal.Payload) != string(offer) {
		t.Fatalf("signal not forwarded verbatim: %+v", signal)
	}
	if signal.From == "" {
		t.Fatal("signal must carry the sender connection id")
	}
}

func TestWebSocketPartnerDisconnect(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{UserID: 1, Name: "alice"})
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{UserID: 2, Name: "bob"})
	sendInbound(t, ctx, connA, proto.InboundTypeMatch, nil)
	sendInbound(t, ctx, connB, proto.InboundTypeMatch, nil)
	readEvent(t, ctx, connB, proto.EventMatched, nil)

	connA.Close(websocket.StatusNormalClosure, "bye")

	readEvent(t, ctx, connB, proto.EventPartnerDisconnected, nil)
}

func TestWebSocketBadPayloadGetsErrorEnvelope(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)

	// msg without a room id is a protocol error, not a dropped socket.
	sendInbound(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Text: "hello"})

	var outbound struct {
		Type  string       `json:"type"`
		Error *proto.Error `json:"error"`
	}
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read error envelope: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil {
		t.Fatalf("expected error envelope, got %+v", outbound)
	}

	// The connection stays usable afterwards.
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{UserID: 9, Name: "carol"})
	readEvent(t, ctx, conn, proto.EventJoinAck, nil)
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=garbage"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		// Some servers reject at upgrade; that is fine too.
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// The server closes the socket; the first read fails.
	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err == nil {
		t.Fatal("expected the socket to be closed for an invalid token")
	}
}
