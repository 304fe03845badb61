package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWebSocketAnswerFlow(t *testing.T) {
	srv := newTestServer(t, Options{})

	// room is created by the team join
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rooms/abcd/ws?role=team&name=Alpha"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect joined, then the initial room state.
	_, joined := readNext(conn, t, "joined")
	teamID, _ := joined["id"].(string)
	if teamID == "" {
		t.Fatalf("expected team id in joined payload, got %v", joined)
	}
	_, state := readNext(conn, t, "room-state")
	if state["code"] != "ABCD" {
		t.Fatalf("expected room ABCD, got %v", state["code"])
	}

	doJSON(t, srv, http.MethodPost, "/rooms/ABCD/quiz", `{"quizId":"pub"}`, http.StatusOK)
	doJSON(t, srv, http.MethodPost, "/rooms/ABCD/next", ``, http.StatusOK)

	_, started := readUntil(conn, t, "question-started")
	question, _ := started["question"].(map[string]any)
	if question["id"] != "q1" {
		t.Fatalf("expected q1, got %v", started)
	}
	if _, leaked := question["correctIndex"]; leaked {
		t.Fatalf("question payload leaked the solution: %v", question)
	}

	answer := map[string]any{"type": "answer", "payload": map[string]any{"value": 1}}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	_, accepted := readUntil(conn, t, "answer-accepted")
	if accepted["teamId"] != teamID {
		t.Fatalf("unexpected accepted payload %v", accepted)
	}

	doJSON(t, srv, http.MethodPost, "/rooms/ABCD/reveal", ``, http.StatusOK)
	_, result := readUntil(conn, t, "team-result")
	if result["isCorrect"] != true || result["score"] != float64(1) {
		t.Fatalf("unexpected team result %v", result)
	}
}

func TestWebSocketScreenIsReadOnly(t *testing.T) {
	srv := newTestServer(t, Options{})
	doJSON(t, srv, http.MethodPost, "/rooms/ABCD", ``, http.StatusOK)

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rooms/ABCD/ws?role=screen"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	readNext(conn, t, "room-state")
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"value": 1}}))
	_, payload := readNext(conn, t, "error")
	require.Equal(t, "invalid_input", payload["code"])
}

func TestWebSocketRejectsUnknownRoomForScreens(t *testing.T) {
	srv := newTestServer(t, Options{})

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rooms/NOPE/ws?role=screen"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

// readUntil skips events until one of type expect arrives.
func readUntil(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for i := 0; i < 32; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == "error" {
			t.Fatalf("unexpected error while waiting for %s: %v", expect, payload)
		}
		if typ == expect {
			return typ, payload
		}
	}
	t.Fatalf("no %s event received", expect)
	return "", nil
}

