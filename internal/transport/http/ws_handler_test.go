package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"quiz-runner/internal/app"
	"quiz-runner/internal/domain"
	"quiz-runner/internal/infra/file"
	"quiz-runner/internal/infra/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *file.ResultStore, *app.QuizService) {
	t.Helper()
	results := file.NewResultStore(filepath.Join(t.TempDir(), "quiz_results.json"))
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), banks, results, app.Settings{
		DefaultBank: "arith",
		NewClock:    func() app.Clock { return app.NewManualClock() },
	})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, results, service
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketAnswerFlow(t *testing.T) {
	server, results, _ := newTestServer(t)
	conn := dial(t, server, "?bankId=arith")

	_, payload := readNext(conn, t, "session")
	if id, _ := payload["sessionId"].(string); id == "" {
		t.Fatalf("expected session id, got %v", payload)
	}

	_, payload = readNext(conn, t, "questionShown")
	if payload["text"] != "What is 2 + 2?" {
		t.Fatalf("unexpected question payload: %v", payload)
	}

	answer := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"text": " 4 "},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	_, payload = readNext(conn, t, "answerFeedback")
	if payload["kind"] != string(domain.FeedbackCorrect) || payload["message"] != "Correct!" {
		t.Fatalf("unexpected feedback: %v", payload)
	}

	_, payload = readNext(conn, t, "sessionFinished")
	if payload["correct"] != float64(1) || payload["wrong"] != float64(0) {
		t.Fatalf("unexpected summary: %v", payload)
	}

	entries, err := results.List()
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(entries) != 1 || entries[0].Correct != 1 {
		t.Fatalf("expected one saved result, got %+v", entries)
	}

	if err := conn.WriteJSON(map[string]any{"type": "replay"}); err != nil {
		t.Fatalf("write replay: %v", err)
	}
	readNext(conn, t, "questionShown")
}

func TestWebSocketRejectsUnknownMessages(t *testing.T) {
	server, _, _ := newTestServer(t)
	conn := dial(t, server, "")

	readNext(conn, t, "session")
	readNext(conn, t, "questionShown")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload: %v", payload)
	}
}

func TestWebSocketUnknownBank(t *testing.T) {
	server, _, service := newTestServer(t)
	conn := dial(t, server, "?bankId=nope")

	_, payload := readNext(conn, t, "error")
	if payload["message"] != domain.ErrBankNotFound.Error() {
		t.Fatalf("unexpected error payload: %v", payload)
	}
	if n := service.ActiveSessions(); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
}

func TestWebSocketClosesSessionOnDisconnect(t *testing.T) {
	server, _, service := newTestServer(t)
	conn := dial(t, server, "")
	readNext(conn, t, "session")
	readNext(conn, t, "questionShown")

	if n := service.ActiveSessions(); n != 1 {
		t.Fatalf("expected one session, got %d", n)
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for service.ActiveSessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not released after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == "timeUpdated" && expect != "timeUpdated" {
			continue
		}
		break
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func sampleBanks() map[string][]domain.Question {
	return map[string][]domain.Question{
		"arith": {
			{
				Number: 1,
				Text:   "What is 2 + 2?",
				Options: []domain.Option{
					{Label: "three", Number: 3},
					{Label: "four", Number: 4},
					{Label: "five", Number: 5},
				},
				Answer: 4,
			},
		},
	}
}
