package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"school-quiz-bot/internal/domain"
	"school-quiz-bot/internal/infra/memory"
	"school-quiz-bot/internal/leaderboard"
	"school-quiz-bot/internal/reading"
)

const testMocksJSON = `[
  {
    "id": "mock-1",
    "part1": {"answers": ["library", "teacher"]},
    "part2": {"answers": ["A", "C"]},
    "part3": {"answers": ["TRUE"]},
    "part4": {"answers": ["ii"]},
    "part5": {"summary": {"answers": ["energy"]}, "mc": {"answers": ["B"]}}
  }
]`

func newTestServer(t *testing.T) (*httptest.Server, *memory.UserStore, *memory.ReadingStore, *leaderboard.Board) {
	t.Helper()

	users := memory.NewUserStore()
	require.NoError(t, users.UpsertUser(context.Background(), domain.User{TelegramID: 1, FullName: "Aziza", Class: "9A"}))
	users.SetCredentials(1, "aziza", "secret")

	mocks, err := reading.NewLibrary([]byte(testMocksJSON))
	require.NoError(t, err)

	results := memory.NewReadingStore()
	board := leaderboard.New(nil)

	server := httptest.NewServer(NewHandler(users, mocks, results, board).Router())
	t.Cleanup(server.Close)
	return server, users, results, board
}

func TestLogin(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/login", "application/json",
		bytes.NewBufferString(`{"login":"aziza","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	require.Equal(t, int64(1), user.TelegramID)
	require.Equal(t, "Aziza", user.FullName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/login", "application/json",
		bytes.NewBufferString(`{"login":"aziza","password":"nope"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUser(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/users/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	require.Equal(t, "9A", user.Class)

	resp2, err := http.Get(server.URL + "/users/999")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestReadingMockEndpoints(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/reading-mocks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mocks []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mocks))
	require.Len(t, mocks, 1)
	require.Equal(t, "mock-1", mocks[0]["id"])

	resp2, err := http.Get(server.URL + "/reading-mock")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var mock map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&mock))
	require.Equal(t, "mock-1", mock["id"])
}

func TestReadingResultScoresAndPersists(t *testing.T) {
	server, _, results, _ := newTestServer(t)

	body := `{
	  "userId": 1,
	  "mockId": "mock-1",
	  "answers": {
	    "part1": ["Library", "teacher"],
	    "part2": ["a", "B"],
	    "part3": ["TRUE"],
	    "part4": ["iii"],
	    "part5": {"summary": ["ENERGY"], "mc": ["B"]}
	  }
	}`
	resp, err := http.Post(server.URL+"/reading-results", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record struct {
		Scores reading.Scores `json:"scores"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	// part1: 2, part2: 1 (B wrong), part3: 1, part4: 0, part5: 2
	require.Equal(t, 6, record.Total)
	require.Equal(t, 2, record.Scores.P1)
	require.Equal(t, 1, record.Scores.P2)

	stored, err := results.GetResult(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, stored)
}

func TestGetReadingResult(t *testing.T) {
	server, _, results, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/reading-results/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, results.SaveResult(context.Background(), 1, "mock-1",
		[]byte(`{"mock_id":"mock-1","total":6}`)))

	resp2, err := http.Get(server.URL + "/reading-results/1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var record map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&record))
	require.Equal(t, "mock-1", record["mock_id"])
	require.Equal(t, float64(6), record["total"])

	resp3, err := http.Get(server.URL + "/reading-results/nope")
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

func TestReadingResultUnknownMock(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/reading-results", "application/json",
		bytes.NewBufferString(`{"userId":1,"mockId":"nope","answers":{}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaderboardStream(t *testing.T) {
	server, _, _, board := newTestServer(t)

	url := "ws" + server.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial leaderboard.Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&initial))
	require.Empty(t, initial.Entries)

	board.Record(context.Background(), domain.User{TelegramID: 1, FullName: "Aziza", Class: "9A"}, 12, 15)

	var update leaderboard.Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&update))
	require.Len(t, update.Entries, 1)
	require.Equal(t, 12, update.Entries[0].Score)
}
